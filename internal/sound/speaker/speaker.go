// Package speaker implements a sound.Backend that plays through the local
// audio device, mixing cues with beep.
//
// Locators are either "synth:<cue>" for a generated rendition of the cue, or a
// path to a WAV file.
package speaker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	beepspeaker "github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/janpfeifer/GoMemory/internal/sound"
	"k8s.io/klog/v2"
)

// SynthPrefix marks locators that are synthesized instead of loaded.
const SynthPrefix = "synth:"

// BufferDuration is the latency of the audio device buffer.
const BufferDuration = 100 * time.Millisecond

// Backend owns the mixer fed to the audio device.
type Backend struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	ready  bool
	lock   func()
	unlock func()
}

// New creates a Backend at the given sample rate. Call Init before priming.
func New(rate beep.SampleRate) *Backend {
	return &Backend{
		rate:   rate,
		mixer:  &beep.Mixer{},
		lock:   beepspeaker.Lock,
		unlock: beepspeaker.Unlock,
	}
}

// Init opens the audio device and starts streaming the mixer.
// If it fails the backend stays unavailable and every cue is silent.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}
	if err := beepspeaker.Init(b.rate, b.rate.N(BufferDuration)); err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}
	beepspeaker.Play(b.mixer)
	b.ready = true
	klog.Infof("speaker: audio device initialized at %d Hz", b.rate)
	return nil
}

// Close stops all sounds and releases the audio device.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return
	}
	b.lock()
	b.mixer.Clear()
	b.unlock()
	beepspeaker.Close()
	b.ready = false
}

// Available implements sound.Backend.
func (b *Backend) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Prime implements sound.Backend. The whole cue is decoded into memory, so
// playing it never touches the file system.
func (b *Backend) Prime(name sound.Name, locator string, volume float64) (sound.Resource, error) {
	format := beep.Format{SampleRate: b.rate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)

	switch {
	case strings.HasPrefix(locator, SynthPrefix):
		cue := sound.Name(strings.TrimPrefix(locator, SynthPrefix))
		s := Synthesize(cue, b.rate)
		if s == nil {
			return nil, fmt.Errorf("no synthesized version of %q: %w", cue, sound.ErrUnsupported)
		}
		buf.Append(s)

	case strings.EqualFold(filepath.Ext(locator), ".wav"):
		f, err := os.Open(locator)
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", locator, err)
		}
		defer f.Close()
		s, fileFormat, err := wav.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", locator, err)
		}
		defer s.Close()
		var streamer beep.Streamer = s
		if fileFormat.SampleRate != b.rate {
			streamer = beep.Resample(4, fileFormat.SampleRate, b.rate, s)
		}
		buf.Append(streamer)

	default:
		return nil, fmt.Errorf("%q: %w", locator, sound.ErrUnsupported)
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("%q decoded to no samples", locator)
	}
	klog.V(1).Infof("speaker: primed %q (%s)", name, b.rate.D(buf.Len()))
	return &clip{backend: b, buf: buf, volume: volume}, nil
}

// Playing returns the number of cues currently being mixed.
func (b *Backend) Playing() int {
	b.lock()
	defer b.unlock()
	return b.mixer.Len()
}

type clip struct {
	backend *Backend
	buf     *beep.Buffer
	volume  float64
}

// Play adds a fresh streamer over the buffer to the mixer.
func (c *clip) Play() error {
	s := withVolume(c.buf.Streamer(0, c.buf.Len()), c.volume)
	c.backend.lock()
	c.backend.mixer.Add(s)
	c.backend.unlock()
	return nil
}

// SynthLocators returns the synthesized locator of every cue.
func SynthLocators() map[sound.Name]string {
	locators := make(map[sound.Name]string, len(sound.Names))
	for _, name := range sound.Names {
		locators[name] = SynthPrefix + string(name)
	}
	return locators
}
