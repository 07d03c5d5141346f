package speaker

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/janpfeifer/GoMemory/internal/sound"
)

// Wave shapes for the oscillator.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed length oscillator.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
}

// Tone returns a streamer of the given frequency and wave shape lasting d.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), wave: wave, rate: rate}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// envelope fades a streamer in over attack and out over release samples.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// Envelope shapes s, which is expected to last d.
func Envelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		gain := 1.0
		if e.attack > 0 && e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if releaseStart := e.total - e.release; e.release > 0 && e.position >= releaseStart {
			gain = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s linearly by vol; zero or negative is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func note(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return Envelope(Tone(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// Synthesize returns the generated rendition of a game cue, or nil if the cue
// has no synthesized version.
func Synthesize(name sound.Name, rate beep.SampleRate) beep.Streamer {
	switch name {
	case sound.Flip:
		// Short zip of noise.
		d := 70 * time.Millisecond
		return withVolume(Envelope(Tone(0, d, WaveNoise, rate), d, 10*time.Millisecond, 50*time.Millisecond, rate), 0.4)
	case sound.Match:
		// Two note chime: B5, E6.
		return beep.Seq(
			note(987.77, 80*time.Millisecond, WaveSquare, rate),
			note(1318.51, 220*time.Millisecond, WaveSquare, rate),
		)
	case sound.Wrong:
		d := 200 * time.Millisecond
		return Envelope(Tone(110, d, WaveSaw, rate), d, 5*time.Millisecond, 60*time.Millisecond, rate)
	case sound.Complete:
		// Bell: A5 with its octave.
		d := 600 * time.Millisecond
		return beep.Mix(
			withVolume(Envelope(Tone(880, d, WaveSine, rate), d, 5*time.Millisecond, 550*time.Millisecond, rate), 0.7),
			withVolume(Envelope(Tone(1760, d, WaveSine, rate), d, 5*time.Millisecond, 300*time.Millisecond, rate), 0.3),
		)
	case sound.Victory:
		// C major arpeggio.
		d := 150 * time.Millisecond
		return beep.Seq(
			note(523.25, d, WaveSine, rate),
			note(659.25, d, WaveSine, rate),
			note(783.99, d, WaveSine, rate),
			note(1046.50, 3*d, WaveSine, rate),
		)
	}
	return nil
}
