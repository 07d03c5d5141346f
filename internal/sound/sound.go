// Package sound maps symbolic cue names to preloaded audio resources and
// triggers overlapping playback of them.
//
// The actual audio work is done by a Backend: the browser backend uses HTML
// audio elements, the speaker backend mixes samples with beep. A Registry
// without an available backend silently does nothing.
package sound

import (
	"errors"
	"fmt"
	"path"
	"sync"

	"k8s.io/klog/v2"
)

// Name of a sound cue.
type Name string

const (
	Flip     Name = "flip"
	Match    Name = "match"
	Wrong    Name = "wrong"
	Complete Name = "complete"
	Victory  Name = "victory"
)

// Names lists all cues used by the game, in the order they are preloaded.
var Names = []Name{Flip, Match, Wrong, Complete, Victory}

// DefaultVolume used for every primed resource.
const DefaultVolume = 0.5

var (
	// ErrUnavailable is returned by backends when there is no audio environment
	// (server side prerendering, headless terminals, tests).
	ErrUnavailable = errors.New("sound: audio environment not available")

	// ErrUnsupported is returned by backends for locators they can't load.
	ErrUnsupported = errors.New("sound: unsupported resource locator")
)

// Backend primes audio resources.
type Backend interface {
	// Available reports whether audio can be played at all.
	Available() bool

	// Prime fetches and prepares the resource at locator, with the given volume.
	Prime(name Name, locator string, volume float64) (Resource, error)
}

// Resource is a primed audio resource.
type Resource interface {
	// Play starts playback of an independent copy of the resource, so repeated
	// calls overlap instead of restarting each other.
	Play() error
}

// Registry maps cue names to primed resources. The zero value is not usable,
// create one with NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	backend Backend
	sounds  map[Name]Resource
	enabled bool
	volume  float64
}

// NewRegistry creates an enabled Registry using the given backend.
// A nil backend is equivalent to Nop{}.
func NewRegistry(backend Backend) *Registry {
	if backend == nil {
		backend = Nop{}
	}
	return &Registry{
		backend: backend,
		sounds:  make(map[Name]Resource),
		enabled: true,
		volume:  DefaultVolume,
	}
}

// Preload primes the resource at locator under name.
// Failures are logged and otherwise ignored: the cue will just be silent.
func (r *Registry) Preload(name Name, locator string) {
	if !r.backend.Available() {
		klog.V(1).Infof("sound: skipping preload of %q, no audio environment", name)
		return
	}
	res, err := r.backend.Prime(name, locator, r.volume)
	if err != nil {
		klog.Errorf("sound: failed to preload %q from %q: %v", name, locator, err)
		return
	}
	r.mu.Lock()
	r.sounds[name] = res
	r.mu.Unlock()
	klog.V(1).Infof("sound: preloaded %q from %q", name, locator)
}

// PreloadAll preloads every entry of locators.
func (r *Registry) PreloadAll(locators map[Name]string) {
	for _, name := range Names {
		if loc, found := locators[name]; found {
			r.Preload(name, loc)
		}
	}
}

// Play triggers the cue. It does nothing if the registry is disabled, there is
// no audio environment or the cue was never preloaded.
func (r *Registry) Play(name Name) {
	r.mu.RLock()
	enabled := r.enabled
	res := r.sounds[name]
	r.mu.RUnlock()
	if !enabled || res == nil || !r.backend.Available() {
		return
	}
	if err := res.Play(); err != nil {
		klog.Warningf("sound: failed to play %q: %v", name, err)
	}
}

// SetEnabled turns playback on or off.
func (r *Registry) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Enabled reports whether playback is on.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Loaded reports whether name was successfully preloaded.
func (r *Registry) Loaded(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.sounds[name]
	return found
}

// Locators returns the locator of every cue as base/<name><ext>, e.g.
// Locators("/web/sounds", ".mp3")[Flip] == "/web/sounds/flip.mp3".
func Locators(base, ext string) map[Name]string {
	locators := make(map[Name]string, len(Names))
	for _, name := range Names {
		locators[name] = path.Join(base, fmt.Sprintf("%s%s", name, ext))
	}
	return locators
}

// Nop is a Backend for environments without audio.
type Nop struct{}

// Available implements Backend.
func (Nop) Available() bool { return false }

// Prime implements Backend.
func (Nop) Prime(Name, string, float64) (Resource, error) { return nil, ErrUnavailable }
