// Package browser implements a sound.Backend with HTML audio elements.
package browser

import (
	"fmt"

	"github.com/janpfeifer/GoMemory/internal/sound"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Backend primes sounds as `Audio` elements in the current page.
type Backend struct{}

// New returns a browser Backend.
func New() *Backend { return &Backend{} }

// Available is false when running on the server (prerendering).
func (b *Backend) Available() bool {
	return !app.IsServer
}

// Prime creates an Audio element for locator and forces it to load.
func (b *Backend) Prime(name sound.Name, locator string, volume float64) (res sound.Resource, err error) {
	if !b.Available() {
		return nil, sound.ErrUnavailable
	}
	defer catchJS(&err)

	audio := app.Window().Get("Audio").New()
	if !audio.Truthy() {
		return nil, fmt.Errorf("failed to create audio element for %q", name)
	}
	audio.Set("src", locator)
	audio.Set("preload", "auto")
	audio.Set("volume", volume)
	audio.Call("load")
	return &clip{name: name, audio: audio, volume: volume}, nil
}

type clip struct {
	name   sound.Name
	audio  app.Value
	volume float64
}

// Play clones the primed element and plays the clone. A rejected play
// promise (e.g. autoplay policy) is only logged.
func (c *clip) Play() (err error) {
	defer catchJS(&err)

	clone := c.audio.Call("cloneNode")
	clone.Set("volume", c.volume)
	promise := clone.Call("play")
	if !promise.Truthy() {
		return nil
	}

	var onSuccess, onFailure app.Func
	release := func() {
		onSuccess.Release()
		onFailure.Release()
	}
	onSuccess = app.FuncOf(func(this app.Value, args []app.Value) any {
		release()
		return nil
	})
	onFailure = app.FuncOf(func(this app.Value, args []app.Value) any {
		if len(args) > 0 {
			klog.Warningf("sound: error playing %q: %v", c.name, args[0])
		}
		release()
		return nil
	})
	promise.Call("then", onSuccess, onFailure)
	return nil
}

// catchJS converts a panic raised by a JS exception into an error.
func catchJS(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("javascript error: %v", r)
	}
}
