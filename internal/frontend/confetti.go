package frontend

import (
	"github.com/janpfeifer/GoMemory/internal/confetti"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

const confettiCanvasID = "confetti-canvas"

// Confetti is a full window canvas throwing a batch of confetti when mounted.
type Confetti struct {
	app.Compo
	loop *confetti.Loop
}

func (c *Confetti) OnMount(ctx app.Context) {
	if app.IsServer {
		return
	}
	canvas := c.JSValue()
	surface := newContext2D(canvas)
	if surface == nil {
		klog.Warningf("Confetti: no canvas %q, skipping", confettiCanvasID)
		return
	}
	w, h := c.fitWindow(canvas)
	c.loop = confetti.NewLoop(confetti.NewEngine(nil), newAnimationFrames())
	c.loop.Start(surface, w, h)
	klog.V(1).Infof("Confetti: %d particles on %dx%d", c.loop.Engine().Len(), w, h)
}

func (c *Confetti) OnResize(ctx app.Context) {
	if c.loop == nil {
		return
	}
	w, h := c.fitWindow(c.JSValue())
	c.loop.Engine().Resize(w, h)
}

func (c *Confetti) OnDismount() {
	if c.loop != nil {
		c.loop.Stop()
		c.loop = nil
	}
}

// fitWindow sizes the canvas to the window and returns the size.
func (c *Confetti) fitWindow(canvas app.Value) (w, h int) {
	w, h = app.Window().Size()
	if canvas != nil && canvas.Truthy() {
		canvas.Set("width", w)
		canvas.Set("height", h)
	}
	return w, h
}

func (c *Confetti) Render() app.UI {
	return app.Canvas().ID(confettiCanvasID).Class("confetti")
}
