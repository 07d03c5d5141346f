package frontend

import (
	"github.com/janpfeifer/GoMemory/internal/confetti"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// context2D implements confetti.Canvas over a CanvasRenderingContext2D.
type context2D struct {
	ctx app.Value
}

var _ confetti.Canvas = context2D{}

// newContext2D returns the 2D context of the canvas element, or nil if the
// element is missing.
func newContext2D(canvas app.Value) confetti.Canvas {
	if canvas == nil || !canvas.Truthy() {
		return nil
	}
	ctx := canvas.Call("getContext", "2d")
	if !ctx.Truthy() {
		return nil
	}
	return context2D{ctx: ctx}
}

func (c context2D) ClearRect(x, y, w, h float64) { c.ctx.Call("clearRect", x, y, w, h) }
func (c context2D) Save()                        { c.ctx.Call("save") }
func (c context2D) Restore()                     { c.ctx.Call("restore") }
func (c context2D) Translate(x, y float64)       { c.ctx.Call("translate", x, y) }
func (c context2D) Rotate(angle float64)         { c.ctx.Call("rotate", angle) }
func (c context2D) BeginPath()                   { c.ctx.Call("beginPath") }
func (c context2D) MoveTo(x, y float64)          { c.ctx.Call("moveTo", x, y) }
func (c context2D) LineTo(x, y float64)          { c.ctx.Call("lineTo", x, y) }
func (c context2D) ClosePath()                   { c.ctx.Call("closePath") }
func (c context2D) Fill()                        { c.ctx.Call("fill") }
func (c context2D) SetFillStyle(color string)    { c.ctx.Set("fillStyle", color) }
func (c context2D) SetGlobalAlpha(alpha float64) { c.ctx.Set("globalAlpha", alpha) }

func (c context2D) Arc(x, y, radius, startAngle, endAngle float64) {
	c.ctx.Call("arc", x, y, radius, startAngle, endAngle)
}

func (c context2D) FillRect(x, y, w, h float64) {
	c.ctx.Call("fillRect", x, y, w, h)
}

// animationFrames implements confetti.FrameScheduler with
// requestAnimationFrame. Each callback is released once it ran or was
// cancelled.
type animationFrames struct {
	funcs map[confetti.FrameID]app.Func
}

func newAnimationFrames() *animationFrames {
	return &animationFrames{funcs: make(map[confetti.FrameID]app.Func)}
}

func (f *animationFrames) RequestFrame(fn func()) confetti.FrameID {
	var id confetti.FrameID
	var cb app.Func
	cb = app.FuncOf(func(this app.Value, args []app.Value) any {
		delete(f.funcs, id)
		cb.Release()
		fn()
		return nil
	})
	id = confetti.FrameID(app.Window().Call("requestAnimationFrame", cb).Int())
	f.funcs[id] = cb
	return id
}

func (f *animationFrames) CancelFrame(id confetti.FrameID) {
	cb, found := f.funcs[id]
	if !found {
		return
	}
	app.Window().Call("cancelAnimationFrame", int(id))
	delete(f.funcs, id)
	cb.Release()
}
