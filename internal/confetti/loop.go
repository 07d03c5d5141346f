package confetti

// FrameID identifies a requested frame.
type FrameID int

// FrameScheduler runs callbacks once per display frame, like the browser's
// requestAnimationFrame.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Loop animates an Engine: on every frame it ticks the particles and draws
// them, and it requests a new frame only while particles remain.
type Loop struct {
	engine  *Engine
	frames  FrameScheduler
	canvas  Canvas
	pending FrameID
	running bool
}

// NewLoop couples engine with a frame scheduler.
func NewLoop(engine *Engine, frames FrameScheduler) *Loop {
	return &Loop{engine: engine, frames: frames}
}

// Engine returns the animated engine.
func (l *Loop) Engine() *Engine { return l.engine }

// Start throws a new batch of particles on a surface of the given size and
// starts animating it onto c.
func (l *Loop) Start(c Canvas, width, height int) {
	l.Stop()
	l.canvas = c
	l.engine.Start(width, height)
	if l.engine.Len() == 0 {
		return
	}
	l.running = true
	l.request()
}

// Stop cancels the pending frame, if any. Particles are kept.
func (l *Loop) Stop() {
	if l.running {
		l.frames.CancelFrame(l.pending)
	}
	l.running = false
}

// Running reports whether a frame is pending.
func (l *Loop) Running() bool { return l.running }

func (l *Loop) request() {
	l.pending = l.frames.RequestFrame(l.frame)
}

func (l *Loop) frame() {
	if !l.running {
		return
	}
	alive := l.engine.Tick()
	l.engine.Draw(l.canvas)
	if !alive {
		l.running = false
		return
	}
	l.request()
}
