package tui

import (
	"maps"
	"slices"

	"github.com/janpfeifer/GoMemory/internal/confetti"
)

// Frames implements confetti.FrameScheduler for a ticker driven loop: the
// requested callbacks run on the next call to RunFrame.
type Frames struct {
	lastID  confetti.FrameID
	pending map[confetti.FrameID]func()
}

// NewFrames creates an empty frame scheduler.
func NewFrames() *Frames {
	return &Frames{pending: make(map[confetti.FrameID]func())}
}

func (f *Frames) RequestFrame(fn func()) confetti.FrameID {
	f.lastID++
	f.pending[f.lastID] = fn
	return f.lastID
}

func (f *Frames) CancelFrame(id confetti.FrameID) {
	delete(f.pending, id)
}

// Pending returns the number of callbacks waiting for a frame.
func (f *Frames) Pending() int { return len(f.pending) }

// RunFrame runs the callbacks requested so far, in request order. Callbacks
// requested while running wait for the next frame. It returns the number of
// callbacks run.
func (f *Frames) RunFrame() int {
	if len(f.pending) == 0 {
		return 0
	}
	ids := slices.Sorted(maps.Keys(f.pending))
	ran := 0
	for _, id := range ids {
		fn, found := f.pending[id]
		if !found {
			// Cancelled by an earlier callback.
			continue
		}
		delete(f.pending, id)
		fn()
		ran++
	}
	return ran
}
