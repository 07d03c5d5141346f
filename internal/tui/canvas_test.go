package tui

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/janpfeifer/GoMemory/internal/confetti"
)

func TestCanvasFillRect(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetFillStyle("#ff0000")
	c.FillRect(0, 0, 2*CellWidth, CellHeight)
	if got := c.Painted(); got != 2 {
		t.Fatalf("Expected 2 painted cells, got %d", got)
	}
	for col := range 2 {
		color, alpha, ok := c.At(col, 0)
		if !ok || color != "#ff0000" || alpha != 1 {
			t.Errorf("Cell (%d, 0) = %q, %g, %v", col, color, alpha, ok)
		}
	}
	if _, _, ok := c.At(2, 0); ok {
		t.Errorf("Cell (2, 0) should be empty")
	}

	c.ClearRect(0, 0, CellWidth, CellHeight)
	if got := c.Painted(); got != 1 {
		t.Errorf("Expected 1 painted cell after ClearRect, got %d", got)
	}
	c.Clear()
	if got := c.Painted(); got != 0 {
		t.Errorf("Expected no painted cell after Clear, got %d", got)
	}
}

func TestCanvasTransform(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Save()
	c.Translate(4.5*CellWidth, 2.5*CellHeight)
	c.Rotate(math.Pi / 4)
	c.SetGlobalAlpha(0.3)
	// A small square around the origin covers only the center of one cell.
	c.FillRect(-2, -2, 4, 4)
	c.Restore()
	if _, alpha, ok := c.At(4, 2); !ok || alpha != 0.3 {
		t.Fatalf("Expected cell (4, 2) painted at 0.3, got %g, %v", alpha, ok)
	}
	if got := c.Painted(); got != 1 {
		t.Errorf("Expected 1 painted cell, got %d", got)
	}

	// Restore brought back the identity transform.
	c.SetGlobalAlpha(1)
	c.FillRect(0, 0, 1, 1)
	if _, _, ok := c.At(0, 0); !ok {
		t.Errorf("Expected cell (0, 0) painted after Restore")
	}
	// Restore without Save is ignored.
	c.Restore()
}

func TestCanvasArc(t *testing.T) {
	c := NewCanvas(20, 10)
	c.BeginPath()
	c.Arc(10*CellWidth, 5*CellHeight, 3*CellHeight, 0, 2*math.Pi)
	c.Fill()
	if _, _, ok := c.At(10, 5); !ok {
		t.Errorf("Expected the center of the circle painted")
	}
	if _, _, ok := c.At(0, 0); ok {
		t.Errorf("Expected the corner outside of the circle empty")
	}
	// Radius of 3 rows is 6 columns wide.
	if _, _, ok := c.At(15, 5); !ok {
		t.Errorf("Expected (15, 5) inside the circle")
	}
	if _, _, ok := c.At(17, 5); ok {
		t.Errorf("Expected (17, 5) outside the circle")
	}
}

func TestCanvasDrawsParticles(t *testing.T) {
	c := NewCanvas(40, 20)
	for _, shape := range confetti.Shapes {
		c.Clear()
		p := confetti.Particle{X: 100, Y: 100, Size: 10, Opacity: 1, Color: "#00ff00", Shape: shape}
		confetti.DrawParticle(c, &p)
		color, _, ok := c.At(100/CellWidth, 100/CellHeight)
		if !ok || color != "#00ff00" {
			t.Errorf("Shape %s: expected the particle center painted, got %q, %v", shape, color, ok)
		}
	}

	// Off surface particles are clipped.
	c.Clear()
	confetti.DrawParticle(c, &confetti.Particle{X: -100, Y: -100, Size: 4, Opacity: 1, Color: "#00ff00", Shape: confetti.Circle})
	if c.Painted() != 0 {
		t.Errorf("Expected nothing painted for an off surface particle")
	}
}

func TestShade(t *testing.T) {
	tests := map[float64]rune{1: '█', 0.8: '█', 0.6: '▓', 0.4: '▒', 0.1: '░'}
	for alpha, want := range tests {
		if got := shade(alpha); got != want {
			t.Errorf("shade(%g) = %q, want %q", alpha, got, want)
		}
	}
}

func TestCanvasDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(10, 5)

	c := NewCanvas(10, 5)
	c.SetFillStyle("#0000ff")
	c.FillRect(CellWidth, CellHeight, CellWidth, CellHeight)
	c.Draw(screen, 0, 0)
	r, _, style, _ := screen.GetContent(1, 1)
	if r != '█' {
		t.Errorf("Expected a full block at (1, 1), got %q", r)
	}
	if fg, _, _ := style.Decompose(); fg != tcell.GetColor("#0000ff") {
		t.Errorf("Expected blue foreground, got %v", fg)
	}
}

func TestFrames(t *testing.T) {
	f := NewFrames()
	var ran []int
	f.RequestFrame(func() { ran = append(ran, 1) })
	id := f.RequestFrame(func() { ran = append(ran, 2) })
	f.RequestFrame(func() {
		ran = append(ran, 3)
		f.RequestFrame(func() { ran = append(ran, 4) })
	})
	f.CancelFrame(id)

	if n := f.RunFrame(); n != 2 {
		t.Errorf("Expected 2 callbacks run, got %d", n)
	}
	if n := f.RunFrame(); n != 1 {
		t.Errorf("Expected the callback requested during the frame to run next, got %d", n)
	}
	if len(ran) != 3 || ran[0] != 1 || ran[1] != 3 || ran[2] != 4 {
		t.Errorf("Callbacks ran %v, want [1 3 4]", ran)
	}
	if f.Pending() != 0 || f.RunFrame() != 0 {
		t.Errorf("Expected no pending frames")
	}
}
