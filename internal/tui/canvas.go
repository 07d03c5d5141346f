package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/janpfeifer/GoMemory/internal/confetti"
)

// Surface pixels per terminal cell. Cells are about twice as tall as wide.
const (
	CellWidth  = 8
	CellHeight = 16
)

// arcSegments is the number of segments approximating a full circle.
const arcSegments = 16

// shades of a painted cell, from the most transparent to opaque.
var shades = []rune{'░', '▒', '▓', '█'}

type point struct{ x, y float64 }

// affine is a 2D transform: x' = a*x + c*y + e, y' = b*x + d*y + f.
type affine struct{ a, b, c, d, e, f float64 }

var identity = affine{a: 1, d: 1}

func (m affine) apply(x, y float64) point {
	return point{m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f}
}

// then returns the transform applying n first, then m.
func (m affine) then(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

type paint struct {
	color string
	alpha float64
}

// Canvas implements confetti.Canvas by rasterizing filled shapes onto a grid
// of terminal cells: a cell is painted when its center falls inside the
// shape, and shapes smaller than a cell paint the cell holding their center.
type Canvas struct {
	cols, rows int
	cells      []paint

	transform affine
	stack     []affine
	fillStyle string
	alpha     float64
	path      []point
}

var _ confetti.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas of cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{transform: identity, alpha: 1, fillStyle: "#ffffff"}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid size, clearing it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([]paint, c.cols*c.rows)
}

// Size returns the grid size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// PixelSize returns the surface size in pixels.
func (c *Canvas) PixelSize() (width, height int) {
	return c.cols * CellWidth, c.rows * CellHeight
}

// Clear erases all cells.
func (c *Canvas) Clear() { clear(c.cells) }

// At returns the color and opacity painted on cell (col, row), and false if
// the cell is empty.
func (c *Canvas) At(col, row int) (color string, alpha float64, ok bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return "", 0, false
	}
	p := c.cells[row*c.cols+col]
	return p.color, p.alpha, p.alpha > 0
}

// Painted returns the number of painted cells.
func (c *Canvas) Painted() int {
	n := 0
	for _, p := range c.cells {
		if p.alpha > 0 {
			n++
		}
	}
	return n
}

// Draw overlays the painted cells on screen, at (x0, y0).
func (c *Canvas) Draw(screen tcell.Screen, x0, y0 int) {
	for row := range c.rows {
		for col := range c.cols {
			p := c.cells[row*c.cols+col]
			if p.alpha <= 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.GetColor(p.color))
			screen.SetContent(x0+col, y0+row, shade(p.alpha), nil, style)
		}
	}
}

// shade picks the block glyph for an opacity in (0, 1].
func shade(alpha float64) rune {
	i := int(math.Ceil(alpha*float64(len(shades)))) - 1
	return shades[min(max(i, 0), len(shades)-1)]
}

func (c *Canvas) ClearRect(x, y, width, height float64) {
	c0, r0 := int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
	c1, r1 := int(math.Ceil((x+width)/CellWidth)), int(math.Ceil((y+height)/CellHeight))
	for row := max(r0, 0); row < min(r1, c.rows); row++ {
		for col := max(c0, 0); col < min(c1, c.cols); col++ {
			c.cells[row*c.cols+col] = paint{}
		}
	}
}

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.transform)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.transform = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(x, y float64) {
	c.transform = c.transform.then(affine{a: 1, d: 1, e: x, f: y})
}

func (c *Canvas) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	c.transform = c.transform.then(affine{a: cos, b: sin, c: -sin, d: cos})
}

func (c *Canvas) BeginPath() { c.path = c.path[:0] }

func (c *Canvas) MoveTo(x, y float64) {
	c.path = append(c.path[:0], c.transform.apply(x, y))
}

func (c *Canvas) LineTo(x, y float64) {
	c.path = append(c.path, c.transform.apply(x, y))
}

// ClosePath is implicit: filled polygons are always closed.
func (c *Canvas) ClosePath() {}

func (c *Canvas) Arc(x, y, radius, startAngle, endAngle float64) {
	sweep := endAngle - startAngle
	steps := max(int(math.Ceil(math.Abs(sweep)/(2*math.Pi)*arcSegments)), 1)
	for i := 0; i <= steps; i++ {
		angle := startAngle + sweep*float64(i)/float64(steps)
		c.path = append(c.path, c.transform.apply(x+radius*math.Cos(angle), y+radius*math.Sin(angle)))
	}
}

func (c *Canvas) Fill() { c.fillPolygon(c.path) }

func (c *Canvas) FillRect(x, y, width, height float64) {
	c.fillPolygon([]point{
		c.transform.apply(x, y),
		c.transform.apply(x+width, y),
		c.transform.apply(x+width, y+height),
		c.transform.apply(x, y+height),
	})
}

func (c *Canvas) SetFillStyle(color string) { c.fillStyle = color }

func (c *Canvas) SetGlobalAlpha(alpha float64) { c.alpha = min(max(alpha, 0), 1) }

func (c *Canvas) fillPolygon(poly []point) {
	if len(poly) < 3 || c.alpha <= 0 || len(c.cells) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	var cx, cy float64
	for _, p := range poly {
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
		cx += p.x
		cy += p.y
	}
	cx /= float64(len(poly))
	cy /= float64(len(poly))

	painted := false
	c0 := max(int(math.Floor(minX/CellWidth)), 0)
	c1 := min(int(math.Floor(maxX/CellWidth)), c.cols-1)
	r0 := max(int(math.Floor(minY/CellHeight)), 0)
	r1 := min(int(math.Floor(maxY/CellHeight)), c.rows-1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			center := point{(float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight}
			if inside(poly, center) {
				c.paint(col, row)
				painted = true
			}
		}
	}
	if !painted {
		c.paint(int(math.Floor(cx/CellWidth)), int(math.Floor(cy/CellHeight)))
	}
}

func (c *Canvas) paint(col, row int) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = paint{color: c.fillStyle, alpha: c.alpha}
}

// inside tests p against poly with the even-odd rule.
func inside(poly []point, p point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.y > p.y) != (b.y > p.y) && p.x < (b.x-a.x)*(p.y-a.y)/(b.y-a.y)+a.x {
			in = !in
		}
	}
	return in
}
