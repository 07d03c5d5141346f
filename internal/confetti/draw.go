package confetti

import "math"

// Canvas is the subset of a 2D drawing context used to render particles.
// Coordinates are in surface pixels.
type Canvas interface {
	ClearRect(x, y, width, height float64)
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Arc(x, y, radius, startAngle, endAngle float64)
	Fill()
	FillRect(x, y, width, height float64)
	SetFillStyle(color string)
	SetGlobalAlpha(alpha float64)
}

const (
	starSpikes = 5
	cos30      = 0.866
)

// Draw clears the canvas and renders every live particle. A nil canvas is a
// no-op. Particles are only read.
func (e *Engine) Draw(c Canvas) {
	if c == nil {
		return
	}
	c.ClearRect(0, 0, e.width, e.height)
	for i := range e.particles {
		DrawParticle(c, &e.particles[i])
	}
}

// DrawParticle renders p with its color at its opacity.
func DrawParticle(c Canvas, p *Particle) {
	c.SetGlobalAlpha(p.Opacity)
	c.SetFillStyle(p.Color)

	switch p.Shape {
	case Circle:
		c.BeginPath()
		c.Arc(p.X, p.Y, p.Size, 0, 2*math.Pi)
		c.Fill()
	case Square:
		c.Save()
		c.Translate(p.X, p.Y)
		c.Rotate(p.Rotation)
		c.FillRect(-p.Size, -p.Size, 2*p.Size, 2*p.Size)
		c.Restore()
	case Triangle:
		c.Save()
		c.Translate(p.X, p.Y)
		c.Rotate(p.Rotation)
		c.BeginPath()
		c.MoveTo(0, -p.Size)
		c.LineTo(p.Size*cos30, p.Size*0.5)
		c.LineTo(-p.Size*cos30, p.Size*0.5)
		c.ClosePath()
		c.Fill()
		c.Restore()
	case Star:
		c.Save()
		c.Translate(p.X, p.Y)
		c.Rotate(p.Rotation)
		c.BeginPath()
		for i := range 2 * starSpikes {
			radius := p.Size
			if i%2 == 1 {
				radius = p.Size / 2
			}
			angle := 2 * math.Pi * float64(i) / (2 * starSpikes)
			x, y := math.Cos(angle)*radius, math.Sin(angle)*radius
			if i == 0 {
				c.MoveTo(x, y)
			} else {
				c.LineTo(x, y)
			}
		}
		c.ClosePath()
		c.Fill()
		c.Restore()
	}

	c.SetGlobalAlpha(1)
}
