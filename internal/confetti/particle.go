// Package confetti simulates and draws the celebration effect: a batch of
// colored particles thrown up from the top half of the surface, falling
// under gravity while they spin and fade out.
package confetti

import (
	"math"
	"math/rand/v2"
)

// Shape of a particle.
type Shape string

const (
	Circle   Shape = "circle"
	Square   Shape = "square"
	Triangle Shape = "triangle"
	Star     Shape = "star"
)

// Shapes lists every particle shape.
var Shapes = []Shape{Circle, Square, Triangle, Star}

// Palette of particle colors.
var Palette = []string{
	"#FF5252", // Red
	"#FF4081", // Pink
	"#E040FB", // Purple
	"#7C4DFF", // Deep Purple
	"#536DFE", // Indigo
	"#448AFF", // Blue
	"#40C4FF", // Light Blue
	"#18FFFF", // Cyan
	"#64FFDA", // Teal
	"#69F0AE", // Green
	"#B2FF59", // Light Green
	"#EEFF41", // Lime
	"#FFFF00", // Yellow
	"#FFD740", // Amber
	"#FFAB40", // Orange
	"#FF6E40", // Deep Orange
}

const (
	// MaxParticles caps the size of a batch.
	MaxParticles = 200

	// AreaPerParticle is the surface area (in pixels) that gets one particle.
	AreaPerParticle = 10_000

	// FadePerTick is subtracted from the opacity on every tick: a particle
	// lasts at most 200 frames.
	FadePerTick = 0.005

	// fadeEpsilon absorbs the rounding error accumulated by repeated
	// subtraction of FadePerTick.
	fadeEpsilon = 1e-9
)

// Particle is one piece of confetti. Coordinates are in surface pixels, with
// y growing downwards.
type Particle struct {
	X, Y          float64
	VX, VY        float64
	Rotation      float64
	RotationSpeed float64
	Size          float64
	Gravity       float64
	Opacity       float64
	Color         string
	Shape         Shape
}

// ParticleCount returns the number of particles for a surface of the given size.
func ParticleCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return min(MaxParticles, width*height/AreaPerParticle)
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// NewParticle generates a random particle for a surface of the given size.
func NewParticle(rng *rand.Rand, width, height float64) Particle {
	return Particle{
		X:             uniform(rng, 0, width),
		Y:             uniform(rng, 0, height/2),
		Size:          uniform(rng, 4, 12),
		Color:         Palette[rng.IntN(len(Palette))],
		VX:            uniform(rng, -5, 5),
		VY:            uniform(rng, -15, -5),
		Rotation:      uniform(rng, 0, 2*math.Pi),
		RotationSpeed: uniform(rng, -0.1, 0.1),
		Gravity:       uniform(rng, 0.1, 0.2),
		Opacity:       1,
		Shape:         Shapes[rng.IntN(len(Shapes))],
	}
}

// Step advances the particle by one frame.
func (p *Particle) Step() {
	p.X += p.VX
	p.Y += p.VY
	p.VY += p.Gravity
	p.Rotation += p.RotationSpeed
	p.Opacity -= FadePerTick
	if p.Opacity < fadeEpsilon {
		p.Opacity = 0
	}
}

// Gone reports whether the particle fell below a surface of the given height
// or faded out completely.
func (p *Particle) Gone(height float64) bool {
	return p.Y > height+p.Size || p.Opacity <= 0
}
