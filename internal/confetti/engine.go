package confetti

import (
	"math/rand/v2"

	"k8s.io/klog/v2"
)

// Engine owns a batch of particles and the dimensions of the surface they
// live on. It is not safe for concurrent use: it is meant to be touched only
// from the animation callback.
type Engine struct {
	width, height float64
	particles     []Particle
	rng           *rand.Rand
}

// NewEngine creates an engine. If rng is nil a randomly seeded one is used.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{rng: rng}
}

// Start discards any previous batch and generates a new one for a surface of
// the given size.
func (e *Engine) Start(width, height int) {
	e.Resize(width, height)
	count := ParticleCount(width, height)
	e.particles = make([]Particle, 0, count)
	for range count {
		e.particles = append(e.particles, NewParticle(e.rng, e.width, e.height))
	}
	klog.V(1).Infof("confetti: started %d particles on %dx%d", count, width, height)
}

// Resize updates the surface size. Particles in flight keep their
// coordinates: the ones now outside are culled by the usual checks.
func (e *Engine) Resize(width, height int) {
	e.width, e.height = float64(width), float64(height)
}

// Size returns the surface size.
func (e *Engine) Size() (width, height int) {
	return int(e.width), int(e.height)
}

// Tick advances all particles by one frame and drops the ones that fell off
// the surface or faded out. It returns whether any particle remains.
func (e *Engine) Tick() bool {
	alive := 0
	for i := range e.particles {
		p := &e.particles[i]
		p.Step()
		if p.Gone(e.height) {
			continue
		}
		e.particles[alive] = *p
		alive++
	}
	clear(e.particles[alive:])
	e.particles = e.particles[:alive]
	if alive == 0 {
		e.particles = nil
	}
	return alive > 0
}

// Clear drops all particles.
func (e *Engine) Clear() {
	e.particles = nil
}

// Len returns the number of live particles.
func (e *Engine) Len() int {
	return len(e.particles)
}

// Particles returns a copy of the live particles.
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}
