package game

import (
	"math/rand/v2"
	"time"

	"github.com/janpfeifer/GoMemory/internal/sound"
)

// Config holds the timings and stages of a Session.
type Config struct {
	// MatchDelay is how long a matching pair stays up before being resolved.
	MatchDelay time.Duration

	// MismatchDelay is how long a wrong pair stays up before flipping back.
	MismatchDelay time.Duration

	// StageTransitionDelay is the celebration time before the next stage.
	StageTransitionDelay time.Duration

	// VictoryConfettiDelay is how long confetti is shown after the last stage.
	VictoryConfettiDelay time.Duration

	// TickInterval is the period of the elapsed time counter.
	TickInterval time.Duration

	// Stages played, in order. Defaults to DefaultStages.
	Stages []Stage

	// Rand used to shuffle decks. Defaults to a randomly seeded one.
	Rand *rand.Rand
}

// DefaultConfig returns the standard game timings.
func DefaultConfig() Config {
	return Config{
		MatchDelay:           500 * time.Millisecond,
		MismatchDelay:        time.Second,
		StageTransitionDelay: 4 * time.Second,
		VictoryConfettiDelay: 8 * time.Second,
		TickInterval:         time.Second,
		Stages:               DefaultStages,
	}
}

// withDefaults fills in unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MatchDelay <= 0 {
		c.MatchDelay = def.MatchDelay
	}
	if c.MismatchDelay <= 0 {
		c.MismatchDelay = def.MismatchDelay
	}
	if c.StageTransitionDelay <= 0 {
		c.StageTransitionDelay = def.StageTransitionDelay
	}
	if c.VictoryConfettiDelay <= 0 {
		c.VictoryConfettiDelay = def.VictoryConfettiDelay
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if len(c.Stages) == 0 {
		c.Stages = def.Stages
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// SoundPlayer plays game cues. *sound.Registry implements it.
type SoundPlayer interface {
	Play(name sound.Name)
	SetEnabled(enabled bool)
}

// Notifier shows transient messages to the player.
type Notifier interface {
	Notify(n Notification)
}

// Celebration is told when confetti should be shown or hidden.
type Celebration interface {
	SetConfetti(visible bool)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// CelebrationFunc adapts a function to a Celebration.
type CelebrationFunc func(visible bool)

// SetConfetti implements Celebration.
func (f CelebrationFunc) SetConfetti(visible bool) { f(visible) }

// Option configures the collaborators of a Session.
type Option func(s *Session)

// WithSound sets where game cues are played.
func WithSound(player SoundPlayer) Option {
	return func(s *Session) { s.sound = player }
}

// WithNotifier sets where player messages go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithCelebration sets who is told about confetti visibility changes.
func WithCelebration(c Celebration) Option {
	return func(s *Session) { s.celebration = c }
}

// WithStart sets the initial time of the session clock. Defaults to time.Now().
func WithStart(start time.Time) Option {
	return func(s *Session) { s.scheduler = NewScheduler(start) }
}
