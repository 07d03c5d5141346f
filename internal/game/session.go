package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/janpfeifer/GoMemory/internal/sound"
	"k8s.io/klog/v2"
)

// Session is the state of one player's game: the board of the current stage,
// the score and the pending timed events.
//
// Delayed events (pair resolution, stage transition, confetti) and the
// elapsed time counter run on an internal Scheduler, so nothing happens
// between calls: the owner must call Advance regularly with the current time.
//
// A Session is not safe for concurrent use: the UI must serialize calls.
type Session struct {
	cfg         Config
	scheduler   *Scheduler
	sound       SoundPlayer
	notifier    Notifier
	celebration Celebration

	dealID          string
	stage           int
	cards           Deck
	flipped         []int
	matches         int
	points          int
	moves           int
	elapsed         int
	running         bool
	phase           Phase
	soundEnabled    bool
	confettiVisible bool

	tickTask    TaskID
	resolveTask TaskID
	stageTask   TaskID

	// Listeners are called after every change of state.
	Listeners map[string]func()
}

// NewSession creates a session at the first stage, with the timer running.
func NewSession(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:          cfg.withDefaults(),
		soundEnabled: true,
		Listeners:    make(map[string]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = NewScheduler(time.Now())
	}
	if s.sound == nil {
		s.sound = sound.NewRegistry(nil)
	}
	s.sound.SetEnabled(s.soundEnabled)
	s.startStage(0)
	return s
}

// Config returns the configuration in use, with defaults filled in.
func (s *Session) Config() Config { return s.cfg }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Advance moves the session clock to now, running every timed event due.
func (s *Session) Advance(now time.Time) {
	if s.scheduler.Advance(now) > 0 {
		s.notifyListeners()
	}
}

// Now returns the session clock.
func (s *Session) Now() time.Time { return s.scheduler.Now() }

// FlipCard turns the card at index face up. It returns false, and does
// nothing, if the flip is not allowed: while a pair is being checked or the
// stage is over, if the card is matched or already face up, or if two cards
// are already flipped.
func (s *Session) FlipCard(index int) bool {
	switch {
	case s.phase != PhaseIdle:
		klog.V(2).Infof("FlipCard(%d): rejected in phase %s", index, s.phase)
		return false
	case index < 0 || index >= len(s.cards):
		klog.V(2).Infof("FlipCard(%d): out of range", index)
		return false
	case s.cards[index].Matched:
		klog.V(2).Infof("FlipCard(%d): already matched", index)
		return false
	case slices.Contains(s.flipped, index):
		klog.V(2).Infof("FlipCard(%d): already flipped", index)
		return false
	case len(s.flipped) >= 2:
		klog.V(2).Infof("FlipCard(%d): two cards already flipped", index)
		return false
	}

	s.sound.Play(sound.Flip)
	s.flipped = append(s.flipped, index)
	if len(s.flipped) == 2 {
		s.phase = PhaseChecking
		s.moves++
		first, second := s.flipped[0], s.flipped[1]
		if s.cards[first].Icon == s.cards[second].Icon {
			points := MatchPoints(s.elapsed)
			s.resolveTask = s.scheduler.After(s.cfg.MatchDelay, func() { s.resolveMatch(first, second, points) })
		} else {
			s.resolveTask = s.scheduler.After(s.cfg.MismatchDelay, s.resolveMismatch)
		}
	}
	s.notifyListeners()
	return true
}

func (s *Session) resolveMatch(first, second, points int) {
	s.resolveTask = 0
	s.sound.Play(sound.Match)
	s.cards[first].Matched = true
	s.cards[second].Matched = true
	s.flipped = s.flipped[:0]
	s.matches++
	s.points += points
	s.phase = PhaseIdle
	klog.V(1).Infof("Match %s: +%d points (%d/%d)", s.cards[first].Icon, points, s.matches, len(s.cards)/2)
	s.notify(fmt.Sprintf("+%d points!", points), StyleSuccess, 1500*time.Millisecond)

	if s.matches == len(s.cards)/2 {
		s.completeStage()
	}
}

func (s *Session) resolveMismatch() {
	s.resolveTask = 0
	s.sound.Play(sound.Wrong)
	s.flipped = s.flipped[:0]
	s.points = ApplyPenalty(s.points)
	s.phase = PhaseIdle
}

func (s *Session) completeStage() {
	bonus := StageBonus(s.moves)
	s.points += bonus
	s.stopTimer()
	s.setConfetti(true)
	klog.Infof("Stage %d complete in %d moves, %s: bonus %d, total %d points",
		s.stage+1, s.moves, FormatTime(s.elapsed), bonus, s.points)

	if s.stage < len(s.cfg.Stages)-1 {
		s.phase = PhaseStageTransition
		s.sound.Play(sound.Complete)
		s.notify(fmt.Sprintf("Stage %d complete! +%d bonus points!", s.stage+1, bonus), StyleStage, 3*time.Second)
		s.stageTask = s.scheduler.After(s.cfg.StageTransitionDelay, func() {
			s.stageTask = 0
			s.setConfetti(false)
			s.AdvanceStage()
		})
		return
	}

	s.phase = PhaseComplete
	s.sound.Play(sound.Victory)
	s.notify("🎉 Congratulations! You've completed all stages! 🎈", StyleVictory, 5*time.Second)
	s.stageTask = s.scheduler.After(s.cfg.VictoryConfettiDelay, func() {
		s.stageTask = 0
		s.setConfetti(false)
	})
}

// AdvanceStage moves to the next stage with a fresh board. Points are kept.
// It returns false if the current stage is the last one.
func (s *Session) AdvanceStage() bool {
	next := s.stage + 1
	if next >= len(s.cfg.Stages) {
		return false
	}
	if s.stageTask != 0 {
		s.scheduler.Cancel(s.stageTask)
		s.stageTask = 0
	}
	s.setConfetti(false)
	s.startStage(next)
	s.notifyListeners()
	return true
}

// ResetGame restarts from the first stage with zero points, dropping any
// pending event.
func (s *Session) ResetGame() {
	s.scheduler.CancelAll()
	s.tickTask, s.resolveTask, s.stageTask = 0, 0, 0
	s.running = false
	s.points = 0
	s.setConfetti(false)
	s.startStage(0)
	klog.Infof("Game reset")
	s.notifyListeners()
}

// ToggleSound switches sound on or off, and returns the new setting.
func (s *Session) ToggleSound() bool {
	s.soundEnabled = !s.soundEnabled
	s.sound.SetEnabled(s.soundEnabled)
	klog.Infof("ToggleSound: sound enabled is now %v", s.soundEnabled)
	s.notifyListeners()
	return s.soundEnabled
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	stage := s.cfg.Stages[s.stage]
	return Snapshot{
		DealID:          s.dealID,
		Stage:           s.stage,
		TotalStages:     len(s.cfg.Stages),
		StageName:       stage.Name,
		Columns:         stage.Columns,
		Cards:           s.cards.Clone(),
		Flipped:         slices.Clone(s.flipped),
		Matches:         s.matches,
		TotalPairs:      len(s.cards) / 2,
		Points:          s.points,
		Moves:           s.moves,
		Elapsed:         s.elapsed,
		Running:         s.running,
		Phase:           s.phase,
		SoundEnabled:    s.soundEnabled,
		ConfettiVisible: s.confettiVisible,
	}
}

// startStage deals the board of stage and restarts the stage counters.
func (s *Session) startStage(stage int) {
	if s.resolveTask != 0 {
		s.scheduler.Cancel(s.resolveTask)
		s.resolveTask = 0
	}
	s.stage = stage
	s.cards = Deal(s.cfg.Stages[stage], s.cfg.Rand)
	s.dealID = uuid.NewString()
	s.flipped = make([]int, 0, 2)
	s.matches = 0
	s.moves = 0
	s.elapsed = 0
	s.phase = PhaseIdle
	s.stopTimer()
	s.startTimer()
	klog.V(1).Infof("Dealt %q: %d cards, deal %s", s.cfg.Stages[stage].Name, len(s.cards), s.dealID)
}

func (s *Session) startTimer() {
	if s.running {
		return
	}
	s.running = true
	s.scheduleTick()
}

func (s *Session) scheduleTick() {
	s.tickTask = s.scheduler.After(s.cfg.TickInterval, func() {
		s.elapsed++
		s.scheduleTick()
	})
}

func (s *Session) stopTimer() {
	if s.tickTask != 0 {
		s.scheduler.Cancel(s.tickTask)
		s.tickTask = 0
	}
	s.running = false
}

func (s *Session) setConfetti(visible bool) {
	if s.confettiVisible == visible {
		return
	}
	s.confettiVisible = visible
	if s.celebration != nil {
		s.celebration.SetConfetti(visible)
	}
}

func (s *Session) notify(text string, style Style, d time.Duration) {
	if s.notifier != nil {
		s.notifier.Notify(Notification{Text: text, Style: style, Duration: d})
	}
}

func (s *Session) notifyListeners() {
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}
