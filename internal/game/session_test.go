package game

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/janpfeifer/GoMemory/internal/sound"
)

type fakeSound struct {
	played  []sound.Name
	enabled bool
}

func (f *fakeSound) Play(name sound.Name) {
	if f.enabled {
		f.played = append(f.played, name)
	}
}

func (f *fakeSound) SetEnabled(enabled bool) { f.enabled = enabled }

// testSession holds a Session with recording collaborators and its own clock.
type testSession struct {
	*Session
	now           time.Time
	sounds        *fakeSound
	notifications []Notification
	confetti      []bool
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	ts := &testSession{now: t0, sounds: &fakeSound{}}
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewPCG(3, 5))
	ts.Session = NewSession(cfg,
		WithStart(t0),
		WithSound(ts.sounds),
		WithNotifier(NotifierFunc(func(n Notification) { ts.notifications = append(ts.notifications, n) })),
		WithCelebration(CelebrationFunc(func(visible bool) { ts.confetti = append(ts.confetti, visible) })),
	)
	ts.arrange()
	return ts
}

// arrange orders the cards by id, so that pairs sit at indices (2i, 2i+1).
func (ts *testSession) arrange() {
	slices.SortFunc(ts.cards, func(a, b Card) int { return a.ID - b.ID })
}

func (ts *testSession) advance(d time.Duration) {
	ts.now = ts.now.Add(d)
	ts.Advance(ts.now)
}

// solveStage matches every pair of the current stage.
func (ts *testSession) solveStage(t *testing.T) {
	t.Helper()
	for i := 0; i < len(ts.cards); i += 2 {
		if !ts.FlipCard(i) || !ts.FlipCard(i+1) {
			t.Fatalf("Failed to flip pair (%d, %d): %s", i, i+1, ts.Snapshot().String())
		}
		ts.advance(ts.cfg.MatchDelay)
	}
}

func TestNewSession(t *testing.T) {
	ts := newTestSession(t)
	snap := ts.Snapshot()
	if snap.Stage != 0 || snap.TotalStages != 3 || snap.StageName != "Stage 1: Basics" || snap.Columns != 3 {
		t.Errorf("Unexpected initial stage: %s", snap.String())
	}
	if len(snap.Cards) != 12 || snap.TotalPairs != 6 {
		t.Errorf("Expected 12 cards and 6 pairs, got %d and %d", len(snap.Cards), snap.TotalPairs)
	}
	if !snap.Running || snap.Elapsed != 0 || snap.Points != 0 || snap.Moves != 0 || snap.Phase != PhaseIdle {
		t.Errorf("Unexpected initial counters: %s", snap.String())
	}
	if !snap.SoundEnabled || snap.ConfettiVisible || snap.DealID == "" {
		t.Errorf("Unexpected initial flags: sound=%v confetti=%v deal=%q", snap.SoundEnabled, snap.ConfettiVisible, snap.DealID)
	}
}

func TestFlipMatch(t *testing.T) {
	ts := newTestSession(t)
	if ts.cards[0].Icon != Heart || ts.cards[1].Icon != Heart {
		t.Fatalf("Expected Heart pair at 0 and 1, got %s and %s", ts.cards[0].Icon, ts.cards[1].Icon)
	}
	if !ts.FlipCard(0) {
		t.Fatalf("First flip rejected")
	}
	if ts.FlipCard(0) {
		t.Errorf("Flipping the same card twice should be rejected")
	}
	if !ts.FlipCard(1) {
		t.Fatalf("Second flip rejected")
	}
	snap := ts.Snapshot()
	if snap.Phase != PhaseChecking || snap.Moves != 1 || !slices.Equal(snap.Flipped, []int{0, 1}) {
		t.Fatalf("Unexpected state after two flips: %s", snap.String())
	}
	if ts.FlipCard(2) {
		t.Errorf("Third flip while checking should be rejected")
	}

	ts.advance(499 * time.Millisecond)
	if snap := ts.Snapshot(); snap.Matches != 0 || snap.Phase != PhaseChecking {
		t.Fatalf("Pair resolved too early: %s", snap.String())
	}
	ts.advance(time.Millisecond)
	snap = ts.Snapshot()
	if snap.Matches != 1 || !snap.Cards[0].Matched || !snap.Cards[1].Matched || len(snap.Flipped) != 0 {
		t.Fatalf("Pair not matched: %s", snap.String())
	}
	if snap.Points != 150 || snap.Phase != PhaseIdle {
		t.Errorf("Expected 150 points in phase Idle, got %s", snap.String())
	}
	if want := []sound.Name{sound.Flip, sound.Flip, sound.Match}; !slices.Equal(ts.sounds.played, want) {
		t.Errorf("Sounds played %v, want %v", ts.sounds.played, want)
	}
	if len(ts.notifications) != 1 || ts.notifications[0].Text != "+150 points!" ||
		ts.notifications[0].Style != StyleSuccess || ts.notifications[0].Duration != 1500*time.Millisecond {
		t.Errorf("Unexpected notifications %+v", ts.notifications)
	}
	if ts.FlipCard(0) {
		t.Errorf("Flipping a matched card should be rejected")
	}
	if ts.FlipCard(-1) || ts.FlipCard(len(ts.cards)) {
		t.Errorf("Flipping out of range should be rejected")
	}
}

func TestFlipMismatch(t *testing.T) {
	ts := newTestSession(t)
	ts.FlipCard(0)
	ts.FlipCard(2)
	ts.advance(999 * time.Millisecond)
	if snap := ts.Snapshot(); len(snap.Flipped) != 2 {
		t.Fatalf("Mismatch resolved too early: %s", snap.String())
	}
	ts.advance(time.Millisecond)
	snap := ts.Snapshot()
	if len(snap.Flipped) != 0 || snap.Phase != PhaseIdle || snap.Moves != 1 {
		t.Fatalf("Mismatch not resolved: %s", snap.String())
	}
	if snap.Points != 0 {
		t.Errorf("Points must not go below 0, got %d", snap.Points)
	}
	if snap.Cards[0].Matched || snap.Cards[2].Matched {
		t.Errorf("Mismatched cards marked as matched")
	}
	if want := []sound.Name{sound.Flip, sound.Flip, sound.Wrong}; !slices.Equal(ts.sounds.played, want) {
		t.Errorf("Sounds played %v, want %v", ts.sounds.played, want)
	}

	// With points, the penalty is taken.
	ts.FlipCard(0)
	ts.FlipCard(1)
	ts.advance(ts.cfg.MatchDelay)
	before := ts.Snapshot().Points
	ts.FlipCard(2)
	ts.FlipCard(4)
	ts.advance(ts.cfg.MismatchDelay)
	if got := ts.Snapshot().Points; got != before-MismatchPenalty {
		t.Errorf("Expected %d points after penalty, got %d", before-MismatchPenalty, got)
	}
}

func TestTimer(t *testing.T) {
	ts := newTestSession(t)
	ts.advance(2500 * time.Millisecond)
	if got := ts.Snapshot().Elapsed; got != 2 {
		t.Errorf("Expected 2s elapsed, got %d", got)
	}
	ts.advance(10 * time.Second)
	if got := ts.Snapshot().Time(); got != "0:12" {
		t.Errorf("Expected 0:12, got %s", got)
	}

	// Speed bonus uses the elapsed time at the moment the pair is flipped.
	ts.FlipCard(0)
	ts.FlipCard(1)
	ts.advance(ts.cfg.MatchDelay)
	if got, want := ts.Snapshot().Points, MatchPoints(12); got != want {
		t.Errorf("Expected %d points, got %d", want, got)
	}
}

func TestStageTransition(t *testing.T) {
	ts := newTestSession(t)
	ts.solveStage(t)
	snap := ts.Snapshot()
	if snap.Phase != PhaseStageTransition || !snap.StageComplete() || !snap.CanAdvance() {
		t.Fatalf("Expected stage transition: %s", snap.String())
	}
	if snap.Running || !snap.ConfettiVisible {
		t.Errorf("Expected timer stopped and confetti visible: running=%v confetti=%v", snap.Running, snap.ConfettiVisible)
	}
	if ts.FlipCard(0) {
		t.Errorf("Flips should be rejected during the stage transition")
	}
	last := ts.notifications[len(ts.notifications)-1]
	if last.Style != StyleStage || last.Duration != 3*time.Second ||
		!strings.HasPrefix(last.Text, "Stage 1 complete! +") || !strings.HasSuffix(last.Text, " bonus points!") {
		t.Errorf("Unexpected stage notification %+v", last)
	}
	if got := ts.sounds.played[len(ts.sounds.played)-1]; got != sound.Complete {
		t.Errorf("Expected %q cue last, got %q", sound.Complete, got)
	}
	elapsed, points := snap.Elapsed, snap.Points
	if snap.Moves != 6 || points < StageBonus(6) {
		t.Errorf("Expected 6 moves and at least %d points, got %s", StageBonus(6), snap.String())
	}

	ts.advance(time.Second)
	if got := ts.Snapshot().Elapsed; got != elapsed {
		t.Errorf("Timer should be frozen after completion: %d -> %d", elapsed, got)
	}
	ts.advance(3 * time.Second)
	snap = ts.Snapshot()
	if snap.Stage != 1 || snap.Phase != PhaseIdle || snap.Points != points || snap.Moves != 0 || snap.Elapsed != 0 {
		t.Fatalf("Expected a fresh stage 2 keeping points: %s", snap.String())
	}
	if !snap.Running || snap.ConfettiVisible || len(snap.Cards) != 16 || snap.Columns != 4 {
		t.Errorf("Unexpected stage 2 board: %s", snap.String())
	}
	if !slices.Equal(ts.confetti, []bool{true, false}) {
		t.Errorf("Confetti changes %v, want [true false]", ts.confetti)
	}
}

func TestManualAdvanceDuringTransition(t *testing.T) {
	ts := newTestSession(t)
	ts.solveStage(t)
	if !ts.AdvanceStage() {
		t.Fatalf("AdvanceStage failed")
	}
	if snap := ts.Snapshot(); snap.Stage != 1 || snap.ConfettiVisible {
		t.Fatalf("Unexpected state after manual advance: %s", snap.String())
	}
	// The scheduled transition must not advance a second time.
	ts.advance(10 * time.Second)
	if got := ts.Snapshot().Stage; got != 1 {
		t.Errorf("Expected to stay in stage 2, got stage %d", got+1)
	}
}

func TestVictory(t *testing.T) {
	ts := newTestSession(t)
	for stage := range 3 {
		ts.arrange()
		ts.solveStage(t)
		if stage < 2 {
			ts.advance(ts.cfg.StageTransitionDelay)
		}
	}
	snap := ts.Snapshot()
	if snap.Phase != PhaseComplete || snap.Stage != 2 || snap.CanAdvance() || !snap.ConfettiVisible {
		t.Fatalf("Expected victory: %s", snap.String())
	}
	if ts.AdvanceStage() {
		t.Errorf("AdvanceStage past the last stage should fail")
	}
	last := ts.notifications[len(ts.notifications)-1]
	if last.Style != StyleVictory || last.Duration != 5*time.Second || !strings.Contains(last.Text, "completed all stages") {
		t.Errorf("Unexpected victory notification %+v", last)
	}
	if got := ts.sounds.played[len(ts.sounds.played)-1]; got != sound.Victory {
		t.Errorf("Expected %q cue last, got %q", sound.Victory, got)
	}

	ts.advance(ts.cfg.VictoryConfettiDelay - time.Millisecond)
	if !ts.Snapshot().ConfettiVisible {
		t.Errorf("Confetti hidden too early")
	}
	ts.advance(time.Millisecond)
	snap = ts.Snapshot()
	if snap.ConfettiVisible || snap.Phase != PhaseComplete {
		t.Errorf("Expected confetti hidden and game still complete: %s", snap.String())
	}
	if n := ts.scheduler.Pending(); n != 0 {
		t.Errorf("Expected nothing else scheduled, got %d pending tasks", n)
	}
}

func TestResetGame(t *testing.T) {
	ts := newTestSession(t)
	ts.FlipCard(0)
	ts.FlipCard(1)
	ts.advance(ts.cfg.MatchDelay)
	ts.FlipCard(2)
	ts.FlipCard(4)
	oldDeal := ts.Snapshot().DealID

	ts.ResetGame()
	snap := ts.Snapshot()
	if snap.Stage != 0 || snap.Points != 0 || snap.Moves != 0 || snap.Matches != 0 || snap.Elapsed != 0 ||
		len(snap.Flipped) != 0 || snap.Phase != PhaseIdle || !snap.Running {
		t.Fatalf("Unexpected state after reset: %s", snap.String())
	}
	if snap.DealID == oldDeal {
		t.Errorf("Expected a new deal after reset")
	}
	for i, c := range snap.Cards {
		if c.Matched {
			t.Errorf("Card %d still matched after reset", i)
		}
	}
	// Only the timer tick is left.
	if n := ts.scheduler.Pending(); n != 1 {
		t.Errorf("Expected only the timer pending, got %d tasks", n)
	}
	ts.advance(5 * time.Second)
	if snap := ts.Snapshot(); snap.Points != 0 || snap.Elapsed != 5 {
		t.Errorf("Stale events leaked through the reset: %s", snap.String())
	}
}

func TestToggleSound(t *testing.T) {
	ts := newTestSession(t)
	if ts.ToggleSound() {
		t.Fatalf("ToggleSound should disable sound first")
	}
	ts.FlipCard(0)
	if len(ts.sounds.played) != 0 || ts.Snapshot().SoundEnabled {
		t.Errorf("Sound played while disabled: %v", ts.sounds.played)
	}
	if !ts.ToggleSound() {
		t.Fatalf("ToggleSound should enable sound again")
	}
	ts.FlipCard(1)
	if !slices.Equal(ts.sounds.played, []sound.Name{sound.Flip}) {
		t.Errorf("Sounds played %v, want [flip]", ts.sounds.played)
	}
}

func TestListeners(t *testing.T) {
	ts := newTestSession(t)
	calls := 0
	ts.Listeners["test"] = func() { calls++ }
	ts.FlipCard(0)
	if calls != 1 {
		t.Errorf("Expected listener called on flip, got %d calls", calls)
	}
	ts.advance(100 * time.Millisecond)
	if calls != 1 {
		t.Errorf("Listener called without any change, got %d calls", calls)
	}
	ts.advance(time.Second)
	if calls != 2 {
		t.Errorf("Expected listener called on timer tick, got %d calls", calls)
	}
}
