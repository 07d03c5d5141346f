package tui

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/janpfeifer/GoMemory/internal/confetti"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/janpfeifer/GoMemory/internal/sound"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type testApp struct {
	*App
	screen tcell.SimulationScreen
	clock  time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	ta := &testApp{screen: screen, clock: t0}
	cfg := game.DefaultConfig()
	cfg.Rand = rand.New(rand.NewPCG(9, 9))
	ta.App = New(screen, cfg, sound.NewRegistry(nil),
		WithClock(func() time.Time { return ta.clock }),
		WithConfettiEngine(confetti.NewEngine(rand.New(rand.NewPCG(4, 4)))),
	)
	return ta
}

func (ta *testApp) advance(d time.Duration) {
	ta.clock = ta.clock.Add(d)
	ta.Advance(ta.clock)
}

// row returns the text of screen row y.
func (ta *testApp) row(y int) string {
	cols, _ := ta.screen.Size()
	var sb strings.Builder
	for x := range cols {
		r, _, _, _ := ta.screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// pairOf returns the index of the card matching the one at index.
func (ta *testApp) pairOf(t *testing.T, index int) int {
	t.Helper()
	snap := ta.Session().Snapshot()
	for i, c := range snap.Cards {
		if i != index && c.Icon == snap.Cards[index].Icon {
			return i
		}
	}
	t.Fatalf("No pair for card %d", index)
	return -1
}

func TestRender(t *testing.T) {
	ta := newTestApp(t)
	ta.Render()
	if got := ta.row(0); !strings.Contains(got, "GoMemory") || !strings.Contains(got, "sound: on") {
		t.Errorf("Unexpected title row %q", got)
	}
	if got := ta.row(1); !strings.Contains(got, "Stage 1/3") || !strings.Contains(got, "Points 0") ||
		!strings.Contains(got, "Time 0:00") || !strings.Contains(got, "Moves 0") {
		t.Errorf("Unexpected stats row %q", got)
	}
	if got := ta.row(2); !strings.Contains(got, "Stage 1: Basics") || !strings.Contains(got, "Matches: 0 / 6") {
		t.Errorf("Unexpected stage row %q", got)
	}
	// Face down card at the top-left of the board.
	if got := ta.row(boardY + 1); !strings.Contains(got, "│   ?    │") {
		t.Errorf("Expected a face down card, got %q", got)
	}

	ta.HandleKey(tcell.KeyRune, ' ')
	ta.Render()
	icon := string(ta.Session().Snapshot().Cards[0].Icon)
	if got := ta.row(boardY + 1); !strings.Contains(got, icon) {
		t.Errorf("Expected flipped card to show %q, got %q", icon, got)
	}
}

func TestKeys(t *testing.T) {
	ta := newTestApp(t)
	// Stage 1 has 3 columns.
	ta.HandleKey(tcell.KeyRight, 0)
	ta.HandleKey(tcell.KeyRune, 'l')
	ta.HandleKey(tcell.KeyRune, 'l') // Stays at the right edge.
	if ta.Cursor() != 2 {
		t.Errorf("Expected cursor at 2, got %d", ta.Cursor())
	}
	ta.HandleKey(tcell.KeyDown, 0)
	ta.HandleKey(tcell.KeyRune, 'j')
	ta.HandleKey(tcell.KeyRune, 'h')
	if ta.Cursor() != 7 {
		t.Errorf("Expected cursor at 7, got %d", ta.Cursor())
	}
	ta.HandleKey(tcell.KeyUp, 0)
	ta.HandleKey(tcell.KeyRune, 'k')
	ta.HandleKey(tcell.KeyRune, 'k') // Stays at the top edge.
	ta.HandleKey(tcell.KeyLeft, 0)
	if ta.Cursor() != 0 {
		t.Errorf("Expected cursor at 0, got %d", ta.Cursor())
	}

	if !ta.HandleKey(tcell.KeyEnter, 0) {
		t.Fatalf("Enter should not quit")
	}
	if got := ta.Session().Snapshot().Flipped; !slices.Equal(got, []int{0}) {
		t.Errorf("Expected card 0 flipped, got %v", got)
	}

	ta.HandleKey(tcell.KeyRune, 's')
	if ta.Session().Snapshot().SoundEnabled {
		t.Errorf("Expected sound disabled")
	}

	// 'n' does nothing before the stage is complete.
	ta.HandleKey(tcell.KeyRune, 'n')
	if ta.Session().Snapshot().Stage != 0 {
		t.Errorf("Next stage should require a completed stage")
	}

	ta.HandleKey(tcell.KeyRune, 'r')
	if snap := ta.Session().Snapshot(); len(snap.Flipped) != 0 || ta.Cursor() != 0 {
		t.Errorf("Expected a fresh game after reset: %s", snap.String())
	}

	for _, quit := range []struct {
		key tcell.Key
		r   rune
	}{{tcell.KeyRune, 'q'}, {tcell.KeyEscape, 0}, {tcell.KeyCtrlC, 0}} {
		if ta.HandleKey(quit.key, quit.r) {
			t.Errorf("Expected %v/%q to quit", quit.key, quit.r)
		}
	}
}

func TestClick(t *testing.T) {
	ta := newTestApp(t)
	x, y := cardOrigin(3, 4)
	ta.Click(x+1, y+1)
	if ta.Cursor() != 4 || !slices.Equal(ta.Session().Snapshot().Flipped, []int{4}) {
		t.Errorf("Expected card 4 selected and flipped, cursor=%d", ta.Cursor())
	}

	// Gaps and the header hit nothing.
	ta.Click(x+cardWidth, y)
	ta.Click(0, 0)
	if len(ta.Session().Snapshot().Flipped) != 1 {
		t.Errorf("Click outside of cards flipped something")
	}

	ta.HandleEvent(tcell.NewEventMouse(x+2, y+2, tcell.Button1, tcell.ModNone))
	if got := ta.Session().Snapshot().Flipped; len(got) != 1 {
		t.Errorf("Clicking the same card twice should be ignored, got %v", got)
	}
}

func TestCardAt(t *testing.T) {
	for index := range 16 {
		x, y := cardOrigin(4, index)
		for _, d := range [][2]int{{0, 0}, {cardWidth - 1, cardHeight - 1}} {
			got, ok := cardAt(4, 16, x+d[0], y+d[1])
			if !ok || got != index {
				t.Errorf("cardAt(%d, %d) = %d, %v; want %d", x+d[0], y+d[1], got, ok, index)
			}
		}
	}
	if _, ok := cardAt(3, 12, boardX+3*(cardWidth+cardGapX), boardY); ok {
		t.Errorf("Expected no card right of the board")
	}
	if _, ok := cardAt(3, 12, boardX, boardY+4*(cardHeight+cardGapY)); ok {
		t.Errorf("Expected no card below the board")
	}
}

func TestToastsAndConfetti(t *testing.T) {
	ta := newTestApp(t)
	// Solve the first stage.
	for {
		snap := ta.Session().Snapshot()
		if snap.StageComplete() {
			break
		}
		first := slices.IndexFunc(snap.Cards, func(c game.Card) bool { return !c.Matched })
		ta.Session().FlipCard(first)
		ta.Session().FlipCard(ta.pairOf(t, first))
		ta.advance(500 * time.Millisecond)
	}

	if len(ta.Toasts()) == 0 || ta.Toasts()[len(ta.Toasts())-1].Style != game.StyleStage {
		t.Fatalf("Expected a stage toast, got %+v", ta.Toasts())
	}
	ta.Frame()
	if ta.Canvas().Painted() == 0 {
		t.Fatalf("Expected confetti painted after a frame")
	}
	ta.Render()
	_, rows := ta.screen.Size()
	found := false
	for y := range rows {
		if strings.Contains(ta.row(y), "Stage 1 complete!") {
			found = true
		}
	}
	if !found {
		t.Errorf("Stage toast not rendered")
	}

	// Transition to the next stage hides the confetti and the toasts expire.
	ta.advance(4 * time.Second)
	if snap := ta.Session().Snapshot(); snap.Stage != 1 || snap.ConfettiVisible {
		t.Fatalf("Expected stage 2 without confetti: %s", snap.String())
	}
	if ta.Canvas().Painted() != 0 {
		t.Errorf("Confetti left on the canvas after hiding it")
	}
	if len(ta.Toasts()) != 0 {
		t.Errorf("Expected toasts expired, got %+v", ta.Toasts())
	}
}

func TestResize(t *testing.T) {
	ta := newTestApp(t)
	ta.screen.SetSize(100, 30)
	ta.HandleEvent(tcell.NewEventResize(100, 30))
	if cols, rows := ta.Canvas().Size(); cols != 100 || rows != 30 {
		t.Errorf("Canvas not resized: %dx%d", cols, rows)
	}
}
