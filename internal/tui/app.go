// Package tui is the terminal version of the game, drawn with tcell.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/janpfeifer/GoMemory/internal/confetti"
	"github.com/janpfeifer/GoMemory/internal/game"
	"k8s.io/klog/v2"
)

// Board layout, in cells.
const (
	cardWidth  = 10
	cardHeight = 3
	cardGapX   = 1
	cardGapY   = 1
	boardX     = 2
	boardY     = 4
)

// Toast is a notification being shown, until ExpiresAt.
type Toast struct {
	game.Notification
	ExpiresAt time.Time
}

// App is the terminal game: it owns the screen, the session and the confetti.
// All its methods must be called from the goroutine running Run.
type App struct {
	screen  tcell.Screen
	session *game.Session
	now     func() time.Time

	canvas *Canvas
	frames *Frames
	loop   *confetti.Loop

	toasts []Toast
	cursor int
}

// Option configures an App.
type Option func(a *App)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithConfettiEngine sets the particle engine, e.g. with a seeded generator.
func WithConfettiEngine(e *confetti.Engine) Option {
	return func(a *App) { a.loop = confetti.NewLoop(e, a.frames) }
}

// New creates the game on an initialized screen. Sound cues go to player,
// which may be nil for silence.
func New(screen tcell.Screen, cfg game.Config, player game.SoundPlayer, opts ...Option) *App {
	cols, rows := screen.Size()
	a := &App{
		screen: screen,
		now:    time.Now,
		canvas: NewCanvas(cols, rows),
		frames: NewFrames(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loop == nil {
		a.loop = confetti.NewLoop(confetti.NewEngine(nil), a.frames)
	}
	sessionOpts := []game.Option{
		game.WithStart(a.now()),
		game.WithNotifier(game.NotifierFunc(a.notify)),
		game.WithCelebration(game.CelebrationFunc(a.SetConfetti)),
	}
	if player != nil {
		sessionOpts = append(sessionOpts, game.WithSound(player))
	}
	a.session = game.NewSession(cfg, sessionOpts...)
	return a
}

// Session returns the game session.
func (a *App) Session() *game.Session { return a.session }

// Canvas returns the confetti canvas.
func (a *App) Canvas() *Canvas { return a.canvas }

// Toasts returns the notifications currently shown.
func (a *App) Toasts() []Toast { return a.toasts }

// Cursor returns the index of the selected card.
func (a *App) Cursor() int { return a.cursor }

func (a *App) notify(n game.Notification) {
	a.toasts = append(a.toasts, Toast{Notification: n, ExpiresAt: a.session.Now().Add(n.Duration)})
}

// SetConfetti shows or hides the confetti overlay.
func (a *App) SetConfetti(visible bool) {
	if !visible {
		a.loop.Stop()
		a.loop.Engine().Clear()
		a.canvas.Clear()
		return
	}
	cols, rows := a.screen.Size()
	a.canvas.Resize(cols, rows)
	w, h := a.canvas.PixelSize()
	a.loop.Start(a.canvas, w, h)
	klog.V(1).Infof("Confetti: %d particles on %dx%d", a.loop.Engine().Len(), w, h)
}

// Advance moves the game clock to now, and drops expired toasts.
func (a *App) Advance(now time.Time) {
	a.session.Advance(now)
	kept := a.toasts[:0]
	for _, t := range a.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	a.toasts = kept
}

// Frame advances the confetti animation by one frame.
func (a *App) Frame() {
	a.frames.RunFrame()
}

// HandleEvent processes a terminal event. It returns false when the player
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.Click(x, y)
		}
	case *tcell.EventResize:
		a.screen.Sync()
		cols, rows := a.screen.Size()
		a.canvas.Resize(cols, rows)
		w, h := a.canvas.PixelSize()
		a.loop.Engine().Resize(w, h)
	}
	return true
}

// HandleKey processes a key press. It returns false when the player asked
// to quit.
func (a *App) HandleKey(key tcell.Key, r rune) bool {
	snap := a.session.Snapshot()
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.moveCursor(snap, -1, 0)
	case tcell.KeyRight:
		a.moveCursor(snap, 1, 0)
	case tcell.KeyUp:
		a.moveCursor(snap, 0, -1)
	case tcell.KeyDown:
		a.moveCursor(snap, 0, 1)
	case tcell.KeyEnter:
		a.session.FlipCard(a.cursor)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'h':
			a.moveCursor(snap, -1, 0)
		case 'l':
			a.moveCursor(snap, 1, 0)
		case 'k':
			a.moveCursor(snap, 0, -1)
		case 'j':
			a.moveCursor(snap, 0, 1)
		case ' ':
			a.session.FlipCard(a.cursor)
		case 'n':
			if snap.CanAdvance() {
				a.session.AdvanceStage()
				a.cursor = 0
			}
		case 'r':
			a.toasts = a.toasts[:0]
			a.session.ResetGame()
			a.cursor = 0
		case 's':
			a.session.ToggleSound()
		}
	}
	return true
}

func (a *App) moveCursor(snap game.Snapshot, dx, dy int) {
	cols := max(snap.Columns, 1)
	col, row := a.cursor%cols+dx, a.cursor/cols+dy
	rows := (len(snap.Cards) + cols - 1) / cols
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return
	}
	if next := row*cols + col; next < len(snap.Cards) {
		a.cursor = next
	}
}

// Click selects and flips the card under the cell (x, y), if any.
func (a *App) Click(x, y int) {
	snap := a.session.Snapshot()
	index, found := cardAt(snap.Columns, len(snap.Cards), x, y)
	if !found {
		return
	}
	a.cursor = index
	a.session.FlipCard(index)
}

// cardOrigin returns the top-left cell of the card at index.
func cardOrigin(columns, index int) (x, y int) {
	col, row := index%columns, index/columns
	return boardX + col*(cardWidth+cardGapX), boardY + row*(cardHeight+cardGapY)
}

// cardAt returns the index of the card drawn on cell (x, y).
func cardAt(columns, numCards, x, y int) (int, bool) {
	if columns <= 0 || x < boardX || y < boardY {
		return 0, false
	}
	dx, dy := x-boardX, y-boardY
	col, row := dx/(cardWidth+cardGapX), dy/(cardHeight+cardGapY)
	if dx%(cardWidth+cardGapX) >= cardWidth || dy%(cardHeight+cardGapY) >= cardHeight || col >= columns {
		return 0, false
	}
	index := row*columns + col
	if index >= numCards {
		return 0, false
	}
	return index, true
}

// Run plays until ctx is done or the player quits. Confetti frames are drawn
// every frameInterval.
func (a *App) Run(ctx context.Context, frameInterval time.Duration) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	a.Render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				klog.Infof("Quit requested: %s", a.session.Snapshot().String())
				return nil
			}
		case <-ticker.C:
			a.Advance(a.now())
			a.Frame()
		}
		a.Render()
	}
}

var (
	styleTitle    = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorAqua)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue    = tcell.StyleDefault.Bold(true)
	styleCardBack = tcell.StyleDefault.Foreground(tcell.ColorSlateBlue)
	styleMatched  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)

	toastStyles = map[game.Style]tcell.Style{
		game.StyleSuccess: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen),
		game.StyleStage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorPurple),
		game.StyleVictory: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
	}
)

// Render draws the whole screen.
func (a *App) Render() {
	s := a.screen
	s.Clear()
	cols, rows := s.Size()
	snap := a.session.Snapshot()

	soundLabel := "sound: on"
	if !snap.SoundEnabled {
		soundLabel = "sound: off"
	}
	drawText(s, 1, 0, styleTitle, "GoMemory")
	drawText(s, cols-len(soundLabel)-1, 0, styleLabel, soundLabel)

	x := 1
	for _, stat := range []struct{ label, value string }{
		{"Stage", fmt.Sprintf("%d/%d", snap.Stage+1, snap.TotalStages)},
		{"Points", fmt.Sprintf("%d", snap.Points)},
		{"Time", snap.Time()},
		{"Moves", fmt.Sprintf("%d", snap.Moves)},
	} {
		x = drawText(s, x, 1, styleLabel, stat.label+" ")
		x = drawText(s, x, 1, styleValue, stat.value) + 3
	}
	drawText(s, 1, 2, styleValue, fmt.Sprintf("%s    Matches: %d / %d", snap.StageName, snap.Matches, snap.TotalPairs))

	for i, card := range snap.Cards {
		a.drawCard(&snap, i, card)
	}

	_, lastY := cardOrigin(max(snap.Columns, 1), max(len(snap.Cards)-1, 0))
	help := "arrows/hjkl move  space flip  r new game  s sound  q quit"
	if snap.CanAdvance() {
		help = "n next stage  " + help
	}
	drawText(s, 1, lastY+cardHeight+1, styleHelp, help)

	for i, t := range a.toasts {
		y := rows - len(a.toasts) + i
		drawText(s, 1, y, toastStyles[t.Style], " "+t.Text+" ")
	}

	a.canvas.Draw(s, 0, 0)
	s.Show()
}

func (a *App) drawCard(snap *game.Snapshot, index int, card game.Card) {
	x, y := cardOrigin(snap.Columns, index)
	border := styleCardBack
	label, labelStyle := "?", styleCardBack
	if snap.IsFaceUp(index) {
		label = string(card.Icon)
		labelStyle = tcell.StyleDefault.Foreground(tcell.GetColor(card.Color)).Bold(true)
		border = tcell.StyleDefault
	}
	if card.Matched {
		border = styleMatched
	}
	if index == a.cursor {
		border = styleCursor
	}

	inner := cardWidth - 2
	horizontal := make([]rune, inner)
	for i := range horizontal {
		horizontal[i] = '─'
	}
	drawText(a.screen, x, y, border, "┌"+string(horizontal)+"┐")
	drawText(a.screen, x, y+1, border, "│")
	if len(label) > inner {
		label = label[:inner]
	}
	pad := (inner - len(label)) / 2
	drawText(a.screen, x+1+pad, y+1, labelStyle, label)
	drawText(a.screen, x+cardWidth-1, y+1, border, "│")
	drawText(a.screen, x, y+2, border, "└"+string(horizontal)+"┘")
}

// drawText writes str at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
