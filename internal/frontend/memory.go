package frontend

import (
	"fmt"
	"slices"
	"time"

	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// TickPeriod is how often the page advances the game clock.
const TickPeriod = 100 * time.Millisecond

// Memory is the game page: stats, board, controls, toasts and confetti.
type Memory struct {
	app.Compo
	snap game.Snapshot
	stop chan struct{}
}

func (m *Memory) OnMount(ctx app.Context) {
	klog.V(1).Infof("Memory: OnMount called")
	m.snap = State.Snapshot()
	State.Listeners["memory"] = func() {
		ctx.Dispatch(func(ctx app.Context) {
			m.snap = State.Snapshot()
		})
	}
	if app.IsServer {
		return
	}
	m.stop = make(chan struct{})
	go m.tickLoop(ctx, m.stop)
}

func (m *Memory) OnDismount() {
	klog.V(1).Infof("Memory: OnDismount called")
	delete(State.Listeners, "memory")
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

func (m *Memory) OnAppUpdate(ctx app.Context) {
	klog.Infof("Memory: App update available, not reloading not to interrupt the game...")
}

// tickLoop advances the game clock on the UI goroutine until stop is closed.
func (m *Memory) tickLoop(ctx app.Context, stop chan struct{}) {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			ctx.Dispatch(func(ctx app.Context) {
				State.Advance(now)
			})
		}
	}
}

func (m *Memory) onFlip(index int) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		State.FlipCard(index)
	}
}

func (m *Memory) onNextStage(ctx app.Context, e app.Event) {
	State.NextStage()
}

func (m *Memory) onNewGame(ctx app.Context, e app.Event) {
	State.NewGame()
}

func (m *Memory) Render() app.UI {
	if m.snap.DealID == "" {
		// Prerendered on the server, without OnMount.
		m.snap = State.Snapshot()
	}
	snap := &m.snap

	body := []app.UI{
		&TopBar{SoundEnabled: snap.SoundEnabled},
		m.renderStats(snap),
		app.H2().Class("stage-name").Text(snap.StageName),
		app.P().Class("matches").Text(fmt.Sprintf("Matches: %d / %d", snap.Matches, snap.TotalPairs)),
		m.renderBoard(snap),
		m.renderControls(snap),
		&Toaster{Toasts: slices.Clone(State.Toasts)},
	}
	if snap.ConfettiVisible {
		body = append(body, &Confetti{})
	}
	return app.Main().Class("container").Body(body...)
}

func (m *Memory) renderStats(snap *game.Snapshot) app.UI {
	stat := func(label, value string) app.UI {
		return app.Div().Class("stat").Body(
			app.Small().Text(label),
			app.Strong().Text(value),
		)
	}
	return app.Div().Class("stats").Body(
		stat("Stage", fmt.Sprintf("%d/%d", snap.Stage+1, snap.TotalStages)),
		stat("Points", fmt.Sprintf("%d", snap.Points)),
		stat("Time", snap.Time()),
		stat("Moves", fmt.Sprintf("%d", snap.Moves)),
	)
}

func (m *Memory) renderBoard(snap *game.Snapshot) app.UI {
	cards := make([]app.UI, len(snap.Cards))
	for i, card := range snap.Cards {
		cards[i] = m.renderCard(snap, i, card)
	}
	return app.Div().
		Class("board").
		Class(fmt.Sprintf("columns-%d", snap.Columns)).
		Body(cards...)
}

func (m *Memory) renderCard(snap *game.Snapshot, index int, card game.Card) app.UI {
	faceUp := snap.IsFaceUp(index)
	tile := app.Div().
		ID(fmt.Sprintf("card-%s-%d", snap.DealID, card.ID)).
		Class("memory-card").
		Aria("label", fmt.Sprintf("card %d", index+1))
	if faceUp {
		tile = tile.Class("flipped")
	}
	if card.Matched {
		tile = tile.Class("matched")
	}
	if !faceUp && !snap.Checking() {
		tile = tile.OnClick(m.onFlip(index))
	}
	return tile.Body(
		app.Div().Class("card-inner").Body(
			app.Div().Class("card-back").Text("?"),
			app.Div().Class("card-front").
				Style("color", card.Color).
				Title(string(card.Icon)).
				Text(card.Icon.Glyph()),
		),
	)
}

func (m *Memory) renderControls(snap *game.Snapshot) app.UI {
	buttons := []app.UI{
		app.Button().Class("secondary").OnClick(m.onNewGame).Text("Start New Game"),
	}
	if snap.CanAdvance() {
		buttons = append(buttons, app.Button().OnClick(m.onNextStage).Text("Next Stage"))
	}
	if snap.Phase == game.PhaseComplete {
		buttons = append(buttons, app.P().Class("victory").Text(
			fmt.Sprintf("All stages completed with %d points!", snap.Points)))
	}
	return app.Div().Class("controls").Body(buttons...)
}
