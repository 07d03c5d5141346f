package frontend

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

type TopBar struct {
	app.Compo
	SoundEnabled bool
}

func (t *TopBar) onToggleSound(ctx app.Context, e app.Event) {
	e.PreventDefault()
	State.ToggleSound()
}

func (t *TopBar) onTitleClick(ctx app.Context, e app.Event) {
	e.PreventDefault()
	State.NewGame()
}

func (t *TopBar) Render() app.UI {
	soundIcon := "🔊"
	if !t.SoundEnabled {
		soundIcon = "🔇"
	}

	return app.Nav().Body(
		app.Ul().Body(
			app.Li().Body(
				app.A().
					Href("#").
					Title("Start New Game").
					OnClick(t.onTitleClick).
					Style("text-decoration", "none").
					Body(app.Strong().Text("🧠 GoMemory")),
			),
		),
		app.Ul().Body(
			app.Li().Body(
				app.A().
					Href("#").
					Title("Toggle sound").
					OnClick(t.onToggleSound).
					Style("text-decoration", "none").
					Body(
						app.Span().
							Class("sound-icon").
							Style("font-family", "system-ui").
							Text(soundIcon),
					),
			),
		),
	)
}
