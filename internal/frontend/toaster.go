package frontend

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Toaster stacks the current notifications at the bottom of the page.
type Toaster struct {
	app.Compo
	Toasts []Toast
}

func (t *Toaster) Render() app.UI {
	items := make([]app.UI, len(t.Toasts))
	for i, toast := range t.Toasts {
		items[i] = app.Div().
			ID(fmt.Sprintf("toast-%d", toast.ID)).
			Class("toast").
			Class("toast-" + string(toast.Style)).
			Aria("live", "polite").
			Text(toast.Text)
	}
	return app.Div().Class("toaster").Body(items...)
}
