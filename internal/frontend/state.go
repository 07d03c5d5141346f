package frontend

import (
	"time"

	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/janpfeifer/GoMemory/internal/sound"
	"github.com/janpfeifer/GoMemory/internal/sound/browser"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// SoundsPath is where the sound cues are served from.
const SoundsPath = "/web/sounds"

// Toast is a notification being shown, until ExpiresAt.
type Toast struct {
	game.Notification
	ID        int
	ExpiresAt time.Time
}

// GlobalClientState holds the game session and what the page shows around it.
type GlobalClientState struct {
	Session *game.Session
	Sounds  *sound.Registry
	Toasts  []Toast

	lastToastID int

	// Listeners for state updates
	Listeners map[string]func()
}

var State *GlobalClientState

// Snapshot of the game, for rendering.
func (s *GlobalClientState) Snapshot() game.Snapshot {
	return s.Session.Snapshot()
}

// FlipCard forwards a click on a card to the session.
func (s *GlobalClientState) FlipCard(index int) {
	if !s.Session.FlipCard(index) {
		klog.V(2).Infof("FlipCard(%d) ignored", index)
	}
}

// NextStage skips the stage transition.
func (s *GlobalClientState) NextStage() {
	s.Session.AdvanceStage()
}

// NewGame restarts from the first stage.
func (s *GlobalClientState) NewGame() {
	s.Toasts = s.Toasts[:0]
	s.Session.ResetGame()
}

// ToggleSound switches the sound cues on or off.
func (s *GlobalClientState) ToggleSound() {
	s.Session.ToggleSound()
}

// Advance moves the game clock to now, and drops expired toasts.
func (s *GlobalClientState) Advance(now time.Time) {
	s.Session.Advance(now)
	kept := s.Toasts[:0]
	for _, t := range s.Toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	if len(kept) != len(s.Toasts) {
		s.Toasts = kept
		s.Notify()
		return
	}
	s.Toasts = kept
}

// toaster adapts the state to game.Notifier.
type toaster struct{ s *GlobalClientState }

func (t toaster) Notify(n game.Notification) {
	s := t.s
	s.lastToastID++
	s.Toasts = append(s.Toasts, Toast{
		Notification: n,
		ID:           s.lastToastID,
		ExpiresAt:    s.Session.Now().Add(n.Duration),
	})
	klog.V(1).Infof("Toast %d: %q", s.lastToastID, n.Text)
}

// Notify calls all listeners.
func (s *GlobalClientState) Notify() {
	klog.V(2).Infof("GlobalClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

// InitState creates the global state, if not yet created.
func InitState() {
	if State != nil {
		klog.V(1).Infof("InitState: state already exists")
		return
	}
	klog.V(1).Infof("InitState: creating new state (was nil)")
	newState(game.DefaultConfig(), browser.New())
}

func newState(cfg game.Config, backend sound.Backend) *GlobalClientState {
	s := &GlobalClientState{
		Sounds:    sound.NewRegistry(backend),
		Listeners: make(map[string]func()),
	}
	s.Sounds.PreloadAll(sound.Locators(SoundsPath, ".mp3"))
	s.Session = game.NewSession(cfg,
		game.WithSound(s.Sounds),
		game.WithNotifier(toaster{s}),
	)
	s.Session.Listeners["state"] = s.Notify
	State = s
	return s
}
