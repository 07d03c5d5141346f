package game

import (
	"fmt"
	"strings"
	"time"
)

// Icon identifies the picture on a card. Two cards match when they show the
// same Icon.
type Icon string

// Card is one tile of the board.
type Card struct {
	ID      int    `json:"id"`      // Unique within a deal
	Icon    Icon   `json:"icon"`    // Symbol shown when flipped
	Color   string `json:"color"`   // Display color of the icon, "#rrggbb"
	Matched bool   `json:"matched"` // True once its pair was found
}

// IconColor is an icon with the color it is drawn with in a stage.
type IconColor struct {
	Icon  Icon
	Color string
}

// Stage is the static configuration of one level of the game.
type Stage struct {
	Name    string
	Columns int         // Layout of the board: 3 or 4 columns
	Icons   []IconColor // Candidate icons, only the first Pairs() are dealt
}

// Pairs returns the number of pairs dealt for the stage.
func (s Stage) Pairs() int {
	return min(PairsFor(s.Columns), len(s.Icons))
}

// Phase of a session.
type Phase int

const (
	// PhaseIdle is waiting for the player to flip cards.
	PhaseIdle Phase = iota
	// PhaseChecking has two cards flipped, waiting for the match resolution.
	PhaseChecking
	// PhaseStageTransition is the celebration between two stages.
	PhaseStageTransition
	// PhaseComplete means all stages were cleared.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseChecking:
		return "Checking"
	case PhaseStageTransition:
		return "StageTransition"
	case PhaseComplete:
		return "Complete"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Style classifies a Notification.
type Style string

const (
	StyleSuccess Style = "success" // Points awarded
	StyleStage   Style = "stage"   // Stage completed
	StyleVictory Style = "victory" // All stages completed
)

// Notification is a short transient message for the player.
type Notification struct {
	Text     string
	Style    Style
	Duration time.Duration
}

// Snapshot is a read-only copy of a Session, for rendering.
type Snapshot struct {
	DealID          string
	Stage           int // 0-based
	TotalStages     int
	StageName       string
	Columns         int
	Cards           []Card
	Flipped         []int
	Matches         int
	TotalPairs      int
	Points          int
	Moves           int
	Elapsed         int // Seconds
	Running         bool
	Phase           Phase
	SoundEnabled    bool
	ConfettiVisible bool
}

// Checking reports whether a pair is waiting to be resolved.
func (s Snapshot) Checking() bool {
	return s.Phase == PhaseChecking
}

// IsFaceUp reports whether the card at index is shown: flipped or matched.
func (s Snapshot) IsFaceUp(index int) bool {
	if index < 0 || index >= len(s.Cards) {
		return false
	}
	if s.Cards[index].Matched {
		return true
	}
	for _, f := range s.Flipped {
		if f == index {
			return true
		}
	}
	return false
}

// StageComplete reports whether all pairs of the current stage were found.
func (s Snapshot) StageComplete() bool {
	return s.TotalPairs > 0 && s.Matches == s.TotalPairs
}

// CanAdvance reports whether a "next stage" action is possible.
func (s Snapshot) CanAdvance() bool {
	return s.StageComplete() && s.Stage < s.TotalStages-1
}

// Time returns the elapsed time formatted as m:ss.
func (s Snapshot) Time() string {
	return FormatTime(s.Elapsed)
}

func (s Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Stage %d/%d (%s): phase=%s, matches=%d/%d, points=%d, moves=%d, time=%s, flipped=%v",
		s.Stage+1, s.TotalStages, s.StageName, s.Phase, s.Matches, s.TotalPairs, s.Points, s.Moves, s.Time(), s.Flipped)
	return sb.String()
}

// FormatTime formats seconds as m:ss.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
