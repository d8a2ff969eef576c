// Package narrator turns game events into flavour text. Narration is
// decoration only: callers show it when it arrives and ignore it when it
// fails.
package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tatianab/quest-chronicles/internal/engine"
	"github.com/tatianab/quest-chronicles/internal/models"
)

// Kind is the type of moment being narrated.
type Kind string

const (
	KindExplore        Kind = "explore"
	KindVictory        Kind = "victory"
	KindDefeat         Kind = "defeat"
	KindEscape         Kind = "escape"
	KindLevelUp        Kind = "level_up"
	KindQuestAccepted  Kind = "quest_accepted"
	KindQuestCompleted Kind = "quest_completed"
	KindRevive         Kind = "revive"
)

// Event is a snapshot of something that already happened.
type Event struct {
	Kind      Kind
	Character string
	Class     models.Class
	Level     int
	// Subject is the enemy name or quest title.
	Subject string
	Details []string
}

// NewEvent fills in the character fields from c.
func NewEvent(kind Kind, c *models.Character, subject string, details ...string) Event {
	return Event{
		Kind:      kind,
		Character: c.Name,
		Class:     c.Class,
		Level:     c.Level,
		Subject:   subject,
		Details:   details,
	}
}

// BattleEvent describes how a finished battle ended.
func BattleEvent(b *engine.Battle) (Event, bool) {
	res, done := b.Result()
	if !done {
		return Event{}, false
	}
	kind := KindEscape
	switch res.Winner {
	case engine.WinnerPlayer:
		kind = KindVictory
	case engine.WinnerEnemy:
		kind = KindDefeat
	}
	var details []string
	if res.XPGained > 0 || res.GoldGained > 0 {
		details = append(details, fmt.Sprintf("earned %d experience and %d gold", res.XPGained, res.GoldGained))
	}
	if res.LevelsGained > 0 {
		details = append(details, fmt.Sprintf("reached level %d", b.Character.Level))
	}
	return NewEvent(kind, b.Character, b.Enemy.Name, details...), true
}

// Headline is a one-line factual account of the event.
func (e Event) Headline() string {
	switch e.Kind {
	case KindExplore:
		return fmt.Sprintf("%s encounters a %s.", e.Character, e.Subject)
	case KindVictory:
		return fmt.Sprintf("%s defeats the %s.", e.Character, e.Subject)
	case KindDefeat:
		return fmt.Sprintf("%s falls to the %s.", e.Character, e.Subject)
	case KindEscape:
		return fmt.Sprintf("%s flees from the %s.", e.Character, e.Subject)
	case KindLevelUp:
		return fmt.Sprintf("%s reaches level %d.", e.Character, e.Level)
	case KindQuestAccepted:
		return fmt.Sprintf("%s takes on the quest %q.", e.Character, e.Subject)
	case KindQuestCompleted:
		return fmt.Sprintf("%s completes the quest %q.", e.Character, e.Subject)
	case KindRevive:
		return fmt.Sprintf("%s returns from the brink of death.", e.Character)
	}
	return fmt.Sprintf("%s: %s", e.Character, e.Kind)
}

// Narrator produces flavour text for an event.
type Narrator interface {
	Narrate(ctx context.Context, ev Event) (string, error)
}

// Plain is the offline narrator. It never fails.
type Plain struct{}

var plainLines = map[Kind]string{
	KindExplore:        "The path narrows. Something stirs ahead.",
	KindVictory:        "The dust settles and you stand victorious.",
	KindDefeat:         "Darkness closes in.",
	KindEscape:         "You slip away, heart pounding.",
	KindLevelUp:        "You feel stronger than before.",
	KindQuestAccepted:  "A new road opens before you.",
	KindQuestCompleted: "Word of your deed spreads through the village.",
	KindRevive:         "A healer's prayer pulls you back.",
}

func (Plain) Narrate(_ context.Context, ev Event) (string, error) {
	line := ev.Headline()
	if extra, ok := plainLines[ev.Kind]; ok {
		line += " " + extra
	}
	if len(ev.Details) > 0 {
		line += " (" + strings.Join(ev.Details, "; ") + ")"
	}
	return line, nil
}
