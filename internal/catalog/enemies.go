package catalog

import (
	"fmt"
	"strings"

	"github.com/tatianab/quest-chronicles/internal/models"
)

var enemyTemplates = map[string]models.Enemy{
	"goblin": {Name: "Goblin", Health: 50, MaxHealth: 50, Strength: 8, Magic: 2, XPReward: 25, GoldReward: 10},
	"orc":    {Name: "Orc", Health: 80, MaxHealth: 80, Strength: 12, Magic: 5, XPReward: 50, GoldReward: 25},
	"dragon": {Name: "Dragon", Health: 200, MaxHealth: 200, Strength: 25, Magic: 15, XPReward: 200, GoldReward: 100},
}

// NewEnemy returns a fresh copy of the named enemy template.
func NewEnemy(kind string) (*models.Enemy, error) {
	tmpl, ok := enemyTemplates[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%w: enemy type %q is not recognized", models.ErrInvalidTarget, kind)
	}
	e := tmpl
	return &e, nil
}

// EnemyForLevel picks the encounter for a character level: goblins up to
// level 2, orcs up to 5, dragons after that.
func EnemyForLevel(level int) *models.Enemy {
	kind := "dragon"
	switch {
	case level <= 2:
		kind = "goblin"
	case level <= 5:
		kind = "orc"
	}
	e, _ := NewEnemy(kind)
	return e
}
