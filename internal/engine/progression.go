// Package engine holds the game rules: progression, combat, the inventory
// ledger and the quest graph. Every operation works on a *models.Character
// and leaves it untouched when it returns an error.
package engine

import (
	"fmt"

	"github.com/tatianab/quest-chronicles/internal/models"
)

// Growth applied on every level-up.
const (
	LevelHealthGain   = 10
	LevelStrengthGain = 2
	LevelMagicGain    = 2
)

// XPToNextLevel is the experience needed to leave level.
func XPToNextLevel(level int) int {
	return level * 100
}

// GainExperience adds xp and applies as many level-ups as it pays for. Each
// level-up fully heals. It returns the number of levels gained.
func GainExperience(c *models.Character, amount int) (int, error) {
	if IsDead(c) {
		return 0, models.ErrCharacterDead
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative experience %d", models.ErrInvalidOperation, amount)
	}
	c.Experience += amount

	levels := 0
	for c.Experience >= XPToNextLevel(c.Level) {
		c.Experience -= XPToNextLevel(c.Level)
		c.Level++
		c.MaxHealth += LevelHealthGain
		c.Strength += LevelStrengthGain
		c.Magic += LevelMagicGain
		c.Health = c.MaxHealth
		levels++
	}
	return levels, nil
}

// AdjustGold applies delta and returns the new total.
func AdjustGold(c *models.Character, delta int) (int, error) {
	if c.Gold+delta < 0 {
		return c.Gold, fmt.Errorf("%w: not enough gold (have %d, need %d)", models.ErrInvalidOperation, c.Gold, -delta)
	}
	c.Gold += delta
	return c.Gold, nil
}

// Heal restores up to amount health and returns how much was actually restored.
func Heal(c *models.Character, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Health
	c.Apply(models.StatHealth, amount)
	return c.Health - before
}

func IsDead(c *models.Character) bool {
	return c.Health <= 0
}

// Revive brings the character back at half health. Any cost is the caller's business.
func Revive(c *models.Character) {
	c.Health = max(1, c.MaxHealth/2)
}
