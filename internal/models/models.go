package models

import (
	"fmt"
	"slices"
	"strings"
)

// StartingGold is the purse of every new character.
const StartingGold = 100

// Class is a character's profession. It decides base stats and the special ability.
type Class string

const (
	Warrior Class = "Warrior"
	Mage    Class = "Mage"
	Rogue   Class = "Rogue"
	Cleric  Class = "Cleric"
)

// Classes lists the playable classes in menu order.
var Classes = []Class{Warrior, Mage, Rogue, Cleric}

type baseStats struct {
	health, strength, magic int
}

var classBase = map[Class]baseStats{
	Warrior: {health: 120, strength: 15, magic: 5},
	Mage:    {health: 80, strength: 8, magic: 20},
	Rogue:   {health: 90, strength: 12, magic: 10},
	Cleric:  {health: 100, strength: 10, magic: 15},
}

// ParseClass resolves a class name case-insensitively.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCharacterClass, s)
}

// Equipped is the content of an equipment slot. Effect holds the change
// actually applied when the item went on, which can be smaller than the
// item's own effect when a stat was clamped.
type Equipped struct {
	ItemID string `yaml:"item_id"`
	Effect Effect `yaml:"effect"`
}

// Character is the player's mutable record.
type Character struct {
	Name            string    `yaml:"name"`
	Class           Class     `yaml:"class"`
	Level           int       `yaml:"level"`
	Health          int       `yaml:"health"`
	MaxHealth       int       `yaml:"max_health"`
	Strength        int       `yaml:"strength"`
	Magic           int       `yaml:"magic"`
	Experience      int       `yaml:"experience"`
	Gold            int       `yaml:"gold"`
	Inventory       []string  `yaml:"inventory"`
	ActiveQuests    []string  `yaml:"active_quests"`
	CompletedQuests []string  `yaml:"completed_quests"`
	Weapon          *Equipped `yaml:"weapon,omitempty"`
	Armor           *Equipped `yaml:"armor,omitempty"`
}

// NewCharacter creates a level 1 character with the class's base stats.
func NewCharacter(name string, class Class) (*Character, error) {
	name = strings.TrimSpace(name)
	if err := CheckName(name); err != nil {
		return nil, err
	}
	base, ok := classBase[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCharacterClass, class)
	}
	return &Character{
		Name:            name,
		Class:           class,
		Level:           1,
		Health:          base.health,
		MaxHealth:       base.health,
		Strength:        base.strength,
		Magic:           base.magic,
		Gold:            StartingGold,
		Inventory:       []string{},
		ActiveQuests:    []string{},
		CompletedQuests: []string{},
	}, nil
}

// CheckName rejects names that are empty or could leave the save directory.
func CheckName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidCharacterName
	}
	if strings.ContainsAny(name, `/\:`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidCharacterName, name)
	}
	return nil
}

// Validate checks the record invariants. Loaded saves go through it.
func (c *Character) Validate() error {
	if err := CheckName(c.Name); err != nil {
		return err
	}
	if _, ok := classBase[c.Class]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCharacterClass, c.Class)
	}
	switch {
	case c.Level < 1:
		return fmt.Errorf("level %d must be at least 1", c.Level)
	case c.MaxHealth < 1:
		return fmt.Errorf("max health %d must be positive", c.MaxHealth)
	case c.Health < 0 || c.Health > c.MaxHealth:
		return fmt.Errorf("health %d outside 0..%d", c.Health, c.MaxHealth)
	case c.Strength < 0, c.Magic < 0:
		return fmt.Errorf("strength and magic must not be negative")
	case c.Experience < 0:
		return fmt.Errorf("experience %d must not be negative", c.Experience)
	case c.Gold < 0:
		return fmt.Errorf("gold %d must not be negative", c.Gold)
	}
	seen := make(map[string]bool, len(c.ActiveQuests))
	for _, id := range c.ActiveQuests {
		if seen[id] {
			return fmt.Errorf("quest %q listed twice as active", id)
		}
		seen[id] = true
	}
	done := make(map[string]bool, len(c.CompletedQuests))
	for _, id := range c.CompletedQuests {
		if done[id] {
			return fmt.Errorf("quest %q listed twice as completed", id)
		}
		if seen[id] {
			return fmt.Errorf("quest %q is both active and completed", id)
		}
		done[id] = true
	}
	return nil
}

// Apply adds delta to a stat. Health stays within 0..MaxHealth and the
// other stats never drop below zero (max health never below one).
func (c *Character) Apply(stat Stat, delta int) {
	switch stat {
	case StatHealth:
		c.Health = clamp(c.Health+delta, 0, c.MaxHealth)
	case StatMaxHealth:
		c.MaxHealth = max(1, c.MaxHealth+delta)
		if c.Health > c.MaxHealth {
			c.Health = c.MaxHealth
		}
	case StatStrength:
		c.Strength = max(0, c.Strength+delta)
	case StatMagic:
		c.Magic = max(0, c.Magic+delta)
	}
}

// Value reads a stat.
func (c *Character) Value(stat Stat) int {
	switch stat {
	case StatHealth:
		return c.Health
	case StatMaxHealth:
		return c.MaxHealth
	case StatStrength:
		return c.Strength
	case StatMagic:
		return c.Magic
	}
	return 0
}

// IsActive reports whether questID is in progress.
func (c *Character) IsActive(questID string) bool {
	return slices.Contains(c.ActiveQuests, questID)
}

// IsCompleted reports whether questID has been turned in.
func (c *Character) IsCompleted(questID string) bool {
	return slices.Contains(c.CompletedQuests, questID)
}

// Clone returns a deep copy.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Inventory = slices.Clone(c.Inventory)
	cp.ActiveQuests = slices.Clone(c.ActiveQuests)
	cp.CompletedQuests = slices.Clone(c.CompletedQuests)
	if c.Weapon != nil {
		w := *c.Weapon
		cp.Weapon = &w
	}
	if c.Armor != nil {
		a := *c.Armor
		cp.Armor = &a
	}
	return &cp
}

// Enemy is one encounter's opponent. Only Health changes during a battle.
type Enemy struct {
	Name       string `yaml:"name"`
	Health     int    `yaml:"health"`
	MaxHealth  int    `yaml:"max_health"`
	Strength   int    `yaml:"strength"`
	Magic      int    `yaml:"magic"`
	XPReward   int    `yaml:"xp_reward"`
	GoldReward int    `yaml:"gold_reward"`
}

// Quest is a catalog entry. An empty Prerequisite means none.
type Quest struct {
	ID            string `yaml:"quest_id"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	RewardXP      int    `yaml:"reward_xp"`
	RewardGold    int    `yaml:"reward_gold"`
	RequiredLevel int    `yaml:"required_level"`
	Prerequisite  string `yaml:"prerequisite"`
}

// HasPrerequisite reports whether another quest must be completed first.
func (q Quest) HasPrerequisite() bool {
	return q.Prerequisite != ""
}

// ItemType says which slot, if any, an item goes in.
type ItemType string

const (
	Weapon     ItemType = "weapon"
	Armor      ItemType = "armor"
	Consumable ItemType = "consumable"
)

// ParseItemType accepts weapon, armor or consumable.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case Weapon, Armor, Consumable:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown item type %q", ErrInvalidItemType, s)
}

// Item is read-only reference data shared by every character.
type Item struct {
	ID          string   `yaml:"item_id"`
	Name        string   `yaml:"name"`
	Type        ItemType `yaml:"type"`
	Effect      Effect   `yaml:"effect"`
	Cost        int      `yaml:"cost"`
	Description string   `yaml:"description"`
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
