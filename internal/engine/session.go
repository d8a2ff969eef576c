package engine

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/tatianab/quest-chronicles/internal/catalog"
	"github.com/tatianab/quest-chronicles/internal/models"
)

// DefaultReviveCost is the gold charged by Session.Revive.
const DefaultReviveCost = 20

// SessionConfig tunes a Session. Zero values pick the defaults, except
// ReviveCost where zero means revival is free and a negative value picks
// DefaultReviveCost.
type SessionConfig struct {
	SaveDir           string
	InventoryCapacity int
	ReviveCost        int
	SpecialCooldown   int
	Roller            Roller
}

// Session is one player's game: the character plus the shared catalogs and
// the rules configured for it. The UI drives everything through it.
type Session struct {
	Character *models.Character
	Quests    *catalog.Quests
	Items     *catalog.Items
	Ledger    Ledger

	saveDir         string
	reviveCost      int
	specialCooldown int
	roller          Roller
	battle          *Battle
}

// NewSession wires a character to the catalogs.
func NewSession(c *models.Character, quests *catalog.Quests, items *catalog.Items, cfg SessionConfig) *Session {
	s := &Session{
		Character:       c,
		Quests:          quests,
		Items:           items,
		Ledger:          NewLedger(cfg.InventoryCapacity),
		saveDir:         cfg.SaveDir,
		reviveCost:      cfg.ReviveCost,
		specialCooldown: cfg.SpecialCooldown,
		roller:          cfg.Roller,
	}
	if s.saveDir == "" {
		s.saveDir = models.DefaultSaveDir
	}
	if s.reviveCost < 0 {
		s.reviveCost = DefaultReviveCost
	}
	if s.roller == nil {
		s.roller = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// LoadSession reads name's save from cfg.SaveDir and wires it up. A save
// holding more items than the configured capacity is rejected as corrupted.
func LoadSession(name string, quests *catalog.Quests, items *catalog.Items, cfg SessionConfig) (*Session, error) {
	dir := cfg.SaveDir
	if dir == "" {
		dir = models.DefaultSaveDir
	}
	c, err := models.LoadCharacter(dir, name)
	if err != nil {
		return nil, err
	}
	s := NewSession(c, quests, items, cfg)
	if n := len(c.Inventory); n > s.Ledger.Capacity {
		return nil, fmt.Errorf("%w: %s carries %d items, capacity is %d", models.ErrCorruptedSaveData, c.Name, n, s.Ledger.Capacity)
	}
	return s, nil
}

func (s *Session) logf(format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{s.Character.Name}, args...)...)
}

func (s *Session) item(id string) (models.Item, error) {
	it, ok := s.Items.Get(id)
	if !ok {
		return models.Item{}, fmt.Errorf("%w: %s is not a known item", models.ErrItemNotFound, id)
	}
	return it, nil
}

// Buy purchases one item from the shop.
func (s *Session) Buy(id string) error {
	it, err := s.item(id)
	if err != nil {
		return err
	}
	if err := s.Ledger.PurchaseItem(s.Character, id, it); err != nil {
		return err
	}
	s.logf("bought %s for %d gold, %d left", id, it.Cost, s.Character.Gold)
	return nil
}

// Sell sells one carried item and returns the price.
func (s *Session) Sell(id string) (int, error) {
	it, err := s.item(id)
	if err != nil {
		return 0, err
	}
	price, err := s.Ledger.SellItem(s.Character, id, it)
	if err != nil {
		return 0, err
	}
	s.logf("sold %s for %d gold", id, price)
	return price, nil
}

// Use consumes one carried consumable.
func (s *Session) Use(id string) (string, error) {
	it, err := s.item(id)
	if err != nil {
		return "", err
	}
	return s.Ledger.UseItem(s.Character, id, it)
}

// Equip puts a carried weapon or armor into its slot.
func (s *Session) Equip(id string) (string, error) {
	it, err := s.item(id)
	if err != nil {
		return "", err
	}
	var msg string
	switch it.Type {
	case models.Weapon:
		msg, err = s.Ledger.EquipWeapon(s.Character, id, it)
	case models.Armor:
		msg, err = s.Ledger.EquipArmor(s.Character, id, it)
	default:
		return "", fmt.Errorf("%w: %s cannot be equipped", models.ErrInvalidItemType, id)
	}
	if err != nil {
		return "", err
	}
	s.logf("equipped %s", id)
	return msg, nil
}

// Unequip empties the weapon or armor slot and returns the item id, or ""
// when the slot was already empty.
func (s *Session) Unequip(kind models.ItemType) (string, error) {
	switch kind {
	case models.Weapon:
		return s.Ledger.UnequipWeapon(s.Character)
	case models.Armor:
		return s.Ledger.UnequipArmor(s.Character)
	}
	return "", fmt.Errorf("%w: %s has no equipment slot", models.ErrInvalidItemType, kind)
}

// Drop discards one carried item.
func (s *Session) Drop(id string) error {
	return s.Ledger.DropItem(s.Character, id)
}

// Accept takes on a quest.
func (s *Session) Accept(id string) error {
	if err := AcceptQuest(s.Character, id, s.Quests); err != nil {
		return err
	}
	s.logf("accepted quest %s", id)
	return nil
}

// Complete turns in an active quest.
func (s *Session) Complete(id string) (QuestReward, error) {
	reward, err := CompleteQuest(s.Character, id, s.Quests)
	if err != nil {
		return QuestReward{}, err
	}
	s.logf("completed quest %s: +%d xp +%d gold, %d level(s)", id, reward.XP, reward.Gold, reward.LevelsGained)
	return reward, nil
}

// Abandon drops an active quest.
func (s *Session) Abandon(id string) error {
	if err := AbandonQuest(s.Character, id); err != nil {
		return err
	}
	s.logf("abandoned quest %s", id)
	return nil
}

// Available lists the quests that can be accepted now.
func (s *Session) Available() []models.Quest {
	return AvailableQuests(s.Character, s.Quests)
}

// Chain returns a quest's prerequisite chain.
func (s *Session) Chain(id string) ([]string, error) {
	return catalog.PrerequisiteChain(id, s.Quests)
}

// Battle returns the battle in progress, or nil.
func (s *Session) Battle() *Battle {
	return s.battle
}

// Explore looks for trouble and opens a battle against an enemy suited to
// the character's level.
func (s *Session) Explore() (*Battle, error) {
	if s.battle != nil {
		return nil, fmt.Errorf("%w: already fighting %s", models.ErrInvalidOperation, s.battle.Enemy.Name)
	}
	b, err := NewBattle(s.Character, catalog.EnemyForLevel(s.Character.Level), s.roller, WithSpecialCooldown(s.specialCooldown))
	if err != nil {
		return nil, err
	}
	s.battle = b
	s.logf("battle %s started against %s", b.ID, b.Enemy.Name)
	return b, nil
}

// Fight plays one round of the current battle. The battle is closed once it
// reaches a terminal state.
func (s *Session) Fight(action Action) (Round, error) {
	if s.battle == nil {
		return Round{}, models.ErrCombatNotActive
	}
	b := s.battle
	r, err := b.Take(action)
	if err != nil {
		return r, err
	}
	if res, done := b.Result(); done {
		s.battle = nil
		s.logf("battle %s ended after %d round(s): %s, +%d xp +%d gold", b.ID, r.Number, res.Winner, res.XPGained, res.GoldGained)
	}
	return r, nil
}

// Revive brings a dead character back for the configured fee.
func (s *Session) Revive() error {
	if !IsDead(s.Character) {
		return fmt.Errorf("%w: %s is not dead", models.ErrInvalidOperation, s.Character.Name)
	}
	if s.Character.Gold < s.reviveCost {
		return fmt.Errorf("%w: revival costs %d gold", models.ErrInsufficientResources, s.reviveCost)
	}
	if _, err := AdjustGold(s.Character, -s.reviveCost); err != nil {
		return err
	}
	Revive(s.Character)
	s.logf("revived with %d health for %d gold", s.Character.Health, s.reviveCost)
	return nil
}

func (s *Session) ReviveCost() int { return s.reviveCost }

// Save writes the character's save file.
func (s *Session) Save() error {
	if err := models.SaveCharacter(s.saveDir, s.Character); err != nil {
		return fmt.Errorf("save %s: %w", s.Character.Name, err)
	}
	s.logf("saved to %s", s.saveDir)
	return nil
}

// Export writes a YAML snapshot of the character and returns its path.
func (s *Session) Export() (string, error) {
	return models.ExportYAML(s.saveDir, s.Character)
}
