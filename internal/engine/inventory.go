package engine

import (
	"fmt"
	"slices"

	"github.com/tatianab/quest-chronicles/internal/models"
)

// DefaultInventoryCapacity is the number of inventory slots a character has.
const DefaultInventoryCapacity = 20

// Ledger applies the inventory, equipment and shop rules for a fixed
// inventory capacity.
type Ledger struct {
	Capacity int
}

// NewLedger returns a ledger with the given capacity, or the default one
// when capacity is not positive.
func NewLedger(capacity int) Ledger {
	if capacity <= 0 {
		capacity = DefaultInventoryCapacity
	}
	return Ledger{Capacity: capacity}
}

func (l Ledger) full(c *models.Character) bool {
	return len(c.Inventory) >= l.Capacity
}

// AddItem appends one instance of itemID.
func (l Ledger) AddItem(c *models.Character, itemID string) error {
	if l.full(c) {
		return fmt.Errorf("%w: %d/%d slots used", models.ErrInventoryFull, len(c.Inventory), l.Capacity)
	}
	c.Inventory = append(c.Inventory, itemID)
	return nil
}

// RemoveItem removes the first instance of itemID.
func (l Ledger) RemoveItem(c *models.Character, itemID string) error {
	i := slices.Index(c.Inventory, itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, itemID)
	}
	c.Inventory = slices.Delete(c.Inventory, i, i+1)
	return nil
}

func (l Ledger) HasItem(c *models.Character, itemID string) bool {
	return slices.Contains(c.Inventory, itemID)
}

// CountItem returns how many instances of itemID are carried.
func (l Ledger) CountItem(c *models.Character, itemID string) int {
	n := 0
	for _, id := range c.Inventory {
		if id == itemID {
			n++
		}
	}
	return n
}

func (l Ledger) SpaceRemaining(c *models.Character) int {
	return max(0, l.Capacity-len(c.Inventory))
}

// ClearInventory empties the inventory and returns what was in it.
func (l Ledger) ClearInventory(c *models.Character) []string {
	removed := c.Inventory
	c.Inventory = []string{}
	return removed
}

// DropItem discards one instance without compensation.
func (l Ledger) DropItem(c *models.Character, itemID string) error {
	return l.RemoveItem(c, itemID)
}

// UseItem consumes one instance of a consumable and applies its effect.
func (l Ledger) UseItem(c *models.Character, itemID string, item models.Item) (string, error) {
	if !l.HasItem(c, itemID) {
		return "", fmt.Errorf("%w: %s", models.ErrItemNotFound, itemID)
	}
	if item.Type != models.Consumable {
		return "", fmt.Errorf("%w: %s is a %s, not a consumable", models.ErrInvalidItemType, itemID, item.Type)
	}
	if item.Effect.IsZero() {
		return "", fmt.Errorf("%w: item %s has no effect", models.ErrMalformedEffect, itemID)
	}
	before := c.Value(item.Effect.Stat)
	c.Apply(item.Effect.Stat, item.Effect.Magnitude)
	_ = l.RemoveItem(c, itemID)
	return fmt.Sprintf("Used %s: %s %+d.", displayName(item), item.Effect.Stat, c.Value(item.Effect.Stat)-before), nil
}

func (l Ledger) slot(c *models.Character, t models.ItemType) **models.Equipped {
	if t == models.Weapon {
		return &c.Weapon
	}
	return &c.Armor
}

// EquipWeapon moves a weapon from the inventory into the weapon slot.
func (l Ledger) EquipWeapon(c *models.Character, itemID string, item models.Item) (string, error) {
	return l.equip(c, itemID, item, models.Weapon)
}

// EquipArmor moves armor from the inventory into the armor slot.
func (l Ledger) EquipArmor(c *models.Character, itemID string, item models.Item) (string, error) {
	return l.equip(c, itemID, item, models.Armor)
}

// equip swaps item into the slot for kind. A displaced item goes back to the
// inventory; if there is no room for it nothing changes.
func (l Ledger) equip(c *models.Character, itemID string, item models.Item, kind models.ItemType) (string, error) {
	if !l.HasItem(c, itemID) {
		return "", fmt.Errorf("%w: %s", models.ErrItemNotFound, itemID)
	}
	if item.Type != kind {
		return "", fmt.Errorf("%w: %s is a %s, not a %s", models.ErrInvalidItemType, itemID, item.Type, kind)
	}
	if item.Effect.IsZero() {
		return "", fmt.Errorf("%w: item %s has no effect", models.ErrMalformedEffect, itemID)
	}
	if item.Effect.Stat == models.StatHealth {
		return "", fmt.Errorf("%w: %s %s cannot modify health", models.ErrMalformedEffect, kind, itemID)
	}
	slot := l.slot(c, kind)
	old := *slot
	if old != nil && l.full(c) {
		return "", fmt.Errorf("%w: no room to unequip %s", models.ErrInventoryFull, old.ItemID)
	}

	if old != nil {
		c.Apply(old.Effect.Stat, -old.Effect.Magnitude)
		c.Inventory = append(c.Inventory, old.ItemID)
	}
	applied := applyClamped(c, item.Effect)
	*slot = &models.Equipped{ItemID: itemID, Effect: applied}
	_ = l.RemoveItem(c, itemID)
	return fmt.Sprintf("Equipped %s (%s %+d).", displayName(item), applied.Stat, applied.Magnitude), nil
}

// applyClamped applies e and returns the delta the stat really moved by.
func applyClamped(c *models.Character, e models.Effect) models.Effect {
	before := c.Value(e.Stat)
	c.Apply(e.Stat, e.Magnitude)
	return models.Effect{Stat: e.Stat, Magnitude: c.Value(e.Stat) - before}
}

// UnequipWeapon returns the equipped weapon to the inventory. It returns ""
// when the slot is empty.
func (l Ledger) UnequipWeapon(c *models.Character) (string, error) {
	return l.unequip(c, models.Weapon)
}

// UnequipArmor returns the equipped armor to the inventory. It returns ""
// when the slot is empty.
func (l Ledger) UnequipArmor(c *models.Character) (string, error) {
	return l.unequip(c, models.Armor)
}

func (l Ledger) unequip(c *models.Character, kind models.ItemType) (string, error) {
	slot := l.slot(c, kind)
	cur := *slot
	if cur == nil {
		return "", nil
	}
	if l.full(c) {
		return "", fmt.Errorf("%w: no room to unequip %s", models.ErrInventoryFull, cur.ItemID)
	}
	c.Apply(cur.Effect.Stat, -cur.Effect.Magnitude)
	c.Inventory = append(c.Inventory, cur.ItemID)
	*slot = nil
	return cur.ItemID, nil
}

// PurchaseItem buys one instance of item.
func (l Ledger) PurchaseItem(c *models.Character, itemID string, item models.Item) error {
	if c.Gold < item.Cost {
		return fmt.Errorf("%w: %s costs %d gold, you have %d", models.ErrInsufficientResources, itemID, item.Cost, c.Gold)
	}
	if l.full(c) {
		return fmt.Errorf("%w: %d/%d slots used", models.ErrInventoryFull, len(c.Inventory), l.Capacity)
	}
	c.Gold -= item.Cost
	c.Inventory = append(c.Inventory, itemID)
	return nil
}

// SellPrice is what the shop pays for an item.
func SellPrice(item models.Item) int {
	return item.Cost / 2
}

// SellItem sells one instance of item for half its cost and returns the price.
func (l Ledger) SellItem(c *models.Character, itemID string, item models.Item) (int, error) {
	if err := l.RemoveItem(c, itemID); err != nil {
		return 0, err
	}
	price := SellPrice(item)
	c.Gold += price
	return price, nil
}

// Stack is a display line of the inventory.
type Stack struct {
	ItemID string
	Count  int
}

// Summary groups the inventory by item, in order of first appearance.
func (l Ledger) Summary(c *models.Character) []Stack {
	var out []Stack
	index := map[string]int{}
	for _, id := range c.Inventory {
		if i, ok := index[id]; ok {
			out[i].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, Stack{ItemID: id, Count: 1})
	}
	return out
}

func displayName(item models.Item) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ID
}
