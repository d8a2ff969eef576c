package engine

import (
	"errors"
	"slices"
	"testing"

	"github.com/tatianab/quest-chronicles/internal/models"
)

var (
	potion    = models.Item{ID: "health_potion", Name: "Health Potion", Type: models.Consumable, Effect: models.Effect{Stat: models.StatHealth, Magnitude: 25}, Cost: 20}
	sword     = models.Item{ID: "iron_sword", Name: "Iron Sword", Type: models.Weapon, Effect: models.Effect{Stat: models.StatStrength, Magnitude: 5}, Cost: 50}
	staff     = models.Item{ID: "oak_staff", Name: "Oak Staff", Type: models.Weapon, Effect: models.Effect{Stat: models.StatMagic, Magnitude: 6}, Cost: 55}
	chainMail = models.Item{ID: "chain_mail", Name: "Chain Mail", Type: models.Armor, Effect: models.Effect{Stat: models.StatMaxHealth, Magnitude: 25}, Cost: 120}
)

func TestAddRemoveCount(t *testing.T) {
	l := NewLedger(3)
	c := newHero(t, models.Rogue)
	for _, id := range []string{"health_potion", "iron_sword", "health_potion"} {
		if err := l.AddItem(c, id); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.AddItem(c, "oak_staff"); !errors.Is(err, models.ErrInventoryFull) {
		t.Errorf("expected ErrInventoryFull, got %v", err)
	}
	if got := l.CountItem(c, "health_potion"); got != 2 {
		t.Errorf("CountItem = %d, want 2", got)
	}
	if l.SpaceRemaining(c) != 0 {
		t.Errorf("SpaceRemaining = %d", l.SpaceRemaining(c))
	}
	if err := l.RemoveItem(c, "health_potion"); err != nil {
		t.Fatal(err)
	}
	if want := []string{"iron_sword", "health_potion"}; !slices.Equal(c.Inventory, want) {
		t.Errorf("inventory = %v, want %v", c.Inventory, want)
	}
	if err := l.RemoveItem(c, "oak_staff"); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if got := l.ClearInventory(c); len(got) != 2 || len(c.Inventory) != 0 {
		t.Errorf("ClearInventory returned %v, left %v", got, c.Inventory)
	}
}

func TestNewLedgerDefault(t *testing.T) {
	if l := NewLedger(0); l.Capacity != DefaultInventoryCapacity {
		t.Errorf("capacity = %d", l.Capacity)
	}
}

func TestPurchaseItem(t *testing.T) {
	l := NewLedger(0)
	item := models.Item{ID: "rope", Type: models.Consumable, Effect: models.Effect{Stat: models.StatHealth, Magnitude: 1}, Cost: 30}

	c := newHero(t, models.Warrior)
	c.Gold = 30
	if err := l.PurchaseItem(c, "rope", item); err != nil {
		t.Fatal(err)
	}
	if c.Gold != 0 || !l.HasItem(c, "rope") {
		t.Errorf("gold %d inventory %v", c.Gold, c.Inventory)
	}

	c = newHero(t, models.Warrior)
	c.Gold = 29
	if err := l.PurchaseItem(c, "rope", item); !errors.Is(err, models.ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
	if c.Gold != 29 || len(c.Inventory) != 0 {
		t.Errorf("failed purchase changed state: gold %d inventory %v", c.Gold, c.Inventory)
	}

	small := NewLedger(1)
	c.Inventory = []string{"rope"}
	c.Gold = 100
	if err := small.PurchaseItem(c, "rope", item); !errors.Is(err, models.ErrInventoryFull) {
		t.Errorf("expected ErrInventoryFull, got %v", err)
	}
	if c.Gold != 100 {
		t.Errorf("gold deducted on full inventory: %d", c.Gold)
	}
}

func TestSellItem(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"chain_mail"}
	price, err := l.SellItem(c, "chain_mail", chainMail)
	if err != nil {
		t.Fatal(err)
	}
	if price != 60 || c.Gold != 160 || len(c.Inventory) != 0 {
		t.Errorf("price %d gold %d inventory %v", price, c.Gold, c.Inventory)
	}
	if _, err := l.SellItem(c, "chain_mail", chainMail); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUseItem(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Cleric)
	c.Health = 50
	c.Inventory = []string{"health_potion", "iron_sword"}

	if _, err := l.UseItem(c, "health_potion", potion); err != nil {
		t.Fatal(err)
	}
	if c.Health != 75 || l.HasItem(c, "health_potion") {
		t.Errorf("health %d inventory %v", c.Health, c.Inventory)
	}
	if _, err := l.UseItem(c, "health_potion", potion); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := l.UseItem(c, "iron_sword", sword); !errors.Is(err, models.ErrInvalidItemType) {
		t.Errorf("expected ErrInvalidItemType, got %v", err)
	}
	if !l.HasItem(c, "iron_sword") {
		t.Error("rejected use should keep the item")
	}

	c.Health = 95
	c.Inventory = []string{"health_potion"}
	l.UseItem(c, "health_potion", potion)
	if c.Health != c.MaxHealth {
		t.Errorf("potion should cap at max health, got %d", c.Health)
	}
}

func TestEquipSwap(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Mage)
	c.Inventory = []string{"iron_sword", "oak_staff"}

	if _, err := l.EquipWeapon(c, "iron_sword", sword); err != nil {
		t.Fatal(err)
	}
	if c.Strength != 13 || c.Weapon == nil || c.Weapon.ItemID != "iron_sword" || l.HasItem(c, "iron_sword") {
		t.Fatalf("after equip: strength %d weapon %+v inventory %v", c.Strength, c.Weapon, c.Inventory)
	}

	if _, err := l.EquipWeapon(c, "oak_staff", staff); err != nil {
		t.Fatal(err)
	}
	if c.Strength != 8 || c.Magic != 26 || c.Weapon.ItemID != "oak_staff" {
		t.Errorf("after swap: strength %d magic %d weapon %+v", c.Strength, c.Magic, c.Weapon)
	}
	if !slices.Equal(c.Inventory, []string{"iron_sword"}) {
		t.Errorf("displaced weapon not returned: %v", c.Inventory)
	}

	id, err := l.UnequipWeapon(c)
	if err != nil || id != "oak_staff" {
		t.Fatalf("UnequipWeapon = %q, %v", id, err)
	}
	if c.Magic != 20 || c.Weapon != nil {
		t.Errorf("after unequip: magic %d weapon %+v", c.Magic, c.Weapon)
	}
	if id, err := l.UnequipWeapon(c); id != "" || err != nil {
		t.Errorf("empty slot unequip = %q, %v", id, err)
	}
}

func TestEquipWrongSlot(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"chain_mail", "health_potion"}
	if _, err := l.EquipWeapon(c, "chain_mail", chainMail); !errors.Is(err, models.ErrInvalidItemType) {
		t.Errorf("expected ErrInvalidItemType, got %v", err)
	}
	if _, err := l.EquipArmor(c, "health_potion", potion); !errors.Is(err, models.ErrInvalidItemType) {
		t.Errorf("expected ErrInvalidItemType, got %v", err)
	}
	if _, err := l.EquipArmor(c, "iron_sword", sword); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestArmorRaisesMaxHealth(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"chain_mail"}
	if _, err := l.EquipArmor(c, "chain_mail", chainMail); err != nil {
		t.Fatal(err)
	}
	if c.MaxHealth != 145 || c.Health != 120 {
		t.Errorf("max %d health %d", c.MaxHealth, c.Health)
	}
	c.Health = 140
	if _, err := l.UnequipArmor(c); err != nil {
		t.Fatal(err)
	}
	if c.MaxHealth != 120 || c.Health != 120 {
		t.Errorf("unequip should clamp health: max %d health %d", c.MaxHealth, c.Health)
	}
}

func TestEquipUnequipRestoresStats(t *testing.T) {
	cursed := models.Item{ID: "cursed_blade", Name: "Cursed Blade", Type: models.Weapon, Effect: models.Effect{Stat: models.StatStrength, Magnitude: -10}}
	sackcloth := models.Item{ID: "sackcloth", Name: "Sackcloth", Type: models.Armor, Effect: models.Effect{Stat: models.StatMaxHealth, Magnitude: -500}}
	tests := []struct {
		class models.Class
		item  models.Item
	}{
		{models.Warrior, sword},
		{models.Mage, staff},
		{models.Warrior, chainMail},
		{models.Mage, cursed},
		{models.Cleric, sackcloth},
	}
	l := NewLedger(0)
	for _, tt := range tests {
		t.Run(tt.item.ID, func(t *testing.T) {
			c := newHero(t, tt.class)
			c.Inventory = []string{tt.item.ID}
			before := c.Clone()
			equip, unequip := l.EquipWeapon, l.UnequipWeapon
			if tt.item.Type == models.Armor {
				equip, unequip = l.EquipArmor, l.UnequipArmor
			}
			for i := 0; i < 3; i++ {
				if _, err := equip(c, tt.item.ID, tt.item); err != nil {
					t.Fatal(err)
				}
				if _, err := unequip(c); err != nil {
					t.Fatal(err)
				}
			}
			if c.Strength != before.Strength || c.Magic != before.Magic || c.MaxHealth != before.MaxHealth {
				t.Errorf("stats drifted: str %d->%d mag %d->%d max %d->%d",
					before.Strength, c.Strength, before.Magic, c.Magic, before.MaxHealth, c.MaxHealth)
			}
		})
	}
}

func TestEquipClampedEffectIsRecorded(t *testing.T) {
	cursed := models.Item{ID: "cursed_blade", Name: "Cursed Blade", Type: models.Weapon, Effect: models.Effect{Stat: models.StatStrength, Magnitude: -10}}
	l := NewLedger(0)
	c := newHero(t, models.Mage)
	c.Inventory = []string{"cursed_blade"}
	if _, err := l.EquipWeapon(c, "cursed_blade", cursed); err != nil {
		t.Fatal(err)
	}
	if c.Strength != 0 || c.Weapon.Effect.Magnitude != -8 {
		t.Errorf("strength %d, recorded %v", c.Strength, c.Weapon.Effect)
	}
}

func TestEquipHealthGearRejected(t *testing.T) {
	amulet := models.Item{ID: "amulet", Name: "Amulet", Type: models.Armor, Effect: models.Effect{Stat: models.StatHealth, Magnitude: 10}}
	l := NewLedger(0)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"amulet"}
	if _, err := l.EquipArmor(c, "amulet", amulet); !errors.Is(err, models.ErrMalformedEffect) {
		t.Fatalf("expected ErrMalformedEffect, got %v", err)
	}
	if c.Armor != nil || c.Health != 120 || len(c.Inventory) != 1 {
		t.Errorf("rejected equip changed state: %+v", c)
	}
}

func TestEquipDisplacedItemNeedsRoom(t *testing.T) {
	l := NewLedger(2)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"oak_staff", "health_potion"}
	c.Weapon = &models.Equipped{ItemID: "iron_sword", Effect: sword.Effect}
	c.Strength += 5
	before := c.Clone()

	if _, err := l.EquipWeapon(c, "oak_staff", staff); !errors.Is(err, models.ErrInventoryFull) {
		t.Fatalf("expected ErrInventoryFull, got %v", err)
	}
	if c.Strength != before.Strength || c.Magic != before.Magic || *c.Weapon != *before.Weapon || !slices.Equal(c.Inventory, before.Inventory) {
		t.Errorf("aborted equip changed state: %+v", c)
	}

	if _, err := l.UnequipWeapon(c); !errors.Is(err, models.ErrInventoryFull) {
		t.Errorf("expected ErrInventoryFull on unequip, got %v", err)
	}
	if c.Weapon == nil || c.Strength != before.Strength {
		t.Error("aborted unequip changed state")
	}
}

func TestSummary(t *testing.T) {
	l := NewLedger(0)
	c := newHero(t, models.Warrior)
	c.Inventory = []string{"a", "b", "a", "c", "a"}
	want := []Stack{{"a", 3}, {"b", 1}, {"c", 1}}
	if got := l.Summary(c); !slices.Equal(got, want) {
		t.Errorf("Summary = %v, want %v", got, want)
	}
}
