package models

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNewCharacter(t *testing.T) {
	tests := []struct {
		class                   Class
		health, strength, magic int
	}{
		{Warrior, 120, 15, 5},
		{Mage, 80, 8, 20},
		{Rogue, 90, 12, 10},
		{Cleric, 100, 10, 15},
	}
	for _, tt := range tests {
		c, err := NewCharacter("Hero", tt.class)
		if err != nil {
			t.Fatalf("NewCharacter(%s): %v", tt.class, err)
		}
		if c.Level != 1 || c.Gold != StartingGold || c.Experience != 0 {
			t.Errorf("%s: unexpected progression fields %+v", tt.class, c)
		}
		if c.Health != tt.health || c.MaxHealth != tt.health || c.Strength != tt.strength || c.Magic != tt.magic {
			t.Errorf("%s: got %d/%d/%d, want %d/%d/%d", tt.class, c.Health, c.Strength, c.Magic, tt.health, tt.strength, tt.magic)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: new character does not validate: %v", tt.class, err)
		}
	}
}

func TestNewCharacterErrors(t *testing.T) {
	if _, err := NewCharacter("Hero", "Bard"); !errors.Is(err, ErrInvalidCharacterClass) {
		t.Errorf("expected ErrInvalidCharacterClass, got %v", err)
	}
	if _, err := NewCharacter("  ", Warrior); !errors.Is(err, ErrInvalidCharacterName) {
		t.Errorf("expected ErrInvalidCharacterName, got %v", err)
	}
	if _, err := NewCharacter("../etc", Warrior); !errors.Is(err, ErrInvalidCharacterName) {
		t.Errorf("expected ErrInvalidCharacterName for path name, got %v", err)
	}
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass(" mage ")
	if err != nil || c != Mage {
		t.Errorf("ParseClass(mage) = %q, %v", c, err)
	}
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in      string
		want    Effect
		wantErr bool
	}{
		{in: "strength:5", want: Effect{StatStrength, 5}},
		{in: "health: 20", want: Effect{StatHealth, 20}},
		{in: "max_health:-10", want: Effect{StatMaxHealth, -10}},
		{in: "MAGIC:3", want: Effect{StatMagic, 3}},
		{in: "strength", wantErr: true},
		{in: "luck:5", wantErr: true},
		{in: "strength:five", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseEffect(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedEffect) {
				t.Errorf("ParseEffect(%q): expected ErrMalformedEffect, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEffect(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEffect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if round, _ := ParseEffect(got.String()); round != got {
			t.Errorf("String() of %+v does not parse back", got)
		}
	}
}

func TestApply(t *testing.T) {
	c, _ := NewCharacter("Hero", Cleric)
	c.Health = 90

	c.Apply(StatHealth, 50)
	if c.Health != c.MaxHealth {
		t.Errorf("health should clamp at max, got %d/%d", c.Health, c.MaxHealth)
	}
	c.Apply(StatHealth, -500)
	if c.Health != 0 {
		t.Errorf("health should floor at 0, got %d", c.Health)
	}

	c.Health = 100
	c.Apply(StatMaxHealth, -30)
	if c.MaxHealth != 70 || c.Health != 70 {
		t.Errorf("lowering max health should clamp health, got %d/%d", c.Health, c.MaxHealth)
	}

	c.Apply(StatStrength, -100)
	if c.Strength != 0 {
		t.Errorf("strength should floor at 0, got %d", c.Strength)
	}
	c.Apply(StatMagic, 4)
	if c.Value(StatMagic) != 19 {
		t.Errorf("magic = %d, want 19", c.Value(StatMagic))
	}
}

func TestValidate(t *testing.T) {
	base, _ := NewCharacter("Hero", Rogue)
	tests := []struct {
		name   string
		mutate func(*Character)
	}{
		{"health above max", func(c *Character) { c.Health = c.MaxHealth + 1 }},
		{"zero level", func(c *Character) { c.Level = 0 }},
		{"negative gold", func(c *Character) { c.Gold = -1 }},
		{"duplicate active", func(c *Character) { c.ActiveQuests = []string{"a", "a"} }},
		{"active and completed", func(c *Character) {
			c.ActiveQuests = []string{"a"}
			c.CompletedQuests = []string{"a"}
		}},
	}
	for _, tt := range tests {
		c := base.Clone()
		tt.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func sampleCharacter(t *testing.T) *Character {
	t.Helper()
	c, err := NewCharacter("Aria", Mage)
	if err != nil {
		t.Fatal(err)
	}
	c.Level = 3
	c.Experience = 40
	c.Gold = 75
	c.Health = 50
	c.Inventory = []string{"health_potion", "health_potion", "leather_armor"}
	c.ActiveQuests = []string{"goblin_trouble"}
	c.CompletedQuests = []string{"first_steps"}
	c.Weapon = &Equipped{ItemID: "oak_staff", Effect: Effect{StatMagic, 4}}
	c.Magic += 4
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := sampleCharacter(t)

	if err := SaveCharacter(dir, c); err != nil {
		t.Fatalf("SaveCharacter: %v", err)
	}
	got, err := LoadCharacter(dir, "Aria")
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}

	if got.Name != c.Name || got.Class != c.Class || got.Level != c.Level || got.Health != c.Health ||
		got.MaxHealth != c.MaxHealth || got.Magic != c.Magic || got.Gold != c.Gold || got.Experience != c.Experience {
		t.Errorf("stats differ after round trip:\n got %+v\nwant %+v", got, c)
	}
	if !slices.Equal(got.Inventory, c.Inventory) {
		t.Errorf("inventory = %v, want %v", got.Inventory, c.Inventory)
	}
	if !slices.Equal(got.ActiveQuests, c.ActiveQuests) || !slices.Equal(got.CompletedQuests, c.CompletedQuests) {
		t.Errorf("quests differ: %v %v", got.ActiveQuests, got.CompletedQuests)
	}
	if got.Weapon == nil || *got.Weapon != *c.Weapon {
		t.Errorf("weapon = %+v, want %+v", got.Weapon, c.Weapon)
	}
	if got.Armor != nil {
		t.Errorf("armor should be empty, got %+v", got.Armor)
	}
}

func TestMarshalSaveFieldOrder(t *testing.T) {
	c, _ := NewCharacter("Bo", Warrior)
	lines := strings.Split(strings.TrimSpace(string(MarshalSave(c))), "\n")
	if len(lines) != len(requiredKeys) {
		t.Fatalf("got %d lines, want %d", len(lines), len(requiredKeys))
	}
	for i, key := range requiredKeys {
		if !strings.HasPrefix(lines[i], key+":") {
			t.Errorf("line %d = %q, want key %s", i, lines[i], key)
		}
	}
	if lines[9] != "INVENTORY: " {
		t.Errorf("empty inventory line = %q", lines[9])
	}
}

func TestUnmarshalSaveErrors(t *testing.T) {
	c, _ := NewCharacter("Bo", Warrior)
	valid := string(MarshalSave(c))

	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing field", strings.Replace(valid, "GOLD: 100\n", "", 1), ErrInvalidSaveFormat},
		{"non integer", strings.Replace(valid, "LEVEL: 1", "LEVEL: one", 1), ErrInvalidSaveFormat},
		{"no separator", valid + "garbage line\n", ErrInvalidSaveFormat},
		{"unknown key", valid + "LUCK: 7\n", ErrInvalidSaveFormat},
		{"duplicate key", valid + "GOLD: 5\n", ErrInvalidSaveFormat},
		{"bad equipment", valid + "EQUIPPED_WEAPON: sword\n", ErrInvalidSaveFormat},
		{"unknown class", strings.Replace(valid, "CLASS: Warrior", "CLASS: Bard", 1), ErrCorruptedSaveData},
		{"health above max", strings.Replace(valid, "HEALTH: 120", "HEALTH: 999", 1), ErrCorruptedSaveData},
	}
	for _, tt := range tests {
		if _, err := UnmarshalSave([]byte(tt.data)); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestLoadCharacterNotFound(t *testing.T) {
	if _, err := LoadCharacter(t.TempDir(), "Nobody"); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestSaveNamesStayInDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "saves")
	outside := filepath.Join(root, "x_save.txt")
	if err := os.WriteFile(outside, []byte("NAME: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"../x", `..\x`, "C:x", "", ".."} {
		if _, err := LoadCharacter(dir, name); !errors.Is(err, ErrInvalidCharacterName) {
			t.Errorf("LoadCharacter(%q): expected ErrInvalidCharacterName, got %v", name, err)
		}
		if err := DeleteCharacter(dir, name); !errors.Is(err, ErrInvalidCharacterName) {
			t.Errorf("DeleteCharacter(%q): expected ErrInvalidCharacterName, got %v", name, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside the save dir was touched: %v", err)
	}
	c := &Character{Name: "../x"}
	if err := SaveCharacter(dir, c); !errors.Is(err, ErrInvalidCharacterName) {
		t.Errorf("SaveCharacter: expected ErrInvalidCharacterName, got %v", err)
	}
}

func TestListAndDeleteCharacters(t *testing.T) {
	dir := t.TempDir()

	names, err := ListSavedCharacters(filepath.Join(dir, "missing"))
	if err != nil || len(names) != 0 {
		t.Fatalf("missing dir: got %v, %v", names, err)
	}

	for _, name := range []string{"Zed", "Amy"} {
		c, _ := NewCharacter(name, Rogue)
		if err := SaveCharacter(dir, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	names, err = ListSavedCharacters(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"Amy", "Zed"}) {
		t.Errorf("ListSavedCharacters = %v", names)
	}

	if err := DeleteCharacter(dir, "Amy"); err != nil {
		t.Fatalf("DeleteCharacter: %v", err)
	}
	if err := DeleteCharacter(dir, "Amy"); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("second delete: expected ErrCharacterNotFound, got %v", err)
	}
}

func TestExportYAML(t *testing.T) {
	c := sampleCharacter(t)
	path, err := ExportYAML(t.TempDir(), c)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var back Character
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal export: %v", err)
	}
	if back.Name != c.Name || back.Weapon == nil || back.Weapon.Effect != c.Weapon.Effect {
		t.Errorf("export lost data: %+v", back)
	}
}
