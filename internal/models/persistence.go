package models

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDir is where saves go when nothing else is configured.
const DefaultSaveDir = "data/save_games"

const saveSuffix = "_save.txt"

// Save-file keys in the order they are written.
const (
	keyName            = "NAME"
	keyClass           = "CLASS"
	keyLevel           = "LEVEL"
	keyHealth          = "HEALTH"
	keyMaxHealth       = "MAX_HEALTH"
	keyStrength        = "STRENGTH"
	keyMagic           = "MAGIC"
	keyExperience      = "EXPERIENCE"
	keyGold            = "GOLD"
	keyInventory       = "INVENTORY"
	keyActiveQuests    = "ACTIVE_QUESTS"
	keyCompletedQuests = "COMPLETED_QUESTS"
	keyEquippedWeapon  = "EQUIPPED_WEAPON"
	keyEquippedArmor   = "EQUIPPED_ARMOR"
)

var requiredKeys = []string{
	keyName, keyClass, keyLevel, keyHealth, keyMaxHealth, keyStrength,
	keyMagic, keyExperience, keyGold, keyInventory, keyActiveQuests, keyCompletedQuests,
}

func savePath(dir, name string) string {
	return filepath.Join(dir, name+saveSuffix)
}

// MarshalSave renders the flat KEY: value save record.
func MarshalSave(c *Character) []byte {
	var b bytes.Buffer
	line := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}
	line(keyName, c.Name)
	line(keyClass, string(c.Class))
	line(keyLevel, strconv.Itoa(c.Level))
	line(keyHealth, strconv.Itoa(c.Health))
	line(keyMaxHealth, strconv.Itoa(c.MaxHealth))
	line(keyStrength, strconv.Itoa(c.Strength))
	line(keyMagic, strconv.Itoa(c.Magic))
	line(keyExperience, strconv.Itoa(c.Experience))
	line(keyGold, strconv.Itoa(c.Gold))
	line(keyInventory, strings.Join(c.Inventory, ","))
	line(keyActiveQuests, strings.Join(c.ActiveQuests, ","))
	line(keyCompletedQuests, strings.Join(c.CompletedQuests, ","))
	if c.Weapon != nil {
		line(keyEquippedWeapon, c.Weapon.ItemID+"|"+c.Weapon.Effect.String())
	}
	if c.Armor != nil {
		line(keyEquippedArmor, c.Armor.ItemID+"|"+c.Armor.Effect.String())
	}
	return b.Bytes()
}

// UnmarshalSave parses a save record and validates the resulting character.
func UnmarshalSave(data []byte) (*Character, error) {
	fields := make(map[string]string, len(requiredKeys)+2)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !validKey(key) {
			return nil, fmt.Errorf("%w: line %d: expected KEY: value", ErrInvalidSaveFormat, n)
		}
		if !slices.Contains(requiredKeys, key) && key != keyEquippedWeapon && key != keyEquippedArmor {
			return nil, fmt.Errorf("%w: line %d: unknown field %s", ErrInvalidSaveFormat, n, key)
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate field %s", ErrInvalidSaveFormat, n, key)
		}
		fields[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedSaveData, err)
	}
	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing field %s", ErrInvalidSaveFormat, key)
		}
	}

	c := &Character{Name: fields[keyName]}
	ints := []struct {
		key string
		dst *int
	}{
		{keyLevel, &c.Level},
		{keyHealth, &c.Health},
		{keyMaxHealth, &c.MaxHealth},
		{keyStrength, &c.Strength},
		{keyMagic, &c.Magic},
		{keyExperience, &c.Experience},
		{keyGold, &c.Gold},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(fields[f.key])
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidSaveFormat, f.key, fields[f.key])
		}
		*f.dst = v
	}
	class, err := ParseClass(fields[keyClass])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedSaveData, err)
	}
	c.Class = class
	c.Inventory = splitList(fields[keyInventory])
	c.ActiveQuests = splitList(fields[keyActiveQuests])
	c.CompletedQuests = splitList(fields[keyCompletedQuests])

	if v, ok := fields[keyEquippedWeapon]; ok {
		if c.Weapon, err = parseEquipped(v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSaveFormat, keyEquippedWeapon, err)
		}
	}
	if v, ok := fields[keyEquippedArmor]; ok {
		if c.Armor, err = parseEquipped(v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSaveFormat, keyEquippedArmor, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedSaveData, err)
	}
	return c, nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}

func splitList(v string) []string {
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseEquipped(v string) (*Equipped, error) {
	id, effect, ok := strings.Cut(v, "|")
	if !ok || strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("expected item_id|stat:value, got %q", v)
	}
	e, err := ParseEffect(effect)
	if err != nil {
		return nil, err
	}
	return &Equipped{ItemID: strings.TrimSpace(id), Effect: e}, nil
}

// SaveCharacter writes the character to dir/<name>_save.txt.
func SaveCharacter(dir string, c *Character) error {
	if err := CheckName(c.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, c.Name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(MarshalSave(c)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), savePath(dir, c.Name))
}

// LoadCharacter reads dir/<name>_save.txt.
func LoadCharacter(dir, name string) (*Character, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(savePath(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCharacterNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedSaveData, err)
	}
	return UnmarshalSave(data)
}

// ListSavedCharacters returns the names of all saves in dir, sorted.
func ListSavedCharacters(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), saveSuffix); ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// DeleteCharacter removes a save.
func DeleteCharacter(dir, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	err := os.Remove(savePath(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrCharacterNotFound, name)
	}
	return err
}

// ExportYAML writes a readable YAML snapshot next to the saves and returns its path.
func ExportYAML(dir string, c *Character) (string, error) {
	if err := CheckName(c.Name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, c.Name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
