package catalog

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Default catalog file names inside the data directory.
const (
	QuestsFile = "quests.txt"
	ItemsFile  = "items.txt"
)

//go:embed defaults/quests.txt
var defaultQuests []byte

//go:embed defaults/items.txt
var defaultItems []byte

// WriteDefaults creates dir and the starter catalogs in it. Existing files
// are left alone.
func WriteDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for name, data := range map[string][]byte{QuestsFile: defaultQuests, ItemsFile: defaultItems} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// Load reads both catalogs from dir, writing the defaults first if either
// file is missing.
func Load(dir string) (*Quests, *Items, error) {
	quests, err := LoadQuests(filepath.Join(dir, QuestsFile))
	if errors.Is(err, ErrMissingDataFile) {
		if err := WriteDefaults(dir); err != nil {
			return nil, nil, err
		}
		quests, err = LoadQuests(filepath.Join(dir, QuestsFile))
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := LoadItems(filepath.Join(dir, ItemsFile))
	if errors.Is(err, ErrMissingDataFile) {
		if err := WriteDefaults(dir); err != nil {
			return nil, nil, err
		}
		items, err = LoadItems(filepath.Join(dir, ItemsFile))
	}
	if err != nil {
		return nil, nil, err
	}
	return quests, items, nil
}
