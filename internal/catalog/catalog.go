// Package catalog loads the read-only quest, item and enemy reference data.
//
// Catalog files are either blank-line separated blocks of "FIELD: value"
// lines or, when the file name ends in .yaml or .yml, a YAML list of records.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tatianab/quest-chronicles/internal/models"
)

var (
	ErrMissingDataFile   = errors.New("missing data file")
	ErrInvalidDataFormat = errors.New("invalid data format")
	ErrCorruptedData     = errors.New("corrupted data")
)

// Quests is an ordered, read-only quest catalog.
type Quests struct {
	byID  map[string]models.Quest
	order []string
}

// NewQuests builds a catalog from records. Duplicate ids are rejected but the
// prerequisite graph is not checked; see ValidateQuestGraph.
func NewQuests(quests ...models.Quest) (*Quests, error) {
	c := &Quests{byID: make(map[string]models.Quest, len(quests))}
	for _, q := range quests {
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate quest id %q", ErrInvalidDataFormat, q.ID)
		}
		c.byID[q.ID] = q
		c.order = append(c.order, q.ID)
	}
	return c, nil
}

// Get looks a quest up by id.
func (c *Quests) Get(id string) (models.Quest, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// All returns the quests in file order.
func (c *Quests) All() []models.Quest {
	out := make([]models.Quest, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Quests) Len() int { return len(c.order) }

// Items is an ordered, read-only item catalog.
type Items struct {
	byID  map[string]models.Item
	order []string
}

// NewItems builds a catalog from records, rejecting duplicate ids.
func NewItems(items ...models.Item) (*Items, error) {
	c := &Items{byID: make(map[string]models.Item, len(items))}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidDataFormat, it.ID)
		}
		c.byID[it.ID] = it
		c.order = append(c.order, it.ID)
	}
	return c, nil
}

// Get looks an item up by id.
func (c *Items) Get(id string) (models.Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// All returns the items in file order.
func (c *Items) All() []models.Item {
	out := make([]models.Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Items) Len() int { return len(c.order) }

// LoadQuests reads and validates a quest catalog file, including its
// prerequisite graph.
func LoadQuests(path string) (*Quests, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var quests []models.Quest
	if isYAML(path) {
		quests, err = decodeQuestsYAML(data)
	} else {
		quests, err = parseQuestBlocks(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := NewQuests(quests...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ValidateQuestGraph(c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadItems reads and validates an item catalog file.
func LoadItems(path string) (*Items, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var items []models.Item
	if isYAML(path) {
		items, err = decodeItemsYAML(data)
	} else {
		items, err = parseItemBlocks(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := NewItems(items...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDataFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptedData, path, err)
	}
	return data, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
