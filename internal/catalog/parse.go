package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tatianab/quest-chronicles/internal/models"
	"gopkg.in/yaml.v3"
)

// noPrerequisite is the on-disk sentinel for a root quest.
const noPrerequisite = "NONE"

var questFields = []string{"QUEST_ID", "TITLE", "DESCRIPTION", "REWARD_XP", "REWARD_GOLD", "REQUIRED_LEVEL", "PREREQUISITE"}

var itemFields = []string{"ITEM_ID", "NAME", "TYPE", "EFFECT", "COST", "DESCRIPTION"}

type block struct {
	line   int // first line of the block, 1-based
	fields map[string]string
}

// splitBlocks cuts data into blank-line separated blocks of FIELD: value
// lines, accepting only the given field names, each exactly once.
func splitBlocks(data []byte, allowed []string) ([]block, error) {
	var (
		blocks []block
		cur    *block
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			cur = nil
			continue
		}
		if cur == nil {
			blocks = append(blocks, block{line: n, fields: make(map[string]string, len(allowed))})
			cur = &blocks[len(blocks)-1]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected FIELD: value", ErrInvalidDataFormat, n)
		}
		key = strings.TrimSpace(key)
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("%w: line %d: unknown field %q", ErrInvalidDataFormat, n, key)
		}
		if _, dup := cur.fields[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate field %s", ErrInvalidDataFormat, n, key)
		}
		cur.fields[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedData, err)
	}
	for _, b := range blocks {
		for _, f := range allowed {
			if _, ok := b.fields[f]; !ok {
				return nil, fmt.Errorf("%w: record at line %d: missing field %s", ErrInvalidDataFormat, b.line, f)
			}
		}
	}
	return blocks, nil
}

func parseQuestBlocks(data []byte) ([]models.Quest, error) {
	blocks, err := splitBlocks(data, questFields)
	if err != nil {
		return nil, err
	}
	quests := make([]models.Quest, 0, len(blocks))
	for _, b := range blocks {
		f := b.fields
		q := models.Quest{
			ID:           f["QUEST_ID"],
			Title:        f["TITLE"],
			Description:  f["DESCRIPTION"],
			Prerequisite: f["PREREQUISITE"],
		}
		for _, n := range []struct {
			key string
			dst *int
		}{
			{"REWARD_XP", &q.RewardXP},
			{"REWARD_GOLD", &q.RewardGold},
			{"REQUIRED_LEVEL", &q.RequiredLevel},
		} {
			if *n.dst, err = parseCount(f[n.key]); err != nil {
				return nil, fmt.Errorf("%w: record at line %d: %s: %v", ErrInvalidDataFormat, b.line, n.key, err)
			}
		}
		if q, err = normalizeQuest(q); err != nil {
			return nil, fmt.Errorf("%w: record at line %d: %v", ErrInvalidDataFormat, b.line, err)
		}
		quests = append(quests, q)
	}
	return quests, nil
}

func parseItemBlocks(data []byte) ([]models.Item, error) {
	blocks, err := splitBlocks(data, itemFields)
	if err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(blocks))
	for _, b := range blocks {
		f := b.fields
		cost, err := parseCount(f["COST"])
		if err != nil {
			return nil, fmt.Errorf("%w: record at line %d: COST: %v", ErrInvalidDataFormat, b.line, err)
		}
		it, err := buildItem(f["ITEM_ID"], f["NAME"], f["TYPE"], f["EFFECT"], f["DESCRIPTION"], cost)
		if err != nil {
			return nil, fmt.Errorf("%w: record at line %d: %v", ErrInvalidDataFormat, b.line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

type questRecord struct {
	ID            *string `yaml:"quest_id"`
	Title         *string `yaml:"title"`
	Description   *string `yaml:"description"`
	RewardXP      *int    `yaml:"reward_xp"`
	RewardGold    *int    `yaml:"reward_gold"`
	RequiredLevel *int    `yaml:"required_level"`
	Prerequisite  *string `yaml:"prerequisite"`
}

type itemRecord struct {
	ID          *string `yaml:"item_id"`
	Name        *string `yaml:"name"`
	Type        *string `yaml:"type"`
	Effect      *string `yaml:"effect"`
	Cost        *int    `yaml:"cost"`
	Description *string `yaml:"description"`
}

func decodeYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataFormat, err)
	}
	return nil
}

func decodeQuestsYAML(data []byte) ([]models.Quest, error) {
	var records []questRecord
	if err := decodeYAML(data, &records); err != nil {
		return nil, err
	}
	quests := make([]models.Quest, 0, len(records))
	for i, r := range records {
		if r.ID == nil || r.Title == nil || r.Description == nil || r.RewardXP == nil ||
			r.RewardGold == nil || r.RequiredLevel == nil || r.Prerequisite == nil {
			return nil, fmt.Errorf("%w: quest #%d: all of %s are required", ErrInvalidDataFormat, i+1, strings.Join(questFields, ", "))
		}
		q, err := normalizeQuest(models.Quest{
			ID:            *r.ID,
			Title:         *r.Title,
			Description:   *r.Description,
			RewardXP:      *r.RewardXP,
			RewardGold:    *r.RewardGold,
			RequiredLevel: *r.RequiredLevel,
			Prerequisite:  *r.Prerequisite,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: quest #%d: %v", ErrInvalidDataFormat, i+1, err)
		}
		quests = append(quests, q)
	}
	return quests, nil
}

func decodeItemsYAML(data []byte) ([]models.Item, error) {
	var records []itemRecord
	if err := decodeYAML(data, &records); err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(records))
	for i, r := range records {
		if r.ID == nil || r.Name == nil || r.Type == nil || r.Effect == nil || r.Cost == nil || r.Description == nil {
			return nil, fmt.Errorf("%w: item #%d: all of %s are required", ErrInvalidDataFormat, i+1, strings.Join(itemFields, ", "))
		}
		if *r.Cost < 0 {
			return nil, fmt.Errorf("%w: item #%d: negative cost", ErrInvalidDataFormat, i+1)
		}
		it, err := buildItem(*r.ID, *r.Name, *r.Type, *r.Effect, *r.Description, *r.Cost)
		if err != nil {
			return nil, fmt.Errorf("%w: item #%d: %v", ErrInvalidDataFormat, i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func normalizeQuest(q models.Quest) (models.Quest, error) {
	if err := checkID(q.ID); err != nil {
		return q, err
	}
	if q.RewardXP < 0 || q.RewardGold < 0 {
		return q, fmt.Errorf("quest %q: rewards must not be negative", q.ID)
	}
	if q.RequiredLevel < 1 {
		return q, fmt.Errorf("quest %q: required level must be at least 1", q.ID)
	}
	if strings.EqualFold(q.Prerequisite, noPrerequisite) {
		q.Prerequisite = ""
	} else if err := checkID(q.Prerequisite); err != nil {
		return q, fmt.Errorf("quest %q: prerequisite: %v", q.ID, err)
	}
	return q, nil
}

func buildItem(id, name, typ, effect, description string, cost int) (models.Item, error) {
	if err := checkID(id); err != nil {
		return models.Item{}, err
	}
	t, err := models.ParseItemType(typ)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %q: %v", id, err)
	}
	e, err := models.ParseEffect(effect)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %q: %v", id, err)
	}
	if t != models.Consumable && e.Stat == models.StatHealth {
		return models.Item{}, fmt.Errorf("item %q: %s cannot modify health", id, t)
	}
	return models.Item{ID: id, Name: name, Type: t, Effect: e, Cost: cost, Description: description}, nil
}

// checkID rejects ids that would not survive the comma-joined save format.
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if strings.ContainsAny(id, ",| \t") {
		return fmt.Errorf("id %q must not contain commas, pipes or spaces", id)
	}
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d must not be negative", n)
	}
	return n, nil
}
