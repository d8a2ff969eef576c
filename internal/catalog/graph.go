package catalog

import (
	"fmt"
	"slices"

	"github.com/tatianab/quest-chronicles/internal/models"
)

// ValidatePrerequisites checks that every prerequisite names a quest in the
// catalog. It does not look for cycles.
func ValidatePrerequisites(quests *Quests) error {
	for _, q := range quests.All() {
		if !q.HasPrerequisite() {
			continue
		}
		if _, ok := quests.Get(q.Prerequisite); !ok {
			return fmt.Errorf("%w: quest %q has invalid prerequisite %q", models.ErrQuestNotFound, q.ID, q.Prerequisite)
		}
	}
	return nil
}

// ValidateQuestGraph runs ValidatePrerequisites and then rejects any
// prerequisite cycle.
func ValidateQuestGraph(quests *Quests) error {
	if err := ValidatePrerequisites(quests); err != nil {
		return err
	}
	// Every quest has at most one prerequisite, so each walk is a path.
	acyclic := make(map[string]bool, quests.Len())
	for _, q := range quests.All() {
		var path []string
		onPath := map[string]bool{}
		for id := q.ID; id != "" && !acyclic[id]; {
			if onPath[id] {
				return fmt.Errorf("%w: %v", models.ErrCyclicPrerequisite, append(path[slices.Index(path, id):], id))
			}
			onPath[id] = true
			path = append(path, id)
			next, _ := quests.Get(id)
			id = next.Prerequisite
		}
		for _, id := range path {
			acyclic[id] = true
		}
	}
	return nil
}

// PrerequisiteChain returns the ancestry of questID from its root quest down
// to questID itself.
func PrerequisiteChain(questID string, quests *Quests) ([]string, error) {
	if _, ok := quests.Get(questID); !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrQuestNotFound, questID)
	}
	var chain []string
	seen := map[string]bool{}
	for id := questID; id != ""; {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s reached twice from %s", models.ErrCyclicPrerequisite, id, questID)
		}
		seen[id] = true
		q, ok := quests.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: invalid prerequisite %s", models.ErrQuestNotFound, id)
		}
		chain = append(chain, id)
		id = q.Prerequisite
	}
	slices.Reverse(chain)
	return chain, nil
}
