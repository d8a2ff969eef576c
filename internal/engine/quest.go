package engine

import (
	"fmt"
	"slices"

	"github.com/tatianab/quest-chronicles/internal/catalog"
	"github.com/tatianab/quest-chronicles/internal/models"
)

func prerequisiteMet(c *models.Character, q models.Quest) bool {
	return !q.HasPrerequisite() || c.IsCompleted(q.Prerequisite)
}

// AcceptQuest makes questID active. Checks run in a fixed order: existence,
// level, prerequisite, completed, active.
func AcceptQuest(c *models.Character, questID string, quests *catalog.Quests) error {
	q, ok := quests.Get(questID)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrQuestNotFound, questID)
	}
	if c.Level < q.RequiredLevel {
		return fmt.Errorf("%w: %s requires level %d", models.ErrInsufficientLevel, questID, q.RequiredLevel)
	}
	if !prerequisiteMet(c, q) {
		return fmt.Errorf("%w: complete %s first", models.ErrRequirementsNotMet, q.Prerequisite)
	}
	if c.IsCompleted(questID) {
		return fmt.Errorf("%w: %s", models.ErrQuestAlreadyCompleted, questID)
	}
	if c.IsActive(questID) {
		return fmt.Errorf("%w: %s", models.ErrQuestAlreadyActive, questID)
	}
	c.ActiveQuests = append(c.ActiveQuests, questID)
	return nil
}

// QuestReward is what completing a quest paid out.
type QuestReward struct {
	XP           int
	Gold         int
	LevelsGained int
}

// CompleteQuest turns in an active quest and grants its rewards. A dead
// character cannot collect, so nothing moves in that case.
func CompleteQuest(c *models.Character, questID string, quests *catalog.Quests) (QuestReward, error) {
	q, ok := quests.Get(questID)
	if !ok {
		return QuestReward{}, fmt.Errorf("%w: %s", models.ErrQuestNotFound, questID)
	}
	if !c.IsActive(questID) {
		return QuestReward{}, fmt.Errorf("%w: %s", models.ErrQuestNotActive, questID)
	}
	if IsDead(c) {
		return QuestReward{}, fmt.Errorf("%w: cannot collect rewards", models.ErrCharacterDead)
	}

	c.ActiveQuests = slices.DeleteFunc(c.ActiveQuests, func(id string) bool { return id == questID })
	c.CompletedQuests = append(c.CompletedQuests, questID)

	levels, err := GainExperience(c, q.RewardXP)
	if err != nil {
		return QuestReward{}, err
	}
	if _, err := AdjustGold(c, q.RewardGold); err != nil {
		return QuestReward{}, err
	}
	return QuestReward{XP: q.RewardXP, Gold: q.RewardGold, LevelsGained: levels}, nil
}

// AbandonQuest drops an active quest with no reward or penalty.
func AbandonQuest(c *models.Character, questID string) error {
	if !c.IsActive(questID) {
		return fmt.Errorf("%w: %s", models.ErrQuestNotActive, questID)
	}
	c.ActiveQuests = slices.DeleteFunc(c.ActiveQuests, func(id string) bool { return id == questID })
	return nil
}

// CanAcceptQuest is AcceptQuest's eligibility test without the error.
func CanAcceptQuest(c *models.Character, questID string, quests *catalog.Quests) bool {
	q, ok := quests.Get(questID)
	if !ok {
		return false
	}
	return c.Level >= q.RequiredLevel &&
		prerequisiteMet(c, q) &&
		!c.IsCompleted(questID) &&
		!c.IsActive(questID)
}

// AvailableQuests lists the quests the character could accept right now, in
// catalog order.
func AvailableQuests(c *models.Character, quests *catalog.Quests) []models.Quest {
	var out []models.Quest
	for _, q := range quests.All() {
		if CanAcceptQuest(c, q.ID, quests) {
			out = append(out, q)
		}
	}
	return out
}

// ActiveQuests returns the records of the character's active quests,
// skipping ids the catalog no longer knows.
func ActiveQuests(c *models.Character, quests *catalog.Quests) []models.Quest {
	return lookup(c.ActiveQuests, quests)
}

// CompletedQuests returns the records of the character's completed quests.
func CompletedQuests(c *models.Character, quests *catalog.Quests) []models.Quest {
	return lookup(c.CompletedQuests, quests)
}

func lookup(ids []string, quests *catalog.Quests) []models.Quest {
	var out []models.Quest
	for _, id := range ids {
		if q, ok := quests.Get(id); ok {
			out = append(out, q)
		}
	}
	return out
}

// CompletionPercentage is the share of the catalog the character has completed.
func CompletionPercentage(c *models.Character, quests *catalog.Quests) float64 {
	if quests.Len() == 0 {
		return 0
	}
	return float64(len(CompletedQuests(c, quests))) / float64(quests.Len()) * 100
}

// TotalRewardsEarned sums the rewards of completed quests.
func TotalRewardsEarned(c *models.Character, quests *catalog.Quests) (xp, gold int) {
	for _, q := range CompletedQuests(c, quests) {
		xp += q.RewardXP
		gold += q.RewardGold
	}
	return xp, gold
}

// QuestsByLevel returns quests whose required level is within [lo, hi].
func QuestsByLevel(quests *catalog.Quests, lo, hi int) []models.Quest {
	var out []models.Quest
	for _, q := range quests.All() {
		if q.RequiredLevel >= lo && q.RequiredLevel <= hi {
			out = append(out, q)
		}
	}
	return out
}
