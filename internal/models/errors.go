package models

import "errors"

// Persistence errors.
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrCorruptedSaveData = errors.New("save data is corrupted")
	ErrInvalidSaveFormat = errors.New("invalid save format")
)

// Character errors.
var (
	ErrInvalidCharacterClass = errors.New("invalid character class")
	ErrInvalidCharacterName  = errors.New("invalid character name")
	ErrCharacterDead         = errors.New("character is dead")
	ErrInvalidOperation      = errors.New("invalid operation")
)

// Inventory errors.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInventoryFull         = errors.New("inventory is full")
	ErrItemNotFound          = errors.New("item not found")
	ErrInvalidItemType       = errors.New("invalid item type")

	// ErrMalformedEffect marks broken reference data, never a player mistake.
	ErrMalformedEffect = errors.New("malformed effect")
)

// Quest errors.
var (
	ErrQuestNotFound         = errors.New("quest not found")
	ErrQuestNotActive        = errors.New("quest not active")
	ErrQuestAlreadyCompleted = errors.New("quest already completed")
	ErrQuestAlreadyActive    = errors.New("quest already active")
	ErrRequirementsNotMet    = errors.New("quest requirements not met")
	ErrInsufficientLevel     = errors.New("insufficient level")
	ErrCyclicPrerequisite    = errors.New("cyclic quest prerequisite")
)

// Combat errors.
var (
	ErrInvalidTarget      = errors.New("invalid target")
	ErrCombatNotActive    = errors.New("combat not active")
	ErrAbilityUnavailable = errors.New("ability unavailable")
)
