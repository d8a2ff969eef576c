package models

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stat is one of the character attributes an item may modify.
type Stat string

const (
	StatHealth    Stat = "health"
	StatMaxHealth Stat = "max_health"
	StatStrength  Stat = "strength"
	StatMagic     Stat = "magic"
)

// ParseStat accepts only the modifiable stats.
func ParseStat(s string) (Stat, error) {
	switch st := Stat(strings.ToLower(strings.TrimSpace(s))); st {
	case StatHealth, StatMaxHealth, StatStrength, StatMagic:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown stat %q", ErrMalformedEffect, s)
}

// Effect is a parsed "stat:magnitude" string.
type Effect struct {
	Stat      Stat
	Magnitude int
}

// ParseEffect parses strings such as "strength:5" or "health:-10".
func ParseEffect(s string) (Effect, error) {
	name, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Effect{}, fmt.Errorf("%w: %q", ErrMalformedEffect, s)
	}
	stat, err := ParseStat(name)
	if err != nil {
		return Effect{}, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return Effect{}, fmt.Errorf("%w: magnitude %q is not an integer", ErrMalformedEffect, value)
	}
	return Effect{Stat: stat, Magnitude: n}, nil
}

func (e Effect) String() string {
	return fmt.Sprintf("%s:%d", e.Stat, e.Magnitude)
}

// IsZero reports whether the effect was never set.
func (e Effect) IsZero() bool {
	return e.Stat == ""
}

// MarshalYAML writes the effect in its string form.
func (e Effect) MarshalYAML() (any, error) {
	return e.String(), nil
}

// UnmarshalYAML reads the string form.
func (e *Effect) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEffect(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
