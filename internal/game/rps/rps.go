// Package rps implements the type-advantage triangle shared by every combat rule set.
package rps

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MoveType is the Rock/Paper/Scissors category of a move.
type MoveType int

// The zero value is Unknown so that a content record with no type fails
// validation instead of loading as Rock.
const (
	Unknown MoveType = iota
	Rock
	Paper
	Scissors
)

// MoveTypes returns every valid MoveType in declaration order.
func MoveTypes() []MoveType {
	return []MoveType{Rock, Paper, Scissors}
}

// String returns the display name used in content files and combat narration.
func (t MoveType) String() string {
	switch t {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of Rock, Paper or Scissors.
func (t MoveType) Valid() bool {
	return t >= Rock && t <= Scissors
}

// ParseMoveType parses a move type name case-insensitively.
//
// Postcondition: Returns a valid MoveType or a non-nil error.
func ParseMoveType(s string) (MoveType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	default:
		return Unknown, fmt.Errorf("rps: unknown move type %q", s)
	}
}

// UnmarshalYAML decodes a move type from its name.
func (t *MoveType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("rps: move type must be a string: %w", err)
	}
	parsed, err := ParseMoveType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes the move type as its name.
func (t MoveType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// MarshalText encodes the move type as its name for JSON and database columns.
func (t MoveType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("rps: cannot encode move type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a move type from its name.
func (t *MoveType) UnmarshalText(b []byte) error {
	parsed, err := ParseMoveType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Advantage is the outcome category of one type matchup, from the attacker's side.
type Advantage int

const (
	Neutral Advantage = iota
	Superior
	Weak
)

// String returns a lower-case label for the advantage.
func (a Advantage) String() string {
	switch a {
	case Superior:
		return "superior"
	case Neutral:
		return "neutral"
	case Weak:
		return "weak"
	default:
		return "unknown"
	}
}

// beats maps each type to the single type it dominates.
var beats = map[MoveType]MoveType{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Beats reports whether a dominates b.
//
// Precondition: a and b are valid.
func Beats(a, b MoveType) bool {
	return beats[a] == b
}

// Resolve classifies attacker against defender.
//
// Precondition: attacker and defender are valid.
// Postcondition: Resolve(a, b) == Neutral iff a == b; Resolve(a, b) == Superior
// iff Resolve(b, a) == Weak.
func Resolve(attacker, defender MoveType) Advantage {
	switch {
	case attacker == defender:
		return Neutral
	case Beats(attacker, defender):
		return Superior
	default:
		return Weak
	}
}
