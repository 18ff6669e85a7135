// Package inventory provides equipment definitions, their catalog loaders and
// the loot satchel carried through a run.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

// WeaponDef is a weapon record. A weapon is also the player's basic move.
type WeaponDef struct {
	ID          string       `yaml:"id" json:"id,omitempty"`
	Name        string       `yaml:"name" json:"name"`
	Type        rps.MoveType `yaml:"type" json:"type"`
	Damage      float64      `yaml:"damage" json:"damage"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !w.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %d is not a move type", int(w.Type)))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.Name, errors.Join(errs...))
	}
	return nil
}

// AsMove returns the basic attack granted by the weapon.
func (w *WeaponDef) AsMove() combat.Move {
	return combat.Move{
		Name:        w.Name,
		Type:        w.Type,
		Damage:      w.Damage,
		Description: fmt.Sprintf("A basic attack with the %s.", w.Name),
	}
}

// ArmorDef is an armor record. ArmorValue is the wearer's armor rating.
type ArmorDef struct {
	ID          string  `yaml:"id" json:"id,omitempty"`
	Name        string  `yaml:"name" json:"name"`
	ArmorValue  float64 `yaml:"armor_value" json:"armor_value"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks that the ArmorDef satisfies its invariants.
// Precondition: a is non-nil.
// Postcondition: returns nil iff Name is non-empty and ArmorValue is in [0, 100].
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.ArmorValue < 0 || a.ArmorValue > 100 {
		errs = append(errs, fmt.Errorf("armor_value must be in [0, 100], got %v", a.ArmorValue))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor %q validation failed: %w", a.Name, errors.Join(errs...))
	}
	return nil
}

// SpellDef is an optional spell record. A known spell is always the first move.
type SpellDef struct {
	ID          string       `yaml:"id" json:"id,omitempty"`
	Name        string       `yaml:"name" json:"name"`
	Type        rps.MoveType `yaml:"type" json:"type"`
	Damage      float64      `yaml:"damage" json:"damage"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks that the SpellDef satisfies its invariants.
func (s *SpellDef) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !s.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %d is not a move type", int(s.Type)))
	}
	if s.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q validation failed: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// AsMove returns the spell as a move.
func (s *SpellDef) AsMove() combat.Move {
	return combat.Move{Name: s.Name, Type: s.Type, Damage: s.Damage, Description: s.Description}
}

// Ascendancy is a character origin. It is descriptive only.
type Ascendancy struct {
	ID          string `yaml:"id" json:"id,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks that the Ascendancy has a name.
func (a *Ascendancy) Validate() error {
	if a.Name == "" {
		return errors.New("ascendancy validation failed: name must not be empty")
	}
	return nil
}

// slug derives a stable identifier from a display name.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
