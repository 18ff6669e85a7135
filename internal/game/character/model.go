// Package character defines the player profile, player stat derivation and the
// character creator.
package character

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
)

// Profile is a saved character: the equipment chosen in the creator. Records
// are embedded whole so a profile stays playable if the catalog changes.
type Profile struct {
	Name       string               `yaml:"name,omitempty" json:"name,omitempty"`
	Ascendancy inventory.Ascendancy `yaml:"ascendancy" json:"ascendancy"`
	Weapon     inventory.WeaponDef  `yaml:"weapon" json:"weapon"`
	Armor      inventory.ArmorDef   `yaml:"armor" json:"armor"`
	// Spell is nil when the creator step was skipped.
	Spell *inventory.SpellDef `yaml:"spell,omitempty" json:"spell,omitempty"`
}

// Validate checks the embedded records.
//
// Postcondition: returns nil iff the ascendancy, weapon, armor and optional
// spell are all valid.
func (p *Profile) Validate() error {
	var errs []error
	if err := p.Ascendancy.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Weapon.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Armor.Validate(); err != nil {
		errs = append(errs, err)
	}
	if p.Spell != nil {
		if err := p.Spell.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile %q invalid: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// SpellName returns the spell's name, or "None".
func (p *Profile) SpellName() string {
	if p.Spell == nil {
		return "None"
	}
	return p.Spell.Name
}

// ParseProfile decodes a profile from YAML or JSON bytes and validates it.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadProfile reads a profile file.
//
// Postcondition: the returned error wraps fs.ErrNotExist when path is missing.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", path, err)
	}
	return p, nil
}

// SaveProfile writes p to path as indented JSON when the extension is .json and
// as YAML otherwise.
//
// Precondition: p must be valid.
func SaveProfile(path string, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(p, "", "    ")
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile %q: %w", path, err)
	}
	return nil
}
