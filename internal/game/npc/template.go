// Package npc provides monster templates, loot tables and live enemy instances.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
)

// DangerLevel is the tier a monster is drawn for.
type DangerLevel int

const (
	Normal DangerLevel = 1
	Elite  DangerLevel = 2
	Boss   DangerLevel = 3
)

// DangerLevels returns every tier in ascending order.
func DangerLevels() []DangerLevel {
	return []DangerLevel{Normal, Elite, Boss}
}

// String returns the tier label.
func (d DangerLevel) String() string {
	switch d {
	case Normal:
		return "normal"
	case Elite:
		return "elite"
	case Boss:
		return "boss"
	default:
		return fmt.Sprintf("tier(%d)", int(d))
	}
}

// Valid reports whether d is Normal, Elite or Boss.
func (d DangerLevel) Valid() bool { return d >= Normal && d <= Boss }

// Template is one monster record from the monster pool. Templates are shared
// and never mutated; every fight gets its own Instance.
type Template struct {
	// ID defaults to the lower-cased, hyphenated Name.
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Health      float64       `yaml:"health"`
	// Armor is only used by the flat mitigation of duels; dungeon monsters
	// usually leave it at zero.
	Armor       float64       `yaml:"armor"`
	Type        string        `yaml:"type"`
	// Weakness is descriptive only.
	Weakness    string        `yaml:"weakness"`
	DangerLevel DangerLevel   `yaml:"danger_level"`
	Attacks     []combat.Move `yaml:"attacks"`
	LootTable   LootTable     `yaml:"loot_table"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff Name is non-empty, Health > 0, DangerLevel is
// 1..3, there is at least one attack, every attack has a valid type and
// non-negative damage, and the loot table is valid; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("monster template: name must not be empty")
	}
	if t.Health <= 0 {
		return fmt.Errorf("monster template %q: health must be > 0", t.Name)
	}
	if t.Armor < 0 {
		return fmt.Errorf("monster template %q: armor must be >= 0", t.Name)
	}
	if !t.DangerLevel.Valid() {
		return fmt.Errorf("monster template %q: danger_level must be 1, 2 or 3, got %d", t.Name, int(t.DangerLevel))
	}
	if len(t.Attacks) == 0 {
		return fmt.Errorf("monster template %q: at least one attack is required", t.Name)
	}
	for i, a := range t.Attacks {
		if a.Name == "" {
			return fmt.Errorf("monster template %q: attack[%d] must have a name", t.Name, i)
		}
		if !a.Type.Valid() {
			return fmt.Errorf("monster template %q: attack %q must have a type of Rock, Paper or Scissors", t.Name, a.Name)
		}
		if a.Damage < 0 {
			return fmt.Errorf("monster template %q: attack %q damage must be >= 0", t.Name, a.Name)
		}
	}
	if err := t.LootTable.Validate(); err != nil {
		return fmt.Errorf("monster template %q: %w", t.Name, err)
	}
	return nil
}

func (t *Template) normalize() {
	if t.ID == "" {
		t.ID = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t.Name)), " ", "-")
	}
}

// LoadTemplatesFromBytes parses a monster list from YAML or JSON bytes.
//
// Postcondition: Returns validated templates with IDs filled in, or an error
// naming the first invalid record.
func LoadTemplatesFromBytes(data []byte) ([]*Template, error) {
	var templates []*Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing monster list: %w", err)
	}
	for _, t := range templates {
		t.normalize()
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// LoadTemplates reads monsters from path. A file holds one monster list; a
// directory contributes every *.yaml, *.yml and *.json file in name order.
//
// Precondition: path must name a readable file or directory.
// Postcondition: Returns all templates or an error on the first read, parse or
// validation failure.
func LoadTemplates(path string) ([]*Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading monsters %q: %w", path, err)
	}
	if !info.IsDir() {
		return loadTemplateFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", path, err)
	}
	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		ts, err := loadTemplateFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		templates = append(templates, ts...)
	}
	return templates, nil
}

func loadTemplateFile(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	ts, err := LoadTemplatesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return ts, nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
