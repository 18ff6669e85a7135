package character

import (
	"errors"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
)

// Base holds the stats every character starts with before equipment.
type Base struct {
	Health  float64
	Attack  float64
	Defense float64
}

// DefaultBase returns health 100, attack 10 and defense 5.
func DefaultBase() Base {
	return Base{Health: 100, Attack: 10, Defense: 5}
}

// Player is a profile turned into a combatant plus its display stats.
type Player struct {
	Combatant *combat.Combatant
	// Attack and Defense are display stats; combat uses move damage and
	// ArmorRating.
	Attack  float64
	Defense float64
	Weapon  string
	Armor   string
	Spell   string
}

// BuildPlayer derives a fresh player from a profile.
//
// Health is base health. Attack is base attack plus weapon damage and defense
// is base defense plus armor value. The armor value is also the armor rating.
// The spell, when known, is the first move and the weapon is always the last.
//
// Precondition: p must be non-nil and valid; base.Health > 0.
// Postcondition: Returns a Player at full health, or a non-nil error.
func BuildPlayer(p *Profile, base Base) (*Player, error) {
	if p == nil {
		return nil, errors.New("profile must not be nil")
	}
	if base.Health <= 0 {
		return nil, errors.New("base health must be > 0")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	moves := make([]combat.Move, 0, 2)
	if p.Spell != nil {
		moves = append(moves, p.Spell.AsMove())
	}
	moves = append(moves, p.Weapon.AsMove())

	name := p.Name
	if name == "" {
		name = "You"
	}
	return &Player{
		Combatant: combat.NewCombatant(name, base.Health, p.Armor.ArmorValue, moves),
		Attack:    base.Attack + p.Weapon.Damage,
		Defense:   base.Defense + p.Armor.ArmorValue,
		Weapon:    p.Weapon.Name,
		Armor:     p.Armor.Name,
		Spell:     p.SpellName(),
	}, nil
}
