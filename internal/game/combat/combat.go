// Package combat implements exchange resolution for the dungeon: moves,
// combatants, the combat log and the PvE and PvP resolver strategies.
package combat

import (
	"strconv"

	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

// Move is one selectable action. Moves are immutable once defined.
type Move struct {
	Name        string       `yaml:"name"`
	Type        rps.MoveType `yaml:"type"`
	Damage      float64      `yaml:"damage"`
	Description string       `yaml:"description,omitempty"`
}

// Combatant is one side of an exchange.
//
// Invariant: Health <= MaxHealth after Restore; Health may be negative after a
// lethal exchange, IsDefeated decides defeat.
type Combatant struct {
	Name      string
	Health    float64
	MaxHealth float64
	// ArmorRating is a percentage in PvE and a flat reduction in PvP.
	ArmorRating float64
	Moves       []Move
}

// NewCombatant returns a Combatant at full health.
//
// Precondition: maxHealth > 0.
func NewCombatant(name string, maxHealth, armor float64, moves []Move) *Combatant {
	if maxHealth <= 0 {
		panic("combat: NewCombatant called with maxHealth <= 0")
	}
	ms := make([]Move, len(moves))
	copy(ms, moves)
	return &Combatant{
		Name:        name,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		ArmorRating: armor,
		Moves:       ms,
	}
}

// IsDefeated reports whether Health has reached zero or below.
func (c *Combatant) IsDefeated() bool { return c.Health <= 0 }

// ApplyDamage subtracts amount from Health.
//
// Precondition: amount >= 0.
func (c *Combatant) ApplyDamage(amount float64) {
	if amount < 0 {
		panic("combat: ApplyDamage called with negative amount")
	}
	c.Health -= amount
}

// Restore resets Health to MaxHealth.
func (c *Combatant) Restore() { c.Health = c.MaxHealth }

// DisplayHealth returns Health floored at zero.
func (c *Combatant) DisplayHealth() float64 {
	if c.Health < 0 {
		return 0
	}
	return c.Health
}

// Move returns the move at index i.
//
// Postcondition: ok is false when i is out of range.
func (c *Combatant) Move(i int) (Move, bool) {
	if i < 0 || i >= len(c.Moves) {
		return Move{}, false
	}
	return c.Moves[i], true
}

// FormatAmount renders a damage or health value without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
