package combat

import "github.com/cory-johannsen/rpsdungeon/internal/game/rps"

// Exchange is the outcome of resolving one pair of moves.
type Exchange struct {
	// Advantage is the outcome from the player's perspective.
	Advantage rps.Advantage
	// PlayerDamage is the damage the player dealt to the enemy.
	PlayerDamage float64
	// EnemyDamage is the damage the player actually took.
	EnemyDamage float64
	// Flinched is true when the enemy skipped its retaliation.
	Flinched       bool
	EnemyDefeated  bool
	PlayerDefeated bool
	// Lines is the narration produced by the exchange, in order.
	Lines []string
}

// Resolver applies one exchange to both combatants in place.
//
// Precondition: player and enemy are non-nil; both moves carry a valid type and
// non-negative damage.
// Postcondition: Health of both combatants reflects the returned Exchange.
type Resolver interface {
	Resolve(player *Combatant, pm Move, enemy *Combatant, em Move) Exchange
}

// PercentMitigation reduces raw by armor percent.
//
// Postcondition: result is in [0, raw]. Armor below zero counts as zero and armor
// at or above 100 absorbs everything.
func PercentMitigation(raw, armor float64) float64 {
	if raw <= 0 {
		return 0
	}
	if armor < 0 {
		armor = 0
	}
	if armor >= 100 {
		return 0
	}
	v := raw * (1 - armor/100)
	if v > raw {
		return raw
	}
	return v
}

// FlatMitigation subtracts armor from raw.
//
// Postcondition: result >= 0.
func FlatMitigation(raw, armor float64) float64 {
	v := raw - armor
	if v < 0 {
		return 0
	}
	return v
}
