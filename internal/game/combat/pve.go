package combat

import (
	"fmt"

	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

// PvE outcome constants.
const (
	SuperiorMultiplier = 1.75
	NeutralMultiplier  = 1.0
	WeakMultiplier     = 0.75
	// WeakPenalty scales enemy retaliation when the player picked the losing type.
	WeakPenalty = 1.25
	// FlinchChance is the probability the enemy skips retaliation on a neutral exchange.
	FlinchChance = 0.05
)

// PvEResolver resolves dungeon exchanges: both sides act every turn, a
// superior pick makes the enemy flinch and player armor is a percentage.
type PvEResolver struct {
	src dice.Source
}

// NewPvEResolver creates a PvEResolver drawing flinch rolls from src.
//
// Precondition: src must be non-nil.
func NewPvEResolver(src dice.Source) *PvEResolver {
	if src == nil {
		panic("combat: NewPvEResolver called with nil source")
	}
	return &PvEResolver{src: src}
}

// Resolve applies one PvE exchange.
//
// Postcondition: the enemy loses pm.Damage times the advantage multiplier; the
// player loses the percent-mitigated retaliation, which is zero on a flinch.
// Enemy defeat is narrated before player defeat and both flags may be set.
func (r *PvEResolver) Resolve(player *Combatant, pm Move, enemy *Combatant, em Move) Exchange {
	ex := Exchange{Advantage: rps.Resolve(pm.Type, em.Type)}

	var multiplier, retaliation float64
	switch ex.Advantage {
	case rps.Superior:
		multiplier = SuperiorMultiplier
		ex.Flinched = true
		ex.Lines = append(ex.Lines, fmt.Sprintf("Your %s counters %s! Enemy flinches!", pm.Type, em.Type))
	case rps.Weak:
		multiplier = WeakMultiplier
		retaliation = em.Damage * WeakPenalty
		ex.Lines = append(ex.Lines, fmt.Sprintf("Your %s is weak against %s!", pm.Type, em.Type))
	default:
		multiplier = NeutralMultiplier
		if dice.Chance(r.src, FlinchChance) {
			ex.Flinched = true
			ex.Lines = append(ex.Lines, "Enemy flinches!")
		} else {
			retaliation = em.Damage
		}
	}

	ex.PlayerDamage = pm.Damage * multiplier
	enemy.ApplyDamage(ex.PlayerDamage)
	ex.Lines = append(ex.Lines, fmt.Sprintf("You deal %s %s damage to %s!",
		FormatAmount(ex.PlayerDamage), pm.Type, enemy.Name))

	if retaliation > 0 {
		ex.EnemyDamage = PercentMitigation(retaliation, player.ArmorRating)
		player.ApplyDamage(ex.EnemyDamage)
		ex.Lines = append(ex.Lines, fmt.Sprintf("%s deals %s %s damage to you!",
			enemy.Name, FormatAmount(ex.EnemyDamage), em.Type))
	}

	if enemy.IsDefeated() {
		ex.EnemyDefeated = true
		ex.Lines = append(ex.Lines, fmt.Sprintf("%s is defeated!", enemy.Name))
	}
	if player.IsDefeated() {
		ex.PlayerDefeated = true
		ex.Lines = append(ex.Lines, "You have been defeated!")
	}
	return ex
}
