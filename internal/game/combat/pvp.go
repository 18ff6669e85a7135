package combat

import (
	"fmt"

	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

// PvPResolver resolves duel exchanges: only the winner of the type triangle
// deals damage, reduced by the defender's armor as a flat amount. A tie deals
// nothing.
type PvPResolver struct{}

// NewPvPResolver creates a PvPResolver.
func NewPvPResolver() *PvPResolver { return &PvPResolver{} }

// Resolve applies one PvP exchange.
//
// Postcondition: at most one side loses health. Player defeat is checked
// before enemy defeat and only one defeat flag is ever set.
func (r *PvPResolver) Resolve(player *Combatant, pm Move, enemy *Combatant, em Move) Exchange {
	ex := Exchange{Advantage: rps.Resolve(pm.Type, em.Type)}

	switch ex.Advantage {
	case rps.Superior:
		ex.PlayerDamage = FlatMitigation(pm.Damage, enemy.ArmorRating)
		enemy.ApplyDamage(ex.PlayerDamage)
		ex.Lines = append(ex.Lines, fmt.Sprintf("You attack %s with %s and deal %s damage!",
			enemy.Name, pm.Name, FormatAmount(ex.PlayerDamage)))
	case rps.Weak:
		ex.EnemyDamage = FlatMitigation(em.Damage, player.ArmorRating)
		player.ApplyDamage(ex.EnemyDamage)
		ex.Lines = append(ex.Lines, fmt.Sprintf("%s attacks you with %s and deals %s damage!",
			enemy.Name, em.Name, FormatAmount(ex.EnemyDamage)))
	default:
		ex.Lines = append(ex.Lines, "It's a draw! No damage dealt.")
	}

	switch {
	case player.IsDefeated():
		ex.PlayerDefeated = true
		ex.Lines = append(ex.Lines, "You have been defeated!")
	case enemy.IsDefeated():
		ex.EnemyDefeated = true
		ex.Lines = append(ex.Lines, fmt.Sprintf("You have defeated %s!", enemy.Name))
	}
	return ex
}
