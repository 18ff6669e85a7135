package npc

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
)

// Instance is a live enemy built from a Template for one fight.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// Template is the shared record this instance was built from.
	Template *Template
	// Combatant carries the instance's own mutable health.
	Combatant *combat.Combatant
}

// NewInstance creates a live enemy at full health from tmpl.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: Combatant.Health equals tmpl.Health; tmpl is not retained
// mutably.
func NewInstance(tmpl *Template) *Instance {
	return &Instance{
		ID:        uuid.NewString(),
		Template:  tmpl,
		Combatant: combat.NewCombatant(tmpl.Name, tmpl.Health, tmpl.Armor, tmpl.Attacks),
	}
}

// ChooseMove picks one of the instance's attacks uniformly at random.
func (i *Instance) ChooseMove(src dice.Source) combat.Move {
	return dice.Pick(src, i.Combatant.Moves)
}

// RollRewards rolls this instance's loot table.
func (i *Instance) RollRewards(src dice.Source) []Reward {
	return RollRewards(i.Template.LootTable, src)
}
