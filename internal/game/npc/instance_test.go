package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

func golem() *npc.Template {
	return &npc.Template{
		ID:          "golem",
		Name:        "Golem",
		Health:      50,
		Armor:       3,
		DangerLevel: npc.Boss,
		Attacks: []combat.Move{
			{Name: "Slam", Type: rps.Rock, Damage: 20},
			{Name: "Crush", Type: rps.Paper, Damage: 15},
		},
		LootTable: npc.LootTable{{Item: "Core", Chance: 1, Quantity: npc.Fixed(1)}},
	}
}

func TestNewInstance_DoesNotShareState(t *testing.T) {
	tmpl := golem()
	a := npc.NewInstance(tmpl)
	b := npc.NewInstance(tmpl)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 50.0, a.Combatant.Health)
	assert.Equal(t, 3.0, a.Combatant.ArmorRating)

	a.Combatant.ApplyDamage(30)
	assert.Equal(t, 50.0, b.Combatant.Health)
	assert.Equal(t, 50.0, tmpl.Health)

	a.Combatant.Moves[0].Damage = 999
	assert.Equal(t, 20.0, tmpl.Attacks[0].Damage)
}

func TestInstance_ChooseMove(t *testing.T) {
	inst := npc.NewInstance(golem())
	src := dice.NewScriptedSource([]int{1, 0}, nil)
	assert.Equal(t, "Crush", inst.ChooseMove(src).Name)
	assert.Equal(t, "Slam", inst.ChooseMove(src).Name)
}

func TestInstance_RollRewards(t *testing.T) {
	inst := npc.NewInstance(golem())
	rewards := inst.RollRewards(dice.NewSeededSource(5))
	require.Len(t, rewards, 1)
	assert.Equal(t, npc.Reward{Item: "Core", Quantity: 1}, rewards[0])
}
