package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

func monster(name string, tier npc.DangerLevel, health float64, move combat.Move, loot npc.LootTable) *npc.Template {
	return &npc.Template{
		ID:          name,
		Name:        name,
		Health:      health,
		Type:        "Beast",
		Weakness:    "Fire",
		DangerLevel: tier,
		Attacks:     []combat.Move{move},
		LootTable:   loot,
	}
}

var snip = combat.Move{Name: "Snip", Type: rps.Scissors, Damage: 8}

// stubFloors returns the same room layout for every floor and records calls.
type stubFloors struct {
	roomA, roomB, roomC []*npc.Template
	calls              []int
	err                error
}

func (s *stubFloors) Generate(n int) (*floor.Floor, error) {
	s.calls = append(s.calls, n)
	if s.err != nil {
		return nil, s.err
	}
	f := &floor.Floor{Number: n}
	f.Rooms[0] = floor.Room{Key: floor.RoomA, Tier: npc.Normal, Enemies: s.roomA}
	f.Rooms[1] = floor.Room{Key: floor.RoomB, Tier: npc.Elite, Enemies: s.roomB}
	f.Rooms[2] = floor.Room{Key: floor.RoomC, Tier: npc.Boss, Enemies: s.roomC}
	return f, nil
}

// easyFloors holds weak scissors-wielding monsters a rock weapon one-shots.
func easyFloors() *stubFloors {
	tail := npc.LootTable{{Item: "Rat Tail", Chance: 1, Quantity: npc.Fixed(1)}}
	return &stubFloors{
		roomA: []*npc.Template{
			monster("Rat", npc.Normal, 10, snip, tail),
			monster("Rat", npc.Normal, 10, snip, tail),
		},
		roomB: []*npc.Template{monster("Knight", npc.Elite, 10, snip, nil)},
		roomC: []*npc.Template{monster("Dragon", npc.Boss, 10, snip, npc.LootTable{
			{Item: "Dragon Scale", Chance: 1, Quantity: npc.Quantity{Min: 2, Max: 2}},
		})},
	}
}

func rockProfile() *character.Profile {
	return &character.Profile{
		Name:       "Aria",
		Ascendancy: inventory.Ascendancy{ID: "ember", Name: "Ember Born"},
		Weapon:     inventory.WeaponDef{ID: "maul", Name: "War Maul", Type: rps.Rock, Damage: 20},
		Armor:      inventory.ArmorDef{ID: "vest", Name: "Leather Vest", ArmorValue: 5},
	}
}

func newDirector(t *testing.T, floors encounter.FloorSource, p *character.Profile) *encounter.Director {
	t.Helper()
	d, err := encounter.NewDirector(encounter.Options{
		Player:   encounter.ProfilePlayer(p, character.DefaultBase()),
		Floors:   floors,
		Resolver: combat.NewPvEResolver(dice.NewScriptedSource(nil, []float64{0.99})),
		Source:   dice.NewSeededSource(3),
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return d
}

// playTurn runs enemy pick, player pick of move 0 and resolution.
func playTurn(t *testing.T, g encounter.Game) {
	t.Helper()
	require.True(t, g.Tick())
	require.NoError(t, g.SubmitPlayerMove(0))
	require.NoError(t, g.ConfirmResolve())
}
