package encounter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

func TestNewDirector_RequiresCollaborators(t *testing.T) {
	_, err := encounter.NewDirector(encounter.Options{})
	assert.Error(t, err)
}

func TestDirector_Start(t *testing.T) {
	floors := easyFloors()
	d := newDirector(t, floors, rockProfile())
	assert.False(t, d.Tick(), "no automatic step before start")

	require.NoError(t, d.Start())
	s := d.Snapshot()
	assert.Equal(t, encounter.EnemyTurn, s.Phase)
	assert.Equal(t, 1, s.FloorNumber)
	assert.Equal(t, floor.RoomA, s.Room)
	assert.Equal(t, 0, s.EnemyIndex)
	assert.Equal(t, 2, s.EnemiesLeft)
	assert.Equal(t, 100.0, s.Player.Health)
	assert.Equal(t, "Rat", s.Enemy.Name)
	assert.Equal(t, npc.Normal, s.Enemy.Danger)
	assert.Equal(t, "Fire", s.Enemy.Weakness)
	assert.Empty(t, s.LogTail)
	assert.Nil(t, s.PendingEnemyMove)
	assert.Nil(t, s.PendingPlayerMove)
	assert.Equal(t, []int{1}, floors.calls)

	assert.ErrorIs(t, d.Start(), encounter.ErrWrongPhase)
}

func TestDirector_Start_ConfigurationErrorIsReturned(t *testing.T) {
	floors := easyFloors()
	floors.err = &floor.ConfigurationError{Tier: npc.Boss, Reason: "no boss"}
	d := newDirector(t, floors, rockProfile())
	err := d.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, floor.ErrConfiguration))
}

func TestDirector_TurnSequence(t *testing.T) {
	d := newDirector(t, easyFloors(), rockProfile())
	require.NoError(t, d.Start())

	require.True(t, d.Tick())
	s := d.Snapshot()
	assert.Equal(t, encounter.PlayerTurn, s.Phase)
	require.NotNil(t, s.PendingEnemyMove)
	assert.Nil(t, s.PendingPlayerMove)
	assert.Equal(t, []string{"Enemy uses Snip (Scissors)!"}, s.LogTail)
	assert.False(t, d.Tick())

	assert.ErrorIs(t, d.SubmitPlayerMove(3), encounter.ErrInvalidMove)
	assert.Equal(t, encounter.PlayerTurn, d.Phase())

	require.NoError(t, d.SubmitPlayerMove(0))
	s = d.Snapshot()
	assert.Equal(t, encounter.ResolveTurn, s.Phase)
	require.NotNil(t, s.PendingEnemyMove)
	require.NotNil(t, s.PendingPlayerMove)
	assert.Equal(t, "War Maul", s.PendingPlayerMove.Name)
	assert.Equal(t, "You use War Maul (Rock)!", s.LogTail[1])

	require.NoError(t, d.ConfirmResolve())
	s = d.Snapshot()
	assert.Equal(t, encounter.RewardsPopup, s.Phase)
	assert.Nil(t, s.PendingEnemyMove)
	assert.Nil(t, s.PendingPlayerMove)
	assert.Equal(t, []npc.Reward{{Item: "Rat Tail", Quantity: 1}}, s.Rewards)
	assert.Equal(t, []inventory.Stack{{Item: "Rat Tail", Quantity: 1}}, s.Satchel)
	assert.Equal(t, 1, s.EnemiesDefeated)
	assert.Equal(t, 100.0, s.Player.Health)
	assert.Equal(t, 0.0, s.Enemy.Health)
	assert.Equal(t, []string{
		"Enemy uses Snip (Scissors)!",
		"You use War Maul (Rock)!",
		"Your Rock counters Scissors! Enemy flinches!",
		"You deal 35 Rock damage to Rat!",
		"Rat is defeated!",
	}, d.Log())
}

func TestDirector_WrongPhaseLeavesStateUntouched(t *testing.T) {
	d := newDirector(t, easyFloors(), rockProfile())
	require.NoError(t, d.Start())
	before := d.Snapshot()

	for name, op := range map[string]func() error{
		"submit":  func() error { return d.SubmitPlayerMove(0) },
		"resolve": d.ConfirmResolve,
		"popup":   d.ConfirmPopup,
		"restart": d.Restart,
	} {
		err := op()
		assert.ErrorIs(t, err, encounter.ErrWrongPhase, name)
	}
	assert.Equal(t, before, d.Snapshot())

	require.True(t, d.Tick())
	assert.ErrorIs(t, d.ConfirmResolve(), encounter.ErrWrongPhase)
	assert.ErrorIs(t, d.ConfirmPopup(), encounter.ErrWrongPhase)
	assert.Equal(t, encounter.PlayerTurn, d.Phase())
}

func TestDirector_ProgressesThroughRoomsAndFloors(t *testing.T) {
	floors := easyFloors()
	d := newDirector(t, floors, rockProfile())
	require.NoError(t, d.Start())

	type slot struct {
		floor int
		room  floor.RoomKey
		index int
		enemy string
	}
	want := []slot{
		{1, floor.RoomA, 0, "Rat"},
		{1, floor.RoomA, 1, "Rat"},
		{1, floor.RoomB, 0, "Knight"},
		{1, floor.RoomC, 0, "Dragon"},
		{2, floor.RoomA, 0, "Rat"},
	}
	for i, w := range want {
		s := d.Snapshot()
		assert.Equal(t, w.floor, s.FloorNumber, "step %d", i)
		assert.Equal(t, w.room, s.Room, "step %d", i)
		assert.Equal(t, w.index, s.EnemyIndex, "step %d", i)
		assert.Equal(t, w.enemy, s.Enemy.Name, "step %d", i)
		assert.Equal(t, encounter.EnemyTurn, s.Phase)
		assert.Empty(t, s.LogTail, "log cleared on entering an enemy")
		assert.Empty(t, s.Rewards)
		if i == len(want)-1 {
			break
		}
		playTurn(t, d)
		require.Equal(t, encounter.RewardsPopup, d.Phase())
		require.NoError(t, d.ConfirmPopup())
	}
	assert.Equal(t, []int{1, 2}, floors.calls)

	s := d.Snapshot()
	assert.Equal(t, 4, s.EnemiesDefeated)
	assert.Equal(t, []inventory.Stack{
		{Item: "Dragon Scale", Quantity: 2},
		{Item: "Rat Tail", Quantity: 2},
	}, s.Satchel)
}

func TestDirector_FloorErrorOnAdvanceLeavesStateUntouched(t *testing.T) {
	floors := easyFloors()
	floors.roomA = floors.roomA[:1]
	d := newDirector(t, floors, rockProfile())
	require.NoError(t, d.Start())
	for i := 0; i < 2; i++ {
		playTurn(t, d)
		require.NoError(t, d.ConfirmPopup())
	}
	playTurn(t, d)
	require.Equal(t, floor.RoomC, d.Snapshot().Room)

	floors.err = &floor.ConfigurationError{Tier: npc.Boss, Reason: "gone"}
	before := d.Snapshot()
	err := d.ConfirmPopup()
	assert.ErrorIs(t, err, floor.ErrConfiguration)
	assert.Equal(t, before, d.Snapshot())
}

// brute one-shots the player with a paper move that beats the player's rock.
func bruteFloors() *stubFloors {
	f := easyFloors()
	f.roomA = []*npc.Template{monster("Brute", npc.Normal, 10,
		combat.Move{Name: "Crush", Type: rps.Paper, Damage: 200},
		npc.LootTable{{Item: "Club", Chance: 1, Quantity: npc.Fixed(1)}})}
	return f
}

func TestDirector_DoubleDefeatIsGameOverWithRewards(t *testing.T) {
	d := newDirector(t, bruteFloors(), rockProfile())
	require.NoError(t, d.Start())
	playTurn(t, d)

	s := d.Snapshot()
	assert.Equal(t, encounter.GameOver, s.Phase)
	assert.Equal(t, 0.0, s.Player.Health)
	assert.Equal(t, 1, s.EnemiesDefeated)
	assert.Equal(t, []inventory.Stack{{Item: "Club", Quantity: 1}}, s.Satchel)
	log := d.Log()
	assert.Equal(t, "Brute is defeated!", log[len(log)-2])
	assert.Equal(t, "You have been defeated!", log[len(log)-1])

	assert.False(t, d.Tick())
	assert.ErrorIs(t, d.ConfirmPopup(), encounter.ErrWrongPhase)

	sum := d.Summary()
	assert.Equal(t, encounter.OutcomeDefeated, sum.Outcome)
	assert.Equal(t, s.RunID, sum.RunID)
	assert.Equal(t, "Aria", sum.PlayerName)
	assert.Equal(t, 1, sum.EnemiesDefeated)
}

func TestDirector_RestartResetsRun(t *testing.T) {
	floors := bruteFloors()
	d := newDirector(t, floors, rockProfile())
	require.NoError(t, d.Start())
	first := d.Snapshot().RunID
	playTurn(t, d)
	require.Equal(t, encounter.GameOver, d.Phase())

	require.NoError(t, d.Restart())
	s := d.Snapshot()
	assert.NotEqual(t, first, s.RunID)
	assert.Equal(t, encounter.EnemyTurn, s.Phase)
	assert.Equal(t, 1, s.FloorNumber)
	assert.Equal(t, floor.RoomA, s.Room)
	assert.Equal(t, 0, s.EnemyIndex)
	assert.Equal(t, s.Player.MaxHealth, s.Player.Health)
	assert.Equal(t, 10.0, s.Enemy.Health)
	assert.Empty(t, s.Satchel)
	assert.Equal(t, 0, s.EnemiesDefeated)
	assert.Empty(t, d.Log())
	assert.Equal(t, []int{1, 1}, floors.calls, "restart generates a brand-new floor")
	assert.Equal(t, encounter.OutcomeInProgress, d.Summary().Outcome)
}

func TestDirector_RestartGeneratesFreshFloorFromGenerator(t *testing.T) {
	tmpl := func(name string, tier npc.DangerLevel) *npc.Template {
		return monster(name, tier, 10, combat.Move{Name: "Crush", Type: rps.Paper, Damage: 500}, nil)
	}
	pool := npc.NewPool([]*npc.Template{
		tmpl("a1", npc.Normal), tmpl("a2", npc.Normal), tmpl("a3", npc.Normal),
		tmpl("b1", npc.Elite), tmpl("c1", npc.Boss),
	})
	gen := floor.NewGenerator(pool, dice.NewSeededSource(11), nil)
	d := newDirector(t, gen, rockProfile())
	require.NoError(t, d.Start())
	playTurn(t, d)
	require.Equal(t, encounter.GameOver, d.Phase())
	require.NoError(t, d.Restart())
	assert.Equal(t, encounter.EnemyTurn, d.Phase())
	assert.Equal(t, 1, d.Snapshot().FloorNumber)
}

func TestDirector_LogTailIsBoundedButLogIsNot(t *testing.T) {
	f := easyFloors()
	f.roomA = []*npc.Template{monster("Wall", npc.Normal, 10000, combat.Move{Name: "Lean", Type: rps.Rock, Damage: 1}, nil)}
	d := newDirector(t, f, rockProfile())
	require.NoError(t, d.Start())
	for i := 0; i < 3; i++ {
		playTurn(t, d)
		require.Equal(t, encounter.EnemyTurn, d.Phase())
	}
	assert.Len(t, d.Log(), 12)
	tail := d.Snapshot().LogTail
	assert.Len(t, tail, encounter.DefaultLogView)
	assert.Equal(t, "Wall deals 0.95 Rock damage to you!", tail[len(tail)-1])
}

func TestDirector_SnapshotIsACopy(t *testing.T) {
	d := newDirector(t, easyFloors(), rockProfile())
	require.NoError(t, d.Start())
	require.True(t, d.Tick())
	s := d.Snapshot()
	s.Player.Moves[0].Damage = 0
	s.PendingEnemyMove.Damage = 0
	again := d.Snapshot()
	assert.Equal(t, 20.0, again.Player.Moves[0].Damage)
	assert.Equal(t, 8.0, again.PendingEnemyMove.Damage)
}

func TestProperty_Director_PhaseInvariants(t *testing.T) {
	pool := npc.NewPool([]*npc.Template{
		monster("rat", npc.Normal, 15, combat.Move{Name: "Bite", Type: rps.Scissors, Damage: 6}, npc.LootTable{
			{Item: "Tail", Chance: 0.5, Quantity: npc.Quantity{Min: 1, Max: 3}},
		}),
		monster("bat", npc.Normal, 12, combat.Move{Name: "Wing", Type: rps.Paper, Damage: 4}, nil),
		monster("knight", npc.Elite, 40, combat.Move{Name: "Bash", Type: rps.Rock, Damage: 12}, nil),
		monster("dragon", npc.Boss, 80, combat.Move{Name: "Flame", Type: rps.Paper, Damage: 18}, nil),
	})
	profile := rockProfile()
	spell := inventory.SpellDef{ID: "cut", Name: "Cut", Type: rps.Scissors, Damage: 14}
	profile.Spell = &spell

	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		d, err := encounter.NewDirector(encounter.Options{
			Player:   encounter.ProfilePlayer(profile, character.DefaultBase()),
			Floors:   floor.NewGenerator(pool, dice.NewSeededSource(seed), nil),
			Resolver: combat.NewPvEResolver(dice.NewSeededSource(seed + 1)),
			Source:   dice.NewSeededSource(seed + 2),
		})
		require.NoError(rt, err)
		require.NoError(rt, d.Start())

		steps := rapid.IntRange(1, 120).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before := d.Snapshot()
			op := rapid.IntRange(0, 5).Draw(rt, "op")
			var opErr error
			switch op {
			case 0:
				d.Tick()
			case 1:
				opErr = d.SubmitPlayerMove(rapid.IntRange(-1, 2).Draw(rt, "move"))
			case 2:
				opErr = d.ConfirmResolve()
			case 3:
				opErr = d.ConfirmPopup()
			case 4:
				opErr = d.Restart()
			case 5:
				d.Tick()
				opErr = d.SubmitPlayerMove(0)
			}
			after := d.Snapshot()
			if opErr != nil && op != 5 {
				assert.Equal(rt, before, after, "failed operation must not change state")
			}

			switch after.Phase {
			case encounter.EnemyTurn:
				assert.Nil(rt, after.PendingEnemyMove)
				assert.Nil(rt, after.PendingPlayerMove)
			case encounter.PlayerTurn:
				assert.NotNil(rt, after.PendingEnemyMove)
				assert.Nil(rt, after.PendingPlayerMove)
			case encounter.ResolveTurn:
				assert.NotNil(rt, after.PendingEnemyMove)
				assert.NotNil(rt, after.PendingPlayerMove)
			case encounter.RewardsPopup:
				assert.Equal(rt, 0.0, after.Enemy.Health)
			case encounter.GameOver:
				assert.Equal(rt, 0.0, after.Player.Health)
			default:
				rt.Fatalf("unexpected phase %s", after.Phase)
			}
			assert.LessOrEqual(rt, len(after.LogTail), encounter.DefaultLogView)
			assert.GreaterOrEqual(rt, after.FloorNumber, 1)
			assert.Greater(rt, after.EnemiesLeft, 0)
		}
	})
}
