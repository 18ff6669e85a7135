// Package floor generates dungeon floors: three rooms of increasing danger
// populated from the monster pool.
package floor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
)

// Room sizes. Room C always holds exactly one boss.
const (
	RoomAMin = 2
	RoomAMax = 5
	RoomBMin = 1
	RoomBMax = 3
)

// RoomKey names a room within a floor.
type RoomKey string

const (
	RoomA RoomKey = "Room A"
	RoomB RoomKey = "Room B"
	RoomC RoomKey = "Room C"
)

// RoomKeys returns the rooms in visiting order.
func RoomKeys() []RoomKey { return []RoomKey{RoomA, RoomB, RoomC} }

// Next returns the room after k on the same floor.
//
// Postcondition: ok is false for RoomC, meaning the floor is cleared.
func (k RoomKey) Next() (RoomKey, bool) {
	switch k {
	case RoomA:
		return RoomB, true
	case RoomB:
		return RoomC, true
	default:
		return "", false
	}
}

// Tier returns the danger level the room draws from.
func (k RoomKey) Tier() npc.DangerLevel {
	switch k {
	case RoomA:
		return npc.Normal
	case RoomB:
		return npc.Elite
	default:
		return npc.Boss
	}
}

// Room is an ordered list of monsters to fight.
type Room struct {
	Key     RoomKey
	Tier    npc.DangerLevel
	Enemies []*npc.Template
}

// Floor is three rooms generated together.
type Floor struct {
	Number int
	Rooms  [3]Room
}

// Room returns the room with the given key.
//
// Precondition: key is RoomA, RoomB or RoomC.
func (f *Floor) Room(key RoomKey) *Room {
	for i := range f.Rooms {
		if f.Rooms[i].Key == key {
			return &f.Rooms[i]
		}
	}
	panic(fmt.Sprintf("floor: unknown room %q", key))
}

// ErrConfiguration marks monster pools that cannot produce a floor.
var ErrConfiguration = errors.New("floor: invalid monster pool configuration")

// ConfigurationError reports the tier that made generation impossible. It is
// fatal and not retryable.
type ConfigurationError struct {
	Tier   npc.DangerLevel
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("floor: %s tier (danger level %d): %s", e.Tier, int(e.Tier), e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Validate checks that every tier a floor draws from is populated.
//
// Postcondition: returns a *ConfigurationError for the first empty tier,
// checking the boss tier first.
func Validate(pool *npc.Pool) error {
	if pool == nil {
		return &ConfigurationError{Tier: npc.Boss, Reason: "no monster pool"}
	}
	if len(pool.Tier(npc.Boss)) == 0 {
		return &ConfigurationError{Tier: npc.Boss, Reason: "no boss monsters in the pool; a floor must always contain a boss"}
	}
	if len(pool.Tier(npc.Normal)) == 0 {
		return &ConfigurationError{Tier: npc.Normal, Reason: "no normal monsters in the pool"}
	}
	if len(pool.Tier(npc.Elite)) == 0 {
		return &ConfigurationError{Tier: npc.Elite, Reason: "no elite monsters in the pool"}
	}
	return nil
}

// Generator builds floors from a monster pool.
type Generator struct {
	pool   *npc.Pool
	src    dice.Source
	logger *zap.Logger
}

// NewGenerator creates a Generator. A nil logger is replaced with a no-op.
//
// Precondition: pool and src must be non-nil.
func NewGenerator(pool *npc.Pool, src dice.Source, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{pool: pool, src: src, logger: logger}
}

// Generate draws a new floor. Room A holds RoomAMin..RoomAMax normal monsters
// and Room B RoomBMin..RoomBMax elites, both drawn uniformly with replacement.
// Room C holds one boss.
//
// Postcondition: returns a floor with non-empty rooms, or a *ConfigurationError
// and no draws made.
func (g *Generator) Generate(number int) (*Floor, error) {
	if err := Validate(g.pool); err != nil {
		g.logger.Error("floor generation failed", zap.Int("floor", number), zap.Error(err))
		return nil, err
	}

	f := &Floor{Number: number}
	f.Rooms[0] = g.room(RoomA, dice.IntRange(g.src, RoomAMin, RoomAMax))
	f.Rooms[1] = g.room(RoomB, dice.IntRange(g.src, RoomBMin, RoomBMax))
	f.Rooms[2] = g.room(RoomC, 1)

	g.logger.Info("floor generated",
		zap.Int("floor", number),
		zap.Int("room_a", len(f.Rooms[0].Enemies)),
		zap.Int("room_b", len(f.Rooms[1].Enemies)),
		zap.String("boss", f.Rooms[2].Enemies[0].Name),
	)
	return f, nil
}

func (g *Generator) room(key RoomKey, n int) Room {
	tier := key.Tier()
	candidates := g.pool.Tier(tier)
	enemies := make([]*npc.Template, n)
	for i := range enemies {
		enemies[i] = dice.Pick(g.src, candidates)
	}
	return Room{Key: key, Tier: tier, Enemies: enemies}
}
