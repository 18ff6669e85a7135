// Package encounter sequences fights: the dungeon Director walks enemies, rooms
// and floors, and the Duel runs a single PvP fight. Both are driven one step
// per input event and are not safe for concurrent use.
package encounter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
)

// DefaultLogView is the number of log lines a snapshot carries.
const DefaultLogView = 5

// ErrWrongPhase is returned when an entry point is called in a phase that does
// not accept it. The state is left untouched.
var ErrWrongPhase = errors.New("encounter: operation not valid in current phase")

// ErrInvalidMove is returned for a move index outside the player's moves.
var ErrInvalidMove = errors.New("encounter: invalid move")

// Phase is the turn state of an encounter.
type Phase int

const (
	EnemyTurn Phase = iota
	PlayerTurn
	ResolveTurn
	RewardsPopup
	EnemyDefeated
	GameOver
)

// String returns the phase label.
func (p Phase) String() string {
	switch p {
	case EnemyTurn:
		return "enemy_turn"
	case PlayerTurn:
		return "player_turn"
	case ResolveTurn:
		return "resolve_turn"
	case RewardsPopup:
		return "rewards_popup"
	case EnemyDefeated:
		return "enemy_defeated"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func wrongPhase(op string, p Phase) error {
	return fmt.Errorf("%s during %s: %w", op, p, ErrWrongPhase)
}

// Mode selects the rule set of a game.
type Mode int

const (
	ModePvE Mode = iota
	ModePvP
)

// String returns "pve" or "pvp".
func (m Mode) String() string {
	if m == ModePvP {
		return "pvp"
	}
	return "pve"
}

// ParseMode parses "pve" or "pvp" case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pve", "dungeon":
		return ModePvE, nil
	case "pvp", "duel":
		return ModePvP, nil
	default:
		return 0, fmt.Errorf("encounter: unknown mode %q", s)
	}
}

// Game is the surface frontends drive. Both Director and Duel implement it.
type Game interface {
	Start() error
	// Tick performs the automatic step, if any, and reports whether one ran.
	Tick() bool
	SubmitPlayerMove(i int) error
	ConfirmResolve() error
	ConfirmPopup() error
	Restart() error
	Snapshot() Snapshot
	Log() []string
	Summary() RunSummary
}

// PlayerFactory builds a fresh player at full health.
type PlayerFactory func() (*character.Player, error)

// ProfilePlayer returns a PlayerFactory deriving players from p.
func ProfilePlayer(p *character.Profile, base character.Base) PlayerFactory {
	return func() (*character.Player, error) {
		return character.BuildPlayer(p, base)
	}
}

// FloorSource generates floors. *floor.Generator satisfies it.
type FloorSource interface {
	Generate(number int) (*floor.Floor, error)
}

// CombatantView is a read-only copy of a combatant.
type CombatantView struct {
	Name        string
	Health      float64
	MaxHealth   float64
	ArmorRating float64
	Moves       []combat.Move
}

// PlayerView adds the player's display stats.
type PlayerView struct {
	CombatantView
	Attack    float64
	Defense   float64
	Weapon    string
	ArmorName string
	Spell     string
}

// EnemyView adds the enemy's descriptive record fields.
type EnemyView struct {
	CombatantView
	Type     string
	Weakness string
	Danger   npc.DangerLevel
}

// Snapshot is a read-only copy of an encounter for rendering.
type Snapshot struct {
	Mode        Mode
	RunID       uuid.UUID
	Phase       Phase
	FloorNumber int
	Room        floor.RoomKey
	EnemyIndex  int
	// EnemiesLeft counts the current enemy and those after it in the room.
	EnemiesLeft       int
	Player            PlayerView
	Enemy             EnemyView
	PendingEnemyMove  *combat.Move
	PendingPlayerMove *combat.Move
	LogTail           []string
	Rewards           []npc.Reward
	Satchel           []inventory.Stack
	EnemiesDefeated   int
	Finished          bool
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeDefeated   Outcome = "defeated"
	OutcomeVictory    Outcome = "victory"
)

// RunSummary is the record kept in run history.
type RunSummary struct {
	RunID           uuid.UUID
	Mode            Mode
	PlayerName      string
	FloorNumber     int
	Room            floor.RoomKey
	EnemiesDefeated int
	Loot            []inventory.Stack
	Outcome         Outcome
}

func viewOf(c *combat.Combatant) CombatantView {
	if c == nil {
		return CombatantView{}
	}
	moves := make([]combat.Move, len(c.Moves))
	copy(moves, c.Moves)
	return CombatantView{
		Name:        c.Name,
		Health:      c.DisplayHealth(),
		MaxHealth:   c.MaxHealth,
		ArmorRating: c.ArmorRating,
		Moves:       moves,
	}
}

func playerView(p *character.Player) PlayerView {
	if p == nil {
		return PlayerView{}
	}
	return PlayerView{
		CombatantView: viewOf(p.Combatant),
		Attack:        p.Attack,
		Defense:       p.Defense,
		Weapon:        p.Weapon,
		ArmorName:     p.Armor,
		Spell:         p.Spell,
	}
}

func copyMove(m *combat.Move) *combat.Move {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
