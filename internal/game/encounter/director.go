package encounter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
	"github.com/cory-johannsen/rpsdungeon/internal/game/npc"
)

// Options configures a Director.
type Options struct {
	Player   PlayerFactory
	Floors   FloorSource
	Resolver combat.Resolver
	// Source drives enemy move picks and loot rolls.
	Source dice.Source
	Logger *zap.Logger
	// LogView is the snapshot log length; zero means DefaultLogView.
	LogView int
}

// Director runs the dungeon: enemy turn, player turn, resolve, then rewards or
// game over, advancing enemy by enemy through rooms A, B and C and on to a
// freshly generated floor.
type Director struct {
	opts    Options
	logger  *zap.Logger
	started bool

	runID       uuid.UUID
	phase       Phase
	floor       *floor.Floor
	floorNumber int
	room        floor.RoomKey
	enemyIndex  int

	player *character.Player
	enemy  *npc.Instance

	pendingEnemy  *combat.Move
	pendingPlayer *combat.Move

	log             combat.Log
	rewards         []npc.Reward
	satchel         *inventory.Satchel
	enemiesDefeated int
}

// NewDirector creates a Director. Call Start before any other entry point.
//
// Precondition: Player, Floors, Resolver and Source must be non-nil.
func NewDirector(opts Options) (*Director, error) {
	if opts.Player == nil || opts.Floors == nil || opts.Resolver == nil || opts.Source == nil {
		return nil, errors.New("encounter: NewDirector requires Player, Floors, Resolver and Source")
	}
	if opts.LogView <= 0 {
		opts.LogView = DefaultLogView
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Director{opts: opts, logger: logger, satchel: inventory.NewSatchel()}, nil
}

// Start begins a run on floor 1, Room A, against the first enemy.
//
// Postcondition: on success the phase is EnemyTurn with a fresh player, a fresh
// floor, an empty log and an empty satchel. A floor generation error is a
// fatal configuration error and is returned unchanged.
func (d *Director) Start() error {
	if d.started {
		return wrongPhase("start", d.phase)
	}
	return d.reset("start")
}

// Restart discards the run and starts a new one. It is only valid in GameOver.
func (d *Director) Restart() error {
	if !d.started || d.phase != GameOver {
		return wrongPhase("restart", d.phase)
	}
	return d.reset("restart")
}

func (d *Director) reset(op string) error {
	player, err := d.opts.Player()
	if err != nil {
		return fmt.Errorf("encounter: %s: building player: %w", op, err)
	}
	f, err := d.opts.Floors.Generate(1)
	if err != nil {
		return fmt.Errorf("encounter: %s: %w", op, err)
	}

	d.started = true
	d.runID = uuid.New()
	d.player = player
	d.floor = f
	d.floorNumber = 1
	d.room = floor.RoomA
	d.enemyIndex = 0
	d.satchel.Clear()
	d.enemiesDefeated = 0
	d.enterEnemy()

	d.logger.Info("run started",
		zap.String("run_id", d.runID.String()),
		zap.String("player", player.Combatant.Name),
	)
	return nil
}

// enterEnemy spawns the enemy at the current slot and clears per-fight state.
func (d *Director) enterEnemy() {
	tmpl := d.floor.Room(d.room).Enemies[d.enemyIndex]
	d.enemy = npc.NewInstance(tmpl)
	d.pendingEnemy = nil
	d.pendingPlayer = nil
	d.rewards = nil
	d.log.Clear()
	d.setPhase(EnemyTurn)
}

func (d *Director) setPhase(p Phase) {
	if d.phase != p {
		d.logger.Debug("phase transition",
			zap.String("run_id", d.runID.String()),
			zap.Stringer("from", d.phase),
			zap.Stringer("to", p),
		)
	}
	d.phase = p
}

// Tick performs the automatic enemy move pick.
//
// Postcondition: returns true iff the phase was EnemyTurn, in which case the
// enemy move is pending and the phase is PlayerTurn.
func (d *Director) Tick() bool {
	if !d.started || d.phase != EnemyTurn {
		return false
	}
	m := d.enemy.ChooseMove(d.opts.Source)
	d.pendingEnemy = &m
	d.log.Appendf("Enemy uses %s (%s)!", m.Name, m.Type)
	d.setPhase(PlayerTurn)
	return true
}

// SubmitPlayerMove selects the player's move by index. Only valid in PlayerTurn.
//
// Postcondition: on success the phase is ResolveTurn; on error nothing changes.
func (d *Director) SubmitPlayerMove(i int) error {
	if !d.started || d.phase != PlayerTurn {
		return wrongPhase("submit move", d.phase)
	}
	m, ok := d.player.Combatant.Move(i)
	if !ok {
		return fmt.Errorf("move %d of %d: %w", i+1, len(d.player.Combatant.Moves), ErrInvalidMove)
	}
	d.pendingPlayer = &m
	d.log.Appendf("You use %s (%s)!", m.Name, m.Type)
	d.setPhase(ResolveTurn)
	return nil
}

// ConfirmResolve resolves the pending moves. Only valid in ResolveTurn.
//
// Postcondition: pending moves are cleared. Rewards are rolled whenever the
// enemy is defeated. The phase is GameOver if the player is defeated, which
// takes precedence, RewardsPopup if only the enemy is, and EnemyTurn otherwise.
func (d *Director) ConfirmResolve() error {
	if !d.started || d.phase != ResolveTurn {
		return wrongPhase("resolve", d.phase)
	}
	ex := d.opts.Resolver.Resolve(d.player.Combatant, *d.pendingPlayer, d.enemy.Combatant, *d.pendingEnemy)
	d.log.Append(ex.Lines...)
	d.pendingEnemy = nil
	d.pendingPlayer = nil

	d.logger.Debug("exchange resolved",
		zap.String("run_id", d.runID.String()),
		zap.Stringer("advantage", ex.Advantage),
		zap.Float64("dealt", ex.PlayerDamage),
		zap.Float64("taken", ex.EnemyDamage),
		zap.Bool("flinched", ex.Flinched),
	)

	if ex.EnemyDefeated {
		d.enemiesDefeated++
		d.rewards = d.enemy.RollRewards(d.opts.Source)
		for _, r := range d.rewards {
			if _, err := d.satchel.Add(r.Item, r.Quantity); err != nil {
				d.logger.Warn("dropping reward", zap.String("item", r.Item), zap.Error(err))
			}
		}
	}

	switch {
	case ex.PlayerDefeated:
		d.setPhase(GameOver)
		d.logger.Info("run over",
			zap.String("run_id", d.runID.String()),
			zap.Int("floor", d.floorNumber),
			zap.Int("enemies_defeated", d.enemiesDefeated),
		)
	case ex.EnemyDefeated:
		d.setPhase(RewardsPopup)
	default:
		d.setPhase(EnemyTurn)
	}
	return nil
}

// ConfirmPopup dismisses the rewards and advances to the next enemy, the next
// room or a newly generated floor. Only valid in RewardsPopup.
//
// Postcondition: on success the phase is EnemyTurn with an empty log; on error
// nothing changes.
func (d *Director) ConfirmPopup() error {
	if !d.started || d.phase != RewardsPopup {
		return wrongPhase("confirm popup", d.phase)
	}

	f, number, room, index := d.floor, d.floorNumber, d.room, d.enemyIndex+1
	if index >= len(f.Room(room).Enemies) {
		index = 0
		next, ok := room.Next()
		if !ok {
			nf, err := d.opts.Floors.Generate(number + 1)
			if err != nil {
				return fmt.Errorf("encounter: entering floor %d: %w", number+1, err)
			}
			f, number, next = nf, number+1, floor.RoomA
			d.logger.Info("floor cleared",
				zap.String("run_id", d.runID.String()),
				zap.Int("next_floor", number),
			)
		}
		room = next
	}

	d.floor, d.floorNumber, d.room, d.enemyIndex = f, number, room, index
	d.enterEnemy()
	return nil
}

// Phase returns the current phase.
func (d *Director) Phase() Phase { return d.phase }

// Log returns the full combat log since the current enemy was entered.
func (d *Director) Log() []string { return d.log.Entries() }

// Snapshot returns a read-only copy of the state.
func (d *Director) Snapshot() Snapshot {
	s := Snapshot{
		Mode:              ModePvE,
		RunID:             d.runID,
		Phase:             d.phase,
		FloorNumber:       d.floorNumber,
		Room:              d.room,
		EnemyIndex:        d.enemyIndex,
		Player:            playerView(d.player),
		PendingEnemyMove:  copyMove(d.pendingEnemy),
		PendingPlayerMove: copyMove(d.pendingPlayer),
		LogTail:           d.log.Tail(d.opts.LogView),
		Rewards:           append([]npc.Reward(nil), d.rewards...),
		Satchel:           d.satchel.Totals(),
		EnemiesDefeated:   d.enemiesDefeated,
	}
	if d.floor != nil {
		s.EnemiesLeft = len(d.floor.Room(d.room).Enemies) - d.enemyIndex
	}
	if d.enemy != nil {
		t := d.enemy.Template
		s.Enemy = EnemyView{
			CombatantView: viewOf(d.enemy.Combatant),
			Type:          t.Type,
			Weakness:      t.Weakness,
			Danger:        t.DangerLevel,
		}
	}
	return s
}

// Summary returns the run record for history.
func (d *Director) Summary() RunSummary {
	out := OutcomeInProgress
	if d.phase == GameOver {
		out = OutcomeDefeated
	}
	var name string
	if d.player != nil {
		name = d.player.Combatant.Name
	}
	return RunSummary{
		RunID:           d.runID,
		Mode:            ModePvE,
		PlayerName:      name,
		FloorNumber:     d.floorNumber,
		Room:            d.room,
		EnemiesDefeated: d.enemiesDefeated,
		Loot:            d.satchel.Totals(),
		Outcome:         out,
	}
}
