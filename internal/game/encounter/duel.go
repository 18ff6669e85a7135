package encounter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/combat"
	"github.com/cory-johannsen/rpsdungeon/internal/game/dice"
	"github.com/cory-johannsen/rpsdungeon/internal/game/rps"
)

// RivalWarrior returns the default duel opponent at full health.
func RivalWarrior() *combat.Combatant {
	return combat.NewCombatant("Rival Warrior", 100, 10, []combat.Move{
		{Name: "Sword Slash", Type: rps.Rock, Damage: 20},
		{Name: "Shield Bash", Type: rps.Paper, Damage: 15},
		{Name: "Spear Thrust", Type: rps.Scissors, Damage: 25},
	})
}

// DuelOptions configures a Duel.
type DuelOptions struct {
	Player PlayerFactory
	// Rival builds the opponent; nil means RivalWarrior.
	Rival func() *combat.Combatant
	// Resolver defaults to a PvPResolver.
	Resolver combat.Resolver
	Source   dice.Source
	Logger   *zap.Logger
	LogView  int
}

// Duel is a single PvP fight. Turns alternate enemy pick and player pick; the
// exchange resolves as soon as the player picks.
type Duel struct {
	opts     DuelOptions
	logger   *zap.Logger
	started  bool
	finished bool

	runID  uuid.UUID
	phase  Phase
	player *character.Player
	rival  *combat.Combatant

	pendingEnemy *combat.Move
	log          combat.Log
}

// NewDuel creates a Duel. Call Start before any other entry point.
//
// Precondition: Player and Source must be non-nil.
func NewDuel(opts DuelOptions) (*Duel, error) {
	if opts.Player == nil || opts.Source == nil {
		return nil, errors.New("encounter: NewDuel requires Player and Source")
	}
	if opts.Rival == nil {
		opts.Rival = RivalWarrior
	}
	if opts.Resolver == nil {
		opts.Resolver = combat.NewPvPResolver()
	}
	if opts.LogView <= 0 {
		opts.LogView = DefaultLogView
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Duel{opts: opts, logger: logger}, nil
}

// Start begins the duel in EnemyTurn with both sides at full health.
func (d *Duel) Start() error {
	if d.started {
		return wrongPhase("start", d.phase)
	}
	return d.reset()
}

// Restart begins a new duel. Valid in GameOver and EnemyDefeated.
func (d *Duel) Restart() error {
	if !d.started || (d.phase != GameOver && d.phase != EnemyDefeated) {
		return wrongPhase("restart", d.phase)
	}
	return d.reset()
}

func (d *Duel) reset() error {
	player, err := d.opts.Player()
	if err != nil {
		return fmt.Errorf("encounter: duel: building player: %w", err)
	}
	rival := d.opts.Rival()
	if rival == nil || len(rival.Moves) == 0 {
		return errors.New("encounter: duel: rival must have at least one move")
	}
	d.started = true
	d.finished = false
	d.runID = uuid.New()
	d.player = player
	d.rival = rival
	d.pendingEnemy = nil
	d.log.Clear()
	d.phase = EnemyTurn
	d.logger.Info("duel started",
		zap.String("run_id", d.runID.String()),
		zap.String("rival", rival.Name),
	)
	return nil
}

// Tick performs the rival's automatic move pick.
func (d *Duel) Tick() bool {
	if !d.started || d.phase != EnemyTurn {
		return false
	}
	m := dice.Pick(d.opts.Source, d.rival.Moves)
	d.pendingEnemy = &m
	d.log.Appendf("%s selects %s!", d.rival.Name, m.Name)
	d.setPhase(PlayerTurn)
	return true
}

// SubmitPlayerMove picks the player's move and resolves the exchange at once.
//
// Postcondition: on success the phase is GameOver when the player is defeated,
// EnemyDefeated when the rival is, and EnemyTurn otherwise.
func (d *Duel) SubmitPlayerMove(i int) error {
	if !d.started || d.phase != PlayerTurn {
		return wrongPhase("submit move", d.phase)
	}
	m, ok := d.player.Combatant.Move(i)
	if !ok {
		return fmt.Errorf("move %d of %d: %w", i+1, len(d.player.Combatant.Moves), ErrInvalidMove)
	}
	d.log.Appendf("You use %s!", m.Name)
	ex := d.opts.Resolver.Resolve(d.player.Combatant, m, d.rival, *d.pendingEnemy)
	d.log.Append(ex.Lines...)
	d.pendingEnemy = nil

	switch {
	case ex.PlayerDefeated:
		d.setPhase(GameOver)
	case ex.EnemyDefeated:
		d.setPhase(EnemyDefeated)
	default:
		d.setPhase(EnemyTurn)
	}
	return nil
}

// ConfirmResolve is never valid in a duel; resolution happens on the pick.
func (d *Duel) ConfirmResolve() error {
	return wrongPhase("resolve", d.phase)
}

// ConfirmPopup acknowledges victory and ends the duel. Only valid in
// EnemyDefeated.
func (d *Duel) ConfirmPopup() error {
	if !d.started || d.phase != EnemyDefeated || d.finished {
		return wrongPhase("confirm popup", d.phase)
	}
	d.finished = true
	return nil
}

// Finished reports whether a won duel has been acknowledged.
func (d *Duel) Finished() bool { return d.finished }

func (d *Duel) setPhase(p Phase) {
	d.logger.Debug("phase transition",
		zap.String("run_id", d.runID.String()),
		zap.Stringer("from", d.phase),
		zap.Stringer("to", p),
	)
	d.phase = p
}

// Phase returns the current phase.
func (d *Duel) Phase() Phase { return d.phase }

// Log returns the full duel log.
func (d *Duel) Log() []string { return d.log.Entries() }

// Snapshot returns a read-only copy of the state.
func (d *Duel) Snapshot() Snapshot {
	s := Snapshot{
		Mode:             ModePvP,
		RunID:            d.runID,
		Phase:            d.phase,
		Player:           playerView(d.player),
		Enemy:            EnemyView{CombatantView: viewOf(d.rival)},
		PendingEnemyMove: copyMove(d.pendingEnemy),
		LogTail:          d.log.Tail(d.opts.LogView),
		Finished:         d.finished,
	}
	if d.rival != nil && !d.rival.IsDefeated() {
		s.EnemiesLeft = 1
	}
	if d.phase == EnemyDefeated {
		s.EnemiesDefeated = 1
	}
	return s
}

// Summary returns the duel record for history.
func (d *Duel) Summary() RunSummary {
	out := OutcomeInProgress
	switch d.phase {
	case GameOver:
		out = OutcomeDefeated
	case EnemyDefeated:
		out = OutcomeVictory
	}
	s := RunSummary{RunID: d.runID, Mode: ModePvP, Outcome: out}
	if d.player != nil {
		s.PlayerName = d.player.Combatant.Name
	}
	if out == OutcomeVictory {
		s.EnemiesDefeated = 1
	}
	return s
}
