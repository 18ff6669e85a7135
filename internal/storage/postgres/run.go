package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/game/floor"
	"github.com/cory-johannsen/rpsdungeon/internal/game/inventory"
)

// ErrRunAlreadyRecorded is returned when a run id is recorded twice.
var ErrRunAlreadyRecorded = errors.New("run already recorded")

// RunRecord is a finished run as stored in run history.
type RunRecord struct {
	encounter.RunSummary
	FinishedAt time.Time
}

// RunRepository stores the history of finished runs.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// Record stores a finished run.
//
// Precondition: s.RunID must be set and s.Outcome must not be in progress.
// Postcondition: Returns nil, ErrRunAlreadyRecorded, or another error.
func (r *RunRepository) Record(ctx context.Context, s encounter.RunSummary) error {
	if s.RunID == uuid.Nil {
		return errors.New("recording run: run id must be set")
	}
	if s.Outcome == encounter.OutcomeInProgress {
		return fmt.Errorf("recording run %s: still in progress", s.RunID)
	}
	loot := s.Loot
	if loot == nil {
		loot = []inventory.Stack{}
	}
	doc, err := json.Marshal(loot)
	if err != nil {
		return fmt.Errorf("encoding loot: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO runs (id, mode, player_name, floor, room, enemies_defeated, loot, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.RunID, s.Mode.String(), s.PlayerName, s.FloorNumber, string(s.Room),
		s.EnemiesDefeated, doc, string(s.Outcome),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrRunAlreadyRecorded
		}
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Recent returns the most recently finished runs, newest first.
//
// Precondition: limit > 0.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	return r.query(ctx, `
		SELECT id, mode, player_name, floor, room, enemies_defeated, loot, outcome, finished_at
		FROM runs ORDER BY finished_at DESC LIMIT $1`, limit)
}

// ByPlayer returns a player's runs, deepest floor first.
//
// Precondition: limit > 0.
func (r *RunRepository) ByPlayer(ctx context.Context, name string, limit int) ([]RunRecord, error) {
	return r.query(ctx, `
		SELECT id, mode, player_name, floor, room, enemies_defeated, loot, outcome, finished_at
		FROM runs WHERE player_name = $1
		ORDER BY floor DESC, enemies_defeated DESC, finished_at ASC LIMIT $2`, name, limit)
}

func (r *RunRepository) query(ctx context.Context, sql string, args ...any) ([]RunRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	out := make([]RunRecord, 0)
	for rows.Next() {
		var (
			rec              RunRecord
			mode, room, outc string
			loot             []byte
		)
		if err := rows.Scan(
			&rec.RunID, &mode, &rec.PlayerName, &rec.FloorNumber, &room,
			&rec.EnemiesDefeated, &loot, &outc, &rec.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if rec.Mode, err = encounter.ParseMode(mode); err != nil {
			return nil, err
		}
		rec.Room = floor.RoomKey(room)
		rec.Outcome = encounter.Outcome(outc)
		if err := json.Unmarshal(loot, &rec.Loot); err != nil {
			return nil, fmt.Errorf("decoding loot of run %s: %w", rec.RunID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

