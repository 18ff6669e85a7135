package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
)

// ErrProfileNotFound is returned when no profile has the requested name.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileNameTaken is returned when creating a profile whose name exists.
var ErrProfileNameTaken = errors.New("profile name already taken")

// ProfileRepository persists character profiles keyed by name. The profile is
// stored as a JSONB document in the same shape as a local profile file.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a ProfileRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile.
//
// Precondition: p must be valid and named.
// Postcondition: Returns nil, ErrProfileNameTaken on duplicate, or another error.
func (r *ProfileRepository) Create(ctx context.Context, p *character.Profile) error {
	doc, err := encodeProfile(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO profiles (name, profile) VALUES ($1, $2)`, p.Name, doc)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrProfileNameTaken
		}
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

// Save inserts or replaces the profile with p.Name.
//
// Precondition: p must be valid and named.
func (r *ProfileRepository) Save(ctx context.Context, p *character.Profile) error {
	doc, err := encodeProfile(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO profiles (name, profile) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`,
		p.Name, doc,
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Get retrieves the profile with the given name.
//
// Postcondition: Returns a valid Profile or ErrProfileNotFound.
func (r *ProfileRepository) Get(ctx context.Context, name string) (*character.Profile, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT profile FROM profiles WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	p, err := character.ParseProfile(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", name, err)
	}
	p.Name = name
	return p, nil
}

// List returns all profile names in alphabetical order.
func (r *ProfileRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning profile names: %w", err)
	}
	return names, nil
}

// Delete removes the profile with the given name.
//
// Postcondition: Returns nil or ErrProfileNotFound if no row was deleted.
func (r *ProfileRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func encodeProfile(p *character.Profile) ([]byte, error) {
	if p == nil || p.Name == "" {
		return nil, errors.New("profile must be named")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	return doc, nil
}
