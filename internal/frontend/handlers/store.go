// Package handlers implements the telnet session flow: name entry, character
// creation, mode selection and the combat command loop.
package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/rpsdungeon/internal/game/character"
	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
	"github.com/cory-johannsen/rpsdungeon/internal/storage/postgres"
)

// ProfileStore loads and creates character profiles.
// *postgres.ProfileRepository satisfies it.
type ProfileStore interface {
	// Get returns postgres.ErrProfileNotFound for an unknown name.
	Get(ctx context.Context, name string) (*character.Profile, error)
	// Create returns postgres.ErrProfileNameTaken when the name exists.
	Create(ctx context.Context, p *character.Profile) error
}

// RunRecorder stores finished runs. *postgres.RunRepository satisfies it.
type RunRecorder interface {
	Record(ctx context.Context, s encounter.RunSummary) error
}

// MemoryProfiles is a ProfileStore for servers running without a database.
// Profiles last until the process exits.
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[string]*character.Profile
}

// NewMemoryProfiles returns an empty MemoryProfiles.
func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: make(map[string]*character.Profile)}
}

// Get returns a copy of the named profile.
func (m *MemoryProfiles) Get(_ context.Context, name string) (*character.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, postgres.ErrProfileNotFound)
	}
	cp := *p
	return &cp, nil
}

// Create stores a copy of p.
func (m *MemoryProfiles) Create(_ context.Context, p *character.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.Name]; ok {
		return fmt.Errorf("%q: %w", p.Name, postgres.ErrProfileNameTaken)
	}
	cp := *p
	m.profiles[p.Name] = &cp
	return nil
}
