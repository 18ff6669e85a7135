// Package session tracks the live runs hosted by the telnet server.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

var (
	// ErrFull is returned by Add when the session cap is reached.
	ErrFull = errors.New("session: server full")
	// ErrNameInUse is returned by Add when the character already has a live run.
	ErrNameInUse = errors.New("session: character already playing")
	// ErrNotFound is returned when no session has the given ID.
	ErrNotFound = errors.New("session: not found")
)

// Session is one connected player. The connection goroutine owns the game and
// publishes snapshots here so listings never touch live game state.
type Session struct {
	ID         uuid.UUID
	PlayerName string
	RemoteAddr string
	StartedAt  time.Time

	mu   sync.Mutex
	last *encounter.Snapshot
}

// Publish records the latest state of the session's game.
func (s *Session) Publish(snap encounter.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &snap
}

// Last returns the most recently published snapshot.
func (s *Session) Last() (encounter.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return encounter.Snapshot{}, false
	}
	return *s.last, true
}

// Info is a read-only view of a session for listings.
type Info struct {
	ID         uuid.UUID
	PlayerName string
	RemoteAddr string
	StartedAt  time.Time
	Mode       encounter.Mode
	Phase      encounter.Phase
	Floor      int
	// Playing is false until a snapshot is published.
	Playing bool
}

// Manager tracks all live sessions. All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	max    int
	byID   map[uuid.UUID]*Session
	byName map[string]uuid.UUID
	now    func() time.Time
}

// NewManager creates an empty Manager. limit caps concurrent sessions; zero
// means unlimited.
//
// Precondition: limit >= 0.
func NewManager(limit int) *Manager {
	if limit < 0 {
		panic("session: NewManager called with limit < 0")
	}
	return &Manager{
		max:    limit,
		byID:   make(map[uuid.UUID]*Session),
		byName: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

// Add registers a session for playerName.
//
// Precondition: playerName must be non-empty.
// Postcondition: Returns the new Session, or ErrFull / ErrNameInUse.
func (m *Manager) Add(playerName, remoteAddr string) (*Session, error) {
	if playerName == "" {
		return nil, errors.New("session: player name must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.max > 0 && len(m.byID) >= m.max {
		return nil, fmt.Errorf("%d sessions: %w", m.max, ErrFull)
	}
	if _, ok := m.byName[playerName]; ok {
		return nil, fmt.Errorf("%q: %w", playerName, ErrNameInUse)
	}
	s := &Session{
		ID:         uuid.New(),
		PlayerName: playerName,
		RemoteAddr: remoteAddr,
		StartedAt:  m.now(),
	}
	m.byID[s.ID] = s
	m.byName[playerName] = s.ID
	return s, nil
}

// Remove deletes the session with the given ID.
//
// Postcondition: the player name is free again. Returns ErrNotFound for an
// unknown id.
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(m.byID, id)
	delete(m.byName, s.PlayerName)
	return nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	return s, ok
}

// ByName returns the live session for a character name.
func (m *Manager) ByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.byID[id], true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// List returns an Info for every session, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.byID))
	for _, s := range m.byID {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		info := Info{
			ID:         s.ID,
			PlayerName: s.PlayerName,
			RemoteAddr: s.RemoteAddr,
			StartedAt:  s.StartedAt,
		}
		if snap, ok := s.Last(); ok {
			info.Playing = true
			info.Mode = snap.Mode
			info.Phase = snap.Phase
			info.Floor = snap.FloorNumber
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
