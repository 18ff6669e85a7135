package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpsdungeon/internal/game/encounter"
)

func TestManager_AddAndGet(t *testing.T) {
	m := NewManager(0)
	s, err := m.Add("Aria", "127.0.0.1:5555")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	byName, ok := m.ByName("Aria")
	require.True(t, ok)
	assert.Same(t, s, byName)
}

func TestManager_AddRejectsEmptyName(t *testing.T) {
	_, err := NewManager(0).Add("", "addr")
	assert.Error(t, err)
}

func TestManager_NameInUse(t *testing.T) {
	m := NewManager(0)
	_, err := m.Add("Aria", "a")
	require.NoError(t, err)
	_, err = m.Add("Aria", "b")
	assert.ErrorIs(t, err, ErrNameInUse)
	assert.Equal(t, 1, m.Count())
}

func TestManager_Full(t *testing.T) {
	m := NewManager(2)
	_, err := m.Add("a", "")
	require.NoError(t, err)
	_, err = m.Add("b", "")
	require.NoError(t, err)
	_, err = m.Add("c", "")
	assert.ErrorIs(t, err, ErrFull)
}

func TestManager_RemoveFreesName(t *testing.T) {
	m := NewManager(1)
	s, err := m.Add("Aria", "")
	require.NoError(t, err)
	require.NoError(t, m.Remove(s.ID))
	assert.Equal(t, 0, m.Count())
	_, ok := m.ByName("Aria")
	assert.False(t, ok)

	assert.ErrorIs(t, m.Remove(s.ID), ErrNotFound)
	_, err = m.Add("Aria", "")
	assert.NoError(t, err)
}

func TestManager_NegativeMaxPanics(t *testing.T) {
	assert.Panics(t, func() { NewManager(-1) })
}

func TestManager_ListUsesPublishedSnapshots(t *testing.T) {
	m := NewManager(0)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	first, err := m.Add("Zed", "a")
	require.NoError(t, err)
	_, err = m.Add("Aria", "b")
	require.NoError(t, err)

	first.Publish(encounter.Snapshot{Mode: encounter.ModePvE, Phase: encounter.PlayerTurn, FloorNumber: 3})

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Zed", list[0].PlayerName, "oldest first")
	assert.True(t, list[0].Playing)
	assert.Equal(t, encounter.PlayerTurn, list[0].Phase)
	assert.Equal(t, 3, list[0].Floor)
	assert.Equal(t, "Aria", list[1].PlayerName)
	assert.False(t, list[1].Playing)
}

func TestSession_LastIsCopy(t *testing.T) {
	s := &Session{}
	_, ok := s.Last()
	assert.False(t, ok)

	snap := encounter.Snapshot{FloorNumber: 1}
	s.Publish(snap)
	snap.FloorNumber = 9
	got, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 1, got.FloorNumber)
}

func TestManager_ConcurrentAddRemove(t *testing.T) {
	m := NewManager(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Add(fmt.Sprintf("p%d", i), "")
			if err != nil {
				t.Error(err)
				return
			}
			s.Publish(encounter.Snapshot{FloorNumber: i})
			_ = m.List()
			if err := m.Remove(s.ID); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, m.Count())
}

func TestProperty_CountNeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 10).Draw(t, "limit")
		m := NewManager(limit)
		var live []uuid.UUID
		ops := rapid.IntRange(1, 60).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			if len(live) > 0 && rapid.Bool().Draw(t, "remove") {
				k := rapid.IntRange(0, len(live)-1).Draw(t, "victim")
				if err := m.Remove(live[k]); err != nil {
					t.Fatalf("remove: %v", err)
				}
				live = append(live[:k], live[k+1:]...)
				continue
			}
			s, err := m.Add(fmt.Sprintf("p%d", i), "")
			if err == nil {
				live = append(live, s.ID)
			}
			if m.Count() > limit {
				t.Fatalf("count %d exceeds max %d", m.Count(), limit)
			}
			if m.Count() != len(live) {
				t.Fatalf("count %d, tracked %d", m.Count(), len(live))
			}
		}
	})
}
