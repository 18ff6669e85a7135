package dice

import "sync"

// ScriptedSource replays fixed sequences of draws, cycling when exhausted.
// It is intended for tests and replays that need exact control over every
// decision point.
type ScriptedSource struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	ii, fi int
}

// NewScriptedSource creates a ScriptedSource. Intn returns ints[k] % n for the
// k-th call; Float64 returns floats[k]. An empty slice yields zero values.
func NewScriptedSource(ints []int, floats []float64) *ScriptedSource {
	return &ScriptedSource{ints: ints, floats: floats}
}

// Intn returns the next scripted int reduced modulo n.
//
// Precondition: n > 0.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}
