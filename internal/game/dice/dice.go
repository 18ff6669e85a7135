// Package dice provides the randomness abstraction for combat, loot and floor
// generation. Every random decision in the game is drawn from a Source so that
// runs are reproducible from a seed.
package dice

// Source is the randomness provider for every decision point.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Chance performs one Bernoulli trial that succeeds with probability p.
//
// Postcondition: Returns false when p <= 0 and true when p >= 1.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// IntRange returns a uniformly distributed int in [min, max] inclusive.
//
// Precondition: min <= max.
func IntRange(src Source, min, max int) int {
	if min > max {
		panic("dice: IntRange called with min > max")
	}
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Pick returns a uniformly chosen element of items.
//
// Precondition: len(items) > 0.
func Pick[T any](src Source, items []T) T {
	if len(items) == 0 {
		panic("dice: Pick called with empty slice")
	}
	return items[src.Intn(len(items))]
}
