// Package rng provides the engine's single seedable random source. State
// owns exactly one *Source; no component ever instantiates a fresh RNG
// mid-game (spec §5, RNG as a state field; Design Notes).
package rng

import "math/rand"

// Source wraps math/rand.Rand behind the small surface the engine needs:
// die rolls and tie-breaks. Every call consumes from the same stream, so
// replaying an identical sequence of operations against the same seed
// reproduces bitwise-identical results (spec §8.2, round-trip properties).
type Source struct {
	r    *rand.Rand
	seed int64
}

// New creates a seeded Source. Given the same seed and the same sequence
// of calls, New(seed) always produces the same outputs.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed this Source was constructed with. Persistence
// uses this to reconstruct a Source on load; the exact stream position
// since New is not recoverable (math/rand exposes no internal-state
// export), so a reloaded game replays determinism from the seed rather
// than from the mid-game stream position — acceptable since save-file
// fidelity is explicitly out of scope (spec §1, Non-goals).
func (s *Source) Seed() int64 {
	return s.seed
}

// D6 rolls one six-sided die, returning 1-6.
func (s *Source) D6() int {
	return s.r.Intn(6) + 1
}

// Intn returns a pseudo-random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}

// Shuffle shuffles a slice of n elements in place using swap(i, j), in the
// same manner as rand.Shuffle — used by sop.BuildDeck to shuffle the
// deck's piles and card order.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Pick returns a uniformly random index in [0, n). A thin named wrapper
// over Intn for call sites that are choosing among candidates rather than
// rolling a die, to keep call sites self-documenting.
func (s *Source) Pick(n int) int {
	return s.r.Intn(n)
}
