package mapbench

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Sequence produces a reproducible walk over the key space 0..N-1.
//
// A Sequence is seeded from a name (typically the worker name) and the
// suite identity, never from the clock, so the same name always yields the
// same walk. Each call to Next advances the cursor by a fixed stride modulo
// N. Because N is prime and the stride is in [1, N-1], any N consecutive
// calls return every index exactly once.
//
// A Sequence is not safe for concurrent use. Every execution unit owns
// its own instance for its whole lifetime.
type Sequence struct {
	stride int
	cursor int
	size   int
}

// NewSequence creates the Sequence for the execution unit named seedKey.
func (s *Suite) NewSequence(seedKey string) *Sequence {
	return newSequence(&s.cfg, seedKey)
}

func newSequence(cfg *Config, seedKey string) *Sequence {
	r := newRand(cfg, seedKey)
	n := cfg.KeySpace
	return &Sequence{
		stride: 1 + r.IntN(n-1),
		cursor: r.IntN(n),
		size:   n,
	}
}

// newRand returns a PCG source seeded by the sum of the identity and key
// hashes.
func newRand(cfg *Config, seedKey string) *rand.Rand {
	seed := xxhash.Sum64String(cfg.Identity) + xxhash.Sum64String(seedKey)
	return rand.New(rand.NewPCG(seed, seed))
}

// Next advances the cursor by one stride and returns the new position.
//
//go:nosplit
func (q *Sequence) Next() int {
	q.cursor += q.stride
	if q.cursor >= q.size {
		q.cursor -= q.size
	}
	return q.cursor
}

// Chance draws one index and reports whether it is a multiple of odds.
// The drawn index is consumed and not otherwise used.
func (q *Sequence) Chance(odds int) bool {
	return q.Next()%odds == 0
}

// Stride returns the fixed increment of the walk.
func (q *Sequence) Stride() int {
	return q.stride
}

// Cursor returns the last index returned by Next, or the starting
// position if Next has not been called yet.
func (q *Sequence) Cursor() int {
	return q.cursor
}

// Size returns the key space N the sequence walks over.
func (q *Sequence) Size() int {
	return q.size
}
