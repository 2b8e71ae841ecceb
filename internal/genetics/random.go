// Package genetics holds the randomized rules of a pairing: the outcome
// draw and how offspring inherit traits from their parents.
//
// Every function takes its randomness from an injected Source, so a seeded
// or replayed source reproduces a pairing exactly.
package genetics

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a high-entropy seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Replay is a Source that returns a fixed sequence of draws, starting over
// when it runs out. It makes a pairing reproducible draw by draw.
type Replay struct {
	draws []float64
	next  int
	used  int
}

// NewReplay returns a Replay over draws. It panics if draws is empty.
func NewReplay(draws ...float64) *Replay {
	if len(draws) == 0 {
		panic("genetics: replay needs at least one draw")
	}
	return &Replay{draws: draws}
}

func (r *Replay) Float64() float64 {
	v := r.draws[r.next]
	r.next = (r.next + 1) % len(r.draws)
	r.used++
	return v
}

// Used reports how many draws have been taken.
func (r *Replay) Used() int { return r.used }
