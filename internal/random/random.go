// Package random abstracts the randomness used by drops, games and rewards
// behind a small Source interface so that services stay deterministic under
// test. The default source is a math/rand/v2 PCG seeded from crypto/rand.
package random

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is the randomness contract consumed by the services.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

type pcgSource struct {
	r *rand.Rand
}

func (s *pcgSource) Float64() float64 { return s.r.Float64() }
func (s *pcgSource) IntN(n int) int   { return s.r.IntN(n) }

// Default returns a source seeded from the OS entropy pool.
func Default() Source {
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// Entropy read failures are effectively impossible on Linux;
		// fall back to the shared global generator.
		return &pcgSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	seed1 := binary.BigEndian.Uint64(buf[:8])
	seed2 := binary.BigEndian.Uint64(buf[8:])
	return &pcgSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewSeeded returns a reproducible source for tests and simulations.
func NewSeeded(seed uint64) Source {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, 0))}
}
