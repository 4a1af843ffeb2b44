package gacha

import (
	"math/rand"
	"time"
)

// Rand is the randomness source for pack openings. Injected so tests
// can drive draws deterministically.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// NewRand returns a time-seeded source for production use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
