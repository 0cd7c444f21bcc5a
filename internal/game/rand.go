package game

import "math/rand"

// Rand is the random source the simulation draws from. Every draw is a
// uniform float in [0, 1) so tests can script exact sequences.
type Rand interface {
	Float64() float64
}

// globalRand uses the auto-seeded math/rand source. Runs are not replayable.
type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}
