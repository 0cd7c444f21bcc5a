package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/physics"
)

// PowerUp is a collectible. Pulse, Glow and Rotation are decorative.
type PowerUp struct {
	physics.Rect
	Kind      PowerUpKind
	SpawnTime time.Duration
	Pulse     float64
	Glow      float64
	Rotation  float64
}
