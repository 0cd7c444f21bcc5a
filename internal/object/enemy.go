package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/physics"
)

// Enemy is a side-entering hostile ship.
type Enemy struct {
	physics.Rect
	Kind      EnemyKind
	Side      Side
	Speed     float64
	Health    int
	MaxHealth int
	Points    int

	// Zigzag
	ZigzagTimer  int
	ZigzagDir    float64
	ZigzagPeriod int
	ZigzagStep   float64

	// Shooter
	ShotCooldown time.Duration
	LastShot     time.Duration
	BulletSpeed  float64
	BulletSize   float64
}

// Damaged reports whether the enemy has lost health (tanks show a bar).
func (e *Enemy) Damaged() bool {
	return e.Health < e.MaxHealth
}

// Telegraph is a pending enemy spawn shown as a warning on its edge.
type Telegraph struct {
	Side     Side
	Y        float64
	SpawnAt  time.Duration
	SpeedRef float64
	Pulse    float64
}
