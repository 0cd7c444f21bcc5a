package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/physics"
)

// BossPhase is the boss encounter state.
type BossPhase int

const (
	BossAlive BossPhase = iota
	BossDefeated
	BossNextLevel
)

func (p BossPhase) String() string {
	switch p {
	case BossAlive:
		return "alive"
	case BossDefeated:
		return "defeated"
	case BossNextLevel:
		return "next-level"
	}
	return "unknown"
}

// Boss is the level boss. Generation identifies this boss instance so
// deferred shots can tell whether the boss that fired them still exists.
type Boss struct {
	physics.Rect
	Name         string
	Level        int
	Health       int
	MaxHealth    int
	Speed        float64
	Dir          float64 // +1 right, -1 left
	Alive        bool
	Pattern      Pattern
	BulletSpeed  float64
	ShotCooldown time.Duration
	LastShot     time.Duration
	Generation   uint64
}

// HealthFraction is health over max health in [0, 1].
func (b *Boss) HealthFraction() float64 {
	if b.MaxHealth <= 0 || b.Health <= 0 {
		return 0
	}
	return float64(b.Health) / float64(b.MaxHealth)
}
