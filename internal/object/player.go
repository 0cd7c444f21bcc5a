package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/physics"
)

// Player is the single player ship.
type Player struct {
	physics.Rect
	Shield   bool
	Effects  Effects
	LastShot time.Duration
	HasShot  bool // false until the first shot; the first shot never waits
}

// NewPlayer creates a player with its top-left corner at x, y.
func NewPlayer(x, y, w, h float64) Player {
	return Player{Rect: physics.Rect{X: x, Y: y, W: w, H: h}}
}

// Dashing reports whether a dash is in progress.
func (p *Player) Dashing(now time.Duration) bool {
	return p.Effects.Active(EffectDash, now)
}

// Invulnerable reports whether the post-hit immunity window is open.
func (p *Player) Invulnerable(now time.Duration) bool {
	return p.Effects.Active(EffectInvulnerable, now)
}

// Immune reports whether contact damage is ignored right now.
// Dashing and hit invulnerability are tracked separately and either suffices.
func (p *Player) Immune(now time.Duration) bool {
	return p.Dashing(now) || p.Invulnerable(now)
}

// CanDash reports whether a new dash may start.
func (p *Player) CanDash(now time.Duration) bool {
	return !p.Dashing(now) && !p.Effects.Active(EffectDashCooldown, now)
}

// DashTrail is a fading afterimage left while dashing.
type DashTrail struct {
	physics.Rect
	Life    int
	MaxLife int
}
