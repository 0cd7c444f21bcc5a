package object

import "time"

// EffectKind tags a temporary player state.
type EffectKind int

const (
	EffectRapidFire EffectKind = iota
	EffectDoubleShot
	EffectMagnet
	EffectInvulnerable
	EffectDash
	EffectDashCooldown
	effectCount
)

var effectNames = [...]string{"rapid-fire", "double-shot", "magnet", "invulnerable", "dash", "dash-cooldown"}

func (k EffectKind) String() string {
	if k >= 0 && k < effectCount {
		return effectNames[k]
	}
	return "effect"
}

type effect struct {
	on    bool
	until time.Duration
}

// Effects maps each effect kind to its expiry on the game clock.
// It is a value type so snapshots copy it without aliasing.
type Effects [effectCount]effect

// Grant turns an effect on until the given time, replacing any previous expiry.
func (e *Effects) Grant(k EffectKind, until time.Duration) {
	e[k] = effect{on: true, until: until}
}

// Clear turns an effect off.
func (e *Effects) Clear(k EffectKind) {
	e[k] = effect{}
}

// Active reports whether the effect is on and not yet past its expiry.
func (e *Effects) Active(k EffectKind, now time.Duration) bool {
	return e[k].on && now < e[k].until
}

// Flagged reports whether the effect is still switched on, ignoring expiry.
// Lazily expired effects stay flagged until Expire runs.
func (e *Effects) Flagged(k EffectKind) bool {
	return e[k].on
}

// Expire switches the effect off once its expiry has passed and reports
// whether it is still active.
func (e *Effects) Expire(k EffectKind, now time.Duration) bool {
	if e[k].on && now >= e[k].until {
		e[k] = effect{}
	}
	return e[k].on
}

// Remaining is the time left on an active effect, or zero.
func (e *Effects) Remaining(k EffectKind, now time.Duration) time.Duration {
	if !e.Active(k, now) {
		return 0
	}
	return e[k].until - now
}

// Until returns the expiry of an effect and whether it is flagged.
func (e *Effects) Until(k EffectKind) (time.Duration, bool) {
	return e[k].until, e[k].on
}
