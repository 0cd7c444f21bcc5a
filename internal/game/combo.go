package game

import (
	"math"
	"time"

	"github.com/tomz197/skyraid/internal/config"
)

// Combo is the kill streak and its score multiplier.
type Combo struct {
	Streak     int
	Multiplier float64
	LastKill   time.Duration
}

func newCombo() Combo {
	return Combo{Multiplier: 1}
}

// Kill extends the streak and recomputes the multiplier.
func (c *Combo) Kill(now time.Duration, rules config.ComboRules) {
	c.Streak++
	c.LastKill = now
	steps := math.Floor(float64(c.Streak) / float64(rules.StreakStep))
	c.Multiplier = math.Min(1+steps*rules.MultiplierInc, rules.MaxMultiplier)
}

// Reset drops the streak back to zero.
func (c *Combo) Reset() {
	c.Streak = 0
	c.Multiplier = 1
}

// Expire resets the streak once the window since the last kill has passed.
func (c *Combo) Expire(now time.Duration, rules config.ComboRules) bool {
	if c.Streak > 0 && now-c.LastKill > rules.Window {
		c.Reset()
		return true
	}
	return false
}

// Remaining is the time left before the streak lapses.
func (c *Combo) Remaining(now time.Duration, rules config.ComboRules) time.Duration {
	if c.Streak == 0 {
		return 0
	}
	return max(rules.Window-(now-c.LastKill), 0)
}
