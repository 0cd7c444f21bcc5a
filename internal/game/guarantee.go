package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/config"
)

// Guarantee forces a power-up when none has appeared for too long.
// LevelCount and MinPerLevel are diagnostics only; they never gate a level.
type Guarantee struct {
	LastSpawn   time.Duration
	LevelCount  int
	MinPerLevel int
}

// Threshold is the longest gap allowed between power-ups on a level.
func (g *Guarantee) Threshold(level int, rules config.PowerUpRules) time.Duration {
	return time.Duration(float64(rules.GuaranteeInterval) / (1 + float64(level)*rules.GuaranteeLevelStep))
}

// Due reports whether the next evaluation must spawn regardless of chance.
func (g *Guarantee) Due(now time.Duration, level int, rules config.PowerUpRules) bool {
	return now-g.LastSpawn > g.Threshold(level, rules)
}

// Spawned records a power-up spawn.
func (g *Guarantee) Spawned(now time.Duration) {
	g.LastSpawn = now
	g.LevelCount++
}

// NewLevel resets the per-level counter.
func (g *Guarantee) NewLevel(level int, rules config.PowerUpRules) {
	g.LevelCount = 0
	g.MinPerLevel = min(level, rules.MaxMinPerLevel)
}

// chance is the per-tick spawn probability on a level.
func chance(level int, rules config.PowerUpRules) float64 {
	factor := min(1+float64(level-1)*rules.LevelStep, rules.MaxLevelFactor)
	return rules.BaseChance * factor
}
