package game

import (
	"math"
	"time"

	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// Pattern geometry in pixels.
const (
	doubleOriginOffset = 10
	doubleTargetOffset = 20
	chaosTargetOffset  = 50
	chaosSideSpeed     = 0.75
)

// spawnBoss builds the boss for level and makes it the current encounter.
// Each boss gets a fresh generation so shots queued by its predecessor
// can recognize they are stale.
func (g *Game) spawnBoss(level int) {
	def := g.rules.BossForLevel(level)
	pattern, err := object.ParsePattern(def.Pattern)
	if err != nil {
		// Validate checks every reachable level's pattern.
		panic(err)
	}

	g.generation++
	g.boss = object.Boss{
		Rect:         physics.Rect{X: def.X, Y: def.Y, W: def.Width, H: def.Height},
		Name:         def.Name,
		Level:        level,
		Health:       def.Health,
		MaxHealth:    def.Health,
		Speed:        def.Speed,
		Dir:          1,
		Alive:        true,
		Pattern:      pattern,
		BulletSpeed:  def.BulletSpeed,
		ShotCooldown: def.ShotCooldown,
		LastShot:     g.now,
		Generation:   g.generation,
	}
	g.bossPhase = object.BossAlive
}

// defeatBoss ends the encounter and schedules the next level. Pending
// burst shots of this boss are dropped here and checked again when they fire.
func (g *Game) defeatBoss() {
	b := &g.boss
	rules := g.rules.Boss
	b.Alive = false
	b.Health = 0
	g.bossPhase = object.BossDefeated

	bonus := rules.KillBonus
	if rules.KillBonusCombo {
		bonus = int(math.Floor(float64(rules.KillBonus) * g.combo.Multiplier))
	}
	g.score += bonus
	g.stats.BossesDefeated++

	g.bossDeathBurst()
	g.shake.Trigger(bossDeathShake, bossDeathShakeFor)
	g.sched.Cancel(Owner(b.Generation))
	g.sched.Schedule(g.now+g.rules.TransitionDelay, ownerLevel, g.nextLevel)

	g.logger.Info("boss defeated", "boss", b.Name, "level", g.level, "bonus", bonus, "score", g.score)
}

// nextLevel runs once per defeat. The phase guard keeps a stray second
// event from advancing twice.
func (g *Game) nextLevel() {
	if g.bossPhase != object.BossDefeated || g.phase != PhasePlaying {
		return
	}
	g.bossPhase = object.BossNextLevel
	g.level++

	clear(g.enemies)
	g.enemies = g.enemies[:0]
	g.telegraphs = g.telegraphs[:0]
	clear(g.bossBullets)
	g.bossBullets = g.bossBullets[:0]
	clear(g.enemyBullets)
	g.enemyBullets = g.enemyBullets[:0]
	g.powerUps = g.powerUps[:0]

	g.guarantee.NewLevel(g.level, g.rules.PowerUps)
	g.score += g.rules.LevelBonus
	g.spawnBoss(g.level)

	g.logger.Info("level started", "level", g.level, "boss", g.boss.Name, "score", g.score)
}

// bossAttack fires the boss pattern once its cooldown has passed.
func (g *Game) bossAttack() {
	b := &g.boss
	if !b.Alive || g.now-b.LastShot < b.ShotCooldown {
		return
	}
	b.LastShot = g.now

	bx, by := b.Center()
	px, py := g.player.Center()
	speed := b.BulletSpeed

	switch b.Pattern {
	case object.PatternSingle:
		g.bossShot(bx, by, px, py, speed)
	case object.PatternDouble:
		g.bossShot(bx-doubleOriginOffset, by, px-doubleTargetOffset, py, speed)
		g.bossShot(bx+doubleOriginOffset, by, px+doubleTargetOffset, py, speed)
	case object.PatternBurst:
		g.bossShot(bx, by, px, py, speed)
		gen := b.Generation
		for i := 1; i < g.rules.Boss.BurstShots; i++ {
			at := g.now + g.rules.Boss.BurstSpacing*time.Duration(i)
			g.sched.Schedule(at, Owner(gen), func() {
				if g.boss.Generation != gen || !g.boss.Alive {
					return
				}
				g.bossShot(bx, by, px, py, speed)
			})
		}
	case object.PatternChaos:
		g.bossShot(bx, by, px, py, speed)
		g.bossShot(bx, by, px-chaosTargetOffset, py, speed*chaosSideSpeed)
		g.bossShot(bx, by, px+chaosTargetOffset, py, speed*chaosSideSpeed)
	}
}

// bossShot fires one aimed boss bullet. A shot with no direction is dropped.
func (g *Game) bossShot(fromX, fromY, toX, toY, speed float64) {
	vx, vy, ok := physics.Direction(fromX, fromY, toX, toY, speed)
	if !ok {
		return
	}
	g.bossBullets = append(g.bossBullets, object.NewBullet(fromX, fromY, g.rules.Boss.BulletSize, vx, vy, object.ColorRed))
}
