package game

import (
	"math"
	"time"

	"github.com/tomz197/skyraid/internal/object"
)

// Feedback tuning.
const (
	explosionSpread   = 6
	explosionLife     = 20
	pickupSpread      = 8
	pickupLife        = 30
	bossDeathSpread   = 10
	bossDeathLife     = 30
	shieldShake       = 3
	shieldShakeFor    = 200 * time.Millisecond
	hitShake          = 8
	hitShakeFor       = 500 * time.Millisecond
	bossDeathShake    = 15
	bossDeathShakeFor = time.Second
)

// resolveCollisions runs the combat passes in their fixed order. Every
// bullet, enemy and power-up is consumed at most once per tick.
func (g *Game) resolveCollisions() {
	g.bulletsVsEnemies()
	g.bulletsVsBoss()
	g.collectPowerUps()
	if g.player.Immune(g.now) {
		return
	}
	g.contactDamage()
}

// bulletsVsEnemies resolves player bullets in order. A bullet hits the
// first live enemy it overlaps in container order.
func (g *Game) bulletsVsEnemies() {
	if len(g.bullets) == 0 || len(g.enemies) == 0 {
		return
	}

	g.grid.Clear()
	for i := range g.enemies {
		g.grid.Insert(g.enemies[i].Rect, i)
	}
	dead := g.markScratch(len(g.enemies))

	bullets := g.bullets[:0]
	for _, b := range g.bullets {
		hit := -1
		for _, i := range g.grid.QueryRect(b.Rect) {
			if !dead[i] && b.Overlaps(g.enemies[i].Rect) {
				hit = i
				break
			}
		}
		if hit < 0 {
			bullets = append(bullets, b)
			continue
		}

		g.stats.ShotsHit++
		e := &g.enemies[hit]
		e.Health--
		if e.Health <= 0 {
			dead[hit] = true
			g.killEnemy(e)
		}
	}
	clear(g.bullets[len(bullets):])
	g.bullets = bullets

	enemies := g.enemies[:0]
	for i, e := range g.enemies {
		if !dead[i] {
			enemies = append(enemies, e)
		}
	}
	clear(g.enemies[len(enemies):])
	g.enemies = enemies
}

// markScratch returns a zeroed flag slice of length n backed by reused memory.
func (g *Game) markScratch(n int) []bool {
	if cap(g.consumed) < n {
		g.consumed = make([]bool, n)
	}
	g.consumed = g.consumed[:n]
	clear(g.consumed)
	return g.consumed
}

// killEnemy scores the kill with the multiplier held before it, then
// extends the combo.
func (g *Game) killEnemy(e *object.Enemy) {
	g.score += int(math.Floor(float64(e.Points) * g.combo.Multiplier))
	g.combo.Kill(g.now, g.rules.Combo)
	g.stats.Kills[e.Kind]++
	cx, cy := e.Center()
	g.explode(cx, cy, g.rules.Enemies.ExplosionParticles, explosionSpread, explosionLife, object.ColorOrange)
}

func (g *Game) bulletsVsBoss() {
	b := &g.boss
	if !b.Alive {
		return
	}
	rules := g.rules.Boss
	kept := g.bullets[:0]
	for _, bullet := range g.bullets {
		if !b.Alive || !bullet.Overlaps(b.Rect) {
			kept = append(kept, bullet)
			continue
		}
		g.stats.ShotsHit++
		b.Health -= rules.HitDamage
		g.score += rules.HitScore
		g.explode(bullet.X, bullet.Y, g.rules.Enemies.ExplosionParticles, explosionSpread, explosionLife, object.ColorYellow)
		if b.Health <= 0 {
			g.defeatBoss()
		}
	}
	clear(g.bullets[len(kept):])
	g.bullets = kept
}

// collectPowerUps applies every power-up the player overlaps this tick.
func (g *Game) collectPowerUps() {
	kept := g.powerUps[:0]
	for _, pu := range g.powerUps {
		if !g.player.Overlaps(pu.Rect) {
			kept = append(kept, pu)
			continue
		}
		g.applyPowerUp(pu.Kind)
	}
	clear(g.powerUps[len(kept):])
	g.powerUps = kept
}

func (g *Game) applyPowerUp(kind object.PowerUpKind) {
	p := &g.player
	msg := ""
	switch kind {
	case object.PowerUpRapidFire:
		msg = "RAPID FIRE!"
	case object.PowerUpShield:
		p.Shield = true
		msg = "SHIELD!"
	case object.PowerUpDoubleShot:
		msg = "DOUBLE SHOT!"
	case object.PowerUpHealth:
		if g.lives < g.rules.Player.MaxLives {
			g.lives++
			msg = "LIFE UP!"
		} else {
			msg = "MAX LIVES!"
		}
	case object.PowerUpMagnet:
		msg = "MAGNET!"
	}
	if effect, ok := kind.Effect(); ok {
		row, _ := g.rules.PowerUpKind(kind)
		p.Effects.Grant(effect, g.now+row.Duration)
	}
	g.stats.PowerUps[kind]++

	cx, cy := p.Center()
	color := kind.Color()
	g.floatText(cx, cy, msg, color)
	for i := 0; i < g.rules.PowerUps.PickupParticles; i++ {
		g.particles = append(g.particles, object.Particle{
			X:       cx,
			Y:       cy,
			VX:      (g.rand.Float64() - 0.5) * pickupSpread,
			VY:      (g.rand.Float64() - 0.5) * pickupSpread,
			Life:    pickupLife,
			MaxLife: pickupLife,
			Color:   color,
			Size:    g.rand.Float64()*3 + 1,
		})
	}
}

// contactDamage checks each hostile category in turn. At most one hit per
// category lands; the hit that grants invulnerability shields the rest.
func (g *Game) contactDamage() {
	for i := range g.enemies {
		if g.player.Overlaps(g.enemies[i].Rect) {
			g.damage()
			break
		}
	}
	if g.phase != PhasePlaying || g.player.Immune(g.now) {
		return
	}

	if g.boss.Alive && g.player.Overlaps(g.boss.Rect) {
		g.damage()
		if g.phase != PhasePlaying || g.player.Immune(g.now) {
			return
		}
	}

	g.bossBullets = g.bulletHit(g.bossBullets)
	if g.phase != PhasePlaying || g.player.Immune(g.now) {
		return
	}
	g.enemyBullets = g.bulletHit(g.enemyBullets)
}

// bulletHit consumes the first hostile bullet touching the player.
func (g *Game) bulletHit(bullets []object.Bullet) []object.Bullet {
	for i, b := range bullets {
		if !g.player.Overlaps(b.Rect) {
			continue
		}
		g.explode(b.X, b.Y, g.rules.Enemies.ExplosionParticles, explosionSpread, explosionLife, object.ColorRed)
		bullets = append(bullets[:i], bullets[i+1:]...)
		g.damage()
		break
	}
	return bullets
}

// damage resolves one hit on the player. A shield absorbs it whole.
func (g *Game) damage() {
	p := &g.player
	g.stats.DamageTaken++
	cx, cy := p.Center()
	if p.Shield {
		p.Shield = false
		g.explode(cx, cy, g.rules.Enemies.ExplosionParticles, explosionSpread, explosionLife, object.ColorBlue)
		g.shake.Trigger(shieldShake, shieldShakeFor)
		return
	}

	g.lives--
	g.stats.LivesLost++
	p.Effects.Grant(object.EffectInvulnerable, g.now+g.rules.Player.Invulnerability)
	g.combo.Reset()
	g.shake.Trigger(hitShake, hitShakeFor)
	g.explode(cx, cy, g.rules.Enemies.ExplosionParticles, explosionSpread, explosionLife, object.ColorRed)
	if g.lives <= 0 {
		g.lives = 0
		g.gameOver()
	}
}

// bossDeathBurst scatters particles over the boss body.
func (g *Game) bossDeathBurst() {
	b := &g.boss
	cx, cy := b.Center()
	for i := 0; i < g.rules.Boss.DeathParticles; i++ {
		g.particles = append(g.particles, object.Particle{
			X:       cx + (g.rand.Float64()-0.5)*b.W,
			Y:       cy + (g.rand.Float64()-0.5)*b.H,
			VX:      (g.rand.Float64() - 0.5) * bossDeathSpread,
			VY:      (g.rand.Float64() - 0.5) * bossDeathSpread,
			Life:    bossDeathLife,
			MaxLife: bossDeathLife,
			Color:   object.ColorOrange,
			Size:    3,
		})
	}
}
