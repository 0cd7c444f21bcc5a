package game

import (
	"math"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/control"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// Decorative per-tick rates.
const (
	powerUpPulseRate    = 0.1
	powerUpSpinRate     = 0.02
	telegraphPulseRate  = 0.15
	floatingTextSpeed   = 2
	floatingTextLife    = 60
	floatingTextOffsetY = 30
)

// update is the movement and lifetime pass.
func (g *Game) update(in control.State) {
	g.shake.Update(g.tick)
	g.combo.Expire(g.now, g.rules.Combo)

	g.updatePlayer(in)
	g.updateTrail()
	g.updateBoss()
	g.updateEnemies()
	g.bullets = moveBullets(g.bullets, g.rules.Viewport)
	g.bossBullets = moveBullets(g.bossBullets, g.rules.Viewport)
	g.enemyBullets = moveBullets(g.enemyBullets, g.rules.Viewport)
	g.updateParticles()
	g.updatePowerUps()
	g.updateTexts()
}

func (g *Game) updatePlayer(in control.State) {
	p := &g.player
	rules := g.rules.Player
	now := g.now

	p.Effects.Expire(object.EffectDash, now)
	if in.Dash && rules.Dash.Duration > 0 && p.CanDash(now) {
		p.Effects.Grant(object.EffectDash, now+rules.Dash.Duration)
		p.Effects.Grant(object.EffectDashCooldown, now+rules.Dash.Cooldown)
	}

	speed := rules.Speed
	if p.Dashing(now) {
		speed *= rules.Dash.SpeedFactor
	}
	p.X += in.MoveX * speed
	p.Y += in.MoveY * speed
	p.ClampTo(g.rules.Viewport.Width, g.rules.Viewport.Height)

	if in.Fire && !p.Dashing(now) {
		g.fire(in.Aim)
	}
}

// fire shoots at the aim point if the weapon is off cooldown. Timed
// weapon buffs are expired here, at the point of use, and nowhere else.
// A shot with no direction is dropped without consuming the cooldown.
func (g *Game) fire(aim control.Aim) bool {
	p := &g.player
	rules := g.rules.Player
	now := g.now

	rapid := p.Effects.Expire(object.EffectRapidFire, now)
	double := p.Effects.Expire(object.EffectDoubleShot, now)

	cooldown := rules.ShotCooldown
	if rapid {
		cooldown = rules.RapidShotCooldown
	}
	if p.HasShot && now-p.LastShot < cooldown {
		return false
	}

	cx, cy := p.Center()
	tx, ty := aim.Target(cx, cy)
	vx, vy, ok := physics.Direction(cx, cy, tx, ty, rules.BulletSpeed)
	if !ok {
		return false
	}

	p.LastShot = now
	p.HasShot = true
	g.stats.ShotsFired++
	g.bullets = append(g.bullets, object.NewBullet(cx, cy, rules.BulletSize, vx, vy, object.ColorCyan))
	if double {
		jx := (g.rand.Float64() - 0.5) * rules.DoubleShotSpread
		jy := (g.rand.Float64() - 0.5) * rules.DoubleShotSpread
		g.bullets = append(g.bullets, object.NewBullet(cx, cy, rules.BulletSize, vx+jx, vy+jy, object.ColorCyan))
	}
	return true
}

func (g *Game) updateTrail() {
	if g.player.Dashing(g.now) {
		life := g.rules.Player.Dash.TrailLife
		g.trail = append(g.trail, object.DashTrail{Rect: g.player.Rect, Life: life, MaxLife: life})
	}
	kept := g.trail[:0]
	for _, t := range g.trail {
		t.Life--
		if t.Life > 0 {
			kept = append(kept, t)
		}
	}
	g.trail = kept
}

func (g *Game) updateBoss() {
	b := &g.boss
	if !b.Alive {
		return
	}
	b.X += b.Speed * b.Dir
	if b.X <= 0 {
		b.X = 0
		b.Dir = 1
	} else if right := g.rules.Viewport.Width - b.W; b.X >= right {
		b.X = right
		b.Dir = -1
	}
}

func (g *Game) updateEnemies() {
	vp := g.rules.Viewport
	margin := g.rules.Enemies.CullMargin
	kept := g.enemies[:0]
	for _, e := range g.enemies {
		e.X += e.Speed * e.Side.Dir()

		switch e.Kind {
		case object.EnemyZigzag:
			e.ZigzagTimer++
			if e.ZigzagTimer > e.ZigzagPeriod {
				e.ZigzagDir = -e.ZigzagDir
				e.ZigzagTimer = 0
			}
			e.Y += e.ZigzagDir * e.ZigzagStep
			if e.Y < 0 {
				e.Y = 0
				e.ZigzagDir = 1
			} else if bottom := vp.Height - e.H; e.Y > bottom {
				e.Y = bottom
				e.ZigzagDir = -1
			}
		case object.EnemyShooter:
			if g.now-e.LastShot >= e.ShotCooldown {
				g.enemyShoot(&e)
				e.LastShot = g.now
			}
		}

		if e.X > vp.Width+margin || e.X < -margin {
			continue
		}
		kept = append(kept, e)
	}
	clear(g.enemies[len(kept):])
	g.enemies = kept
}

func (g *Game) enemyShoot(e *object.Enemy) {
	ex, ey := e.Center()
	px, py := g.player.Center()
	vx, vy, ok := physics.Direction(ex, ey, px, py, e.BulletSpeed)
	if !ok {
		return
	}
	g.enemyBullets = append(g.enemyBullets, object.NewBullet(ex, ey, e.BulletSize, vx, vy, object.ColorRed))
}

// moveBullets advances bullets and drops those whose origin left the viewport.
func moveBullets(bullets []object.Bullet, vp config.Viewport) []object.Bullet {
	kept := bullets[:0]
	for _, b := range bullets {
		b.X += b.VX
		b.Y += b.VY
		if b.OutsidePoint(vp.Width, vp.Height) {
			continue
		}
		kept = append(kept, b)
	}
	clear(bullets[len(kept):])
	return kept
}

func (g *Game) updateParticles() {
	kept := g.particles[:0]
	for _, p := range g.particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life--
		if p.Life > 0 {
			kept = append(kept, p)
		}
	}
	g.particles = kept
}

func (g *Game) updatePowerUps() {
	magnet := g.player.Effects.Active(object.EffectMagnet, g.now)
	px, py := g.player.Center()
	mr := g.rules.Player.Magnet

	kept := g.powerUps[:0]
	for _, pu := range g.powerUps {
		pu.Pulse += powerUpPulseRate
		pu.Glow = 0.5 + math.Sin(pu.Pulse)*0.5
		pu.Rotation += powerUpSpinRate

		if magnet {
			cx, cy := pu.Center()
			if physics.Distance(cx, cy, px, py) < mr.Range {
				if vx, vy, ok := physics.Direction(cx, cy, px, py, mr.Speed); ok {
					pu.X += vx
					pu.Y += vy
				}
			}
		}

		if g.now-pu.SpawnTime > g.rules.PowerUps.Lifetime {
			continue
		}
		kept = append(kept, pu)
	}
	g.powerUps = kept
}

func (g *Game) updateTexts() {
	kept := g.texts[:0]
	for _, t := range g.texts {
		t.Y -= t.Speed
		t.Life--
		if t.Life <= 0 {
			continue
		}
		t.Alpha = float64(t.Life) / float64(t.MaxLife)
		kept = append(kept, t)
	}
	g.texts = kept
}

// explode spawns a burst of count particles at x, y with velocity
// components in (-spread/2, spread/2).
func (g *Game) explode(x, y float64, count int, spread float64, life int, color object.Color) {
	for i := 0; i < count; i++ {
		g.particles = append(g.particles, object.Particle{
			X:       x,
			Y:       y,
			VX:      (g.rand.Float64() - 0.5) * spread,
			VY:      (g.rand.Float64() - 0.5) * spread,
			Life:    life,
			MaxLife: life,
			Color:   color,
			Size:    2,
		})
	}
}

func (g *Game) floatText(x, y float64, msg string, color object.Color) {
	g.texts = append(g.texts, object.FloatingText{
		X:       x,
		Y:       y - floatingTextOffsetY,
		Message: msg,
		Color:   color,
		Speed:   floatingTextSpeed,
		Life:    floatingTextLife,
		MaxLife: floatingTextLife,
		Alpha:   1,
	})
}
