package game

import (
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// spawn materializes due telegraphs, then rolls for a new enemy and a
// new power-up. Each roll draws exactly one sample before anything else.
func (g *Game) spawn() {
	g.materialize()
	g.rollEnemy()
	g.rollPowerUp()
}

// rollEnemy queues a telegraph on a random edge. Rows too close to the
// player are pushed away so an enemy never appears on top of them.
func (g *Game) rollEnemy() {
	rules := g.rules.Enemies
	if g.rand.Float64() >= rules.SpawnChance {
		return
	}

	side := object.SideRight
	if g.rand.Float64() < 0.5 {
		side = object.SideLeft
	}

	top := g.rules.Viewport.Height - rules.SpawnHeight
	y := g.rand.Float64() * top
	if d := y - g.player.Y; d > -rules.RowMargin && d < rules.RowMargin {
		y = g.player.Y + rules.RowOffset
		if g.rand.Float64() < 0.5 {
			y = g.player.Y - rules.RowOffset
		}
		y = physics.Clamp(y, 0, top)
	}

	g.telegraphs = append(g.telegraphs, object.Telegraph{
		Side:     side,
		Y:        y,
		SpawnAt:  g.now + rules.TelegraphDelay,
		SpeedRef: rules.BaseSpeed + float64(g.score)*rules.SpeedPerPoint,
	})
}

// materialize turns due telegraphs into enemies. The kind is drawn when
// the enemy appears; the speed reference was fixed when it was queued.
func (g *Game) materialize() {
	vp := g.rules.Viewport
	entry := g.rules.Enemies.EntryOffset

	kept := g.telegraphs[:0]
	for _, t := range g.telegraphs {
		t.Pulse += telegraphPulseRate
		if g.now < t.SpawnAt {
			kept = append(kept, t)
			continue
		}

		row := g.enemyLottery.Pick(g.rand)
		k := row.rules
		speed := t.SpeedRef * k.SpeedFactor
		if k.SpeedJitter > 0 {
			speed += g.rand.Float64() * k.SpeedJitter
		}

		x := -entry
		if t.Side == object.SideRight {
			x = vp.Width + entry
		}
		e := object.Enemy{
			Rect: physics.Rect{
				X: x,
				Y: physics.Clamp(t.Y, 0, vp.Height-k.Height),
				W: k.Width,
				H: k.Height,
			},
			Kind:         row.kind,
			Side:         t.Side,
			Speed:        speed,
			Health:       k.Health,
			MaxHealth:    k.Health,
			Points:       k.Points,
			ZigzagDir:    1,
			ZigzagPeriod: k.ZigzagPeriod,
			ZigzagStep:   k.ZigzagStep,
			ShotCooldown: k.ShotCooldown,
			LastShot:     g.now,
			BulletSpeed:  k.BulletSpeed,
			BulletSize:   k.BulletSize,
		}
		g.enemies = append(g.enemies, e)
	}
	g.telegraphs = kept
}

// rollPowerUp spawns a power-up on chance, or unconditionally once the
// guarantee threshold has passed. The chance sample is always drawn.
func (g *Game) rollPowerUp() {
	rules := g.rules.PowerUps
	rolled := g.rand.Float64() < chance(g.level, rules)
	forced := g.guarantee.Due(g.now, g.level, rules)
	if !rolled && !forced {
		return
	}

	row := g.powerUpLottery.Pick(g.rand)
	vp := g.rules.Viewport
	x := g.rand.Float64() * (vp.Width - rules.Size)
	y := g.rand.Float64() * (vp.Height - rules.Size)
	g.powerUps = append(g.powerUps, object.PowerUp{
		Rect:      physics.Rect{X: x, Y: y, W: rules.Size, H: rules.Size},
		Kind:      row.kind,
		SpawnTime: g.now,
	})
	g.guarantee.Spawned(g.now)
	if forced && !rolled {
		g.logger.Debug("power-up guaranteed", "kind", row.kind, "level", g.level, "at", g.now)
	}
}
