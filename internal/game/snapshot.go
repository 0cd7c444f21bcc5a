package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/object"
)

// Snapshot is a read-only copy of the world for rendering.
type Snapshot struct {
	Width, Height float64
	Now           time.Duration
	Tick          uint64
	Phase         Phase

	Player       object.Player
	Boss         object.Boss
	BossPhase    object.BossPhase
	Enemies      []object.Enemy
	Telegraphs   []object.Telegraph
	Bullets      []object.Bullet
	BossBullets  []object.Bullet
	EnemyBullets []object.Bullet
	PowerUps     []object.PowerUp
	Particles    []object.Particle
	Texts        []object.FloatingText
	Trail        []object.DashTrail

	Shake float64
	HUD   HUD
}

// HUD holds the scalars shown around the play area.
type HUD struct {
	Score          int
	Lives          int
	MaxLives       int
	Level          int
	BossName       string
	BossHealth     int
	BossMaxHealth  int
	Streak         int
	Multiplier     float64
	ComboRemaining time.Duration
	RapidFire      time.Duration
	DoubleShot     time.Duration
	Magnet         time.Duration
	Shield         bool
	Invulnerable   time.Duration
	Dashing        bool
	DashRemaining  time.Duration
	DashCooldown   time.Duration
	DashReady      bool
	DashEnabled    bool
	Elapsed        time.Duration
}

// Snapshot copies the world into dst, reusing its slices.
func (g *Game) Snapshot(dst *Snapshot) {
	now := g.now
	dst.Width = g.rules.Viewport.Width
	dst.Height = g.rules.Viewport.Height
	dst.Now = now
	dst.Tick = g.ticks
	dst.Phase = g.phase

	dst.Player = g.player
	dst.Boss = g.boss
	dst.BossPhase = g.bossPhase
	dst.Enemies = append(dst.Enemies[:0], g.enemies...)
	dst.Telegraphs = append(dst.Telegraphs[:0], g.telegraphs...)
	dst.Bullets = append(dst.Bullets[:0], g.bullets...)
	dst.BossBullets = append(dst.BossBullets[:0], g.bossBullets...)
	dst.EnemyBullets = append(dst.EnemyBullets[:0], g.enemyBullets...)
	dst.PowerUps = append(dst.PowerUps[:0], g.powerUps...)
	dst.Particles = append(dst.Particles[:0], g.particles...)
	dst.Texts = append(dst.Texts[:0], g.texts...)
	dst.Trail = append(dst.Trail[:0], g.trail...)
	dst.Shake = g.shake.Intensity()

	p := &g.player
	dashUntil, _ := p.Effects.Until(object.EffectDashCooldown)
	dst.HUD = HUD{
		Score:          g.score,
		Lives:          g.lives,
		MaxLives:       g.rules.Player.MaxLives,
		Level:          g.level,
		BossName:       g.boss.Name,
		BossHealth:     max(g.boss.Health, 0),
		BossMaxHealth:  g.boss.MaxHealth,
		Streak:         g.combo.Streak,
		Multiplier:     g.combo.Multiplier,
		ComboRemaining: g.combo.Remaining(now, g.rules.Combo),
		RapidFire:      p.Effects.Remaining(object.EffectRapidFire, now),
		DoubleShot:     p.Effects.Remaining(object.EffectDoubleShot, now),
		Magnet:         p.Effects.Remaining(object.EffectMagnet, now),
		Shield:         p.Shield,
		Invulnerable:   p.Effects.Remaining(object.EffectInvulnerable, now),
		Dashing:        p.Dashing(now),
		DashRemaining:  p.Effects.Remaining(object.EffectDash, now),
		DashCooldown:   max(dashUntil-now, 0),
		DashReady:      p.CanDash(now),
		DashEnabled:    g.rules.Player.Dash.Duration > 0,
		Elapsed:        now,
	}
}
