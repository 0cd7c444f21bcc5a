package game

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/control"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

const testTick = 50 * time.Millisecond

// scriptRand replays queued samples, then returns fallback forever.
// The default fallback never wins a spawn roll.
type scriptRand struct {
	vals     []float64
	fallback float64
}

func newScriptRand(vals ...float64) *scriptRand {
	return &scriptRand{vals: vals, fallback: 0.99}
}

func (r *scriptRand) Float64() float64 {
	if len(r.vals) == 0 {
		return r.fallback
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v
}

// quietRules is the full ruleset with a boss that never gets to fire.
func quietRules() *config.Ruleset {
	r := config.Full()
	r.Boss.Levels[0].ShotCooldown = time.Hour
	return r
}

func newTestGame(t *testing.T, rules *config.Ruleset, rnd Rand) *Game {
	t.Helper()
	g, err := New(rules,
		WithRand(rnd),
		WithTickDuration(testTick),
		WithLogger(log.New(io.Discard)),
	)
	require.NoError(t, err)
	return g
}

func ticks(g *Game, n int, in control.State) {
	for i := 0; i < n; i++ {
		g.Tick(in)
	}
}

func TestNewRejectsInvalidRuleset(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	r := config.Full()
	r.Enemies.Kinds = nil
	_, err = New(r)
	require.ErrorIs(t, err, config.ErrInvalidRuleset)
}

func TestNewStartsAtLevelOne(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())

	assert.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 3, g.Lives())
	assert.Equal(t, 0, g.Score())
	assert.True(t, g.boss.Alive)
	assert.Equal(t, "Commander Alpha", g.boss.Name)
	assert.Equal(t, 1.0, g.combo.Multiplier)
	assert.NotEmpty(t, g.RunID())
}

func TestBossBulletDamagesPlayer(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 100, 100
	g.combo.Kill(0, g.rules.Combo)
	g.combo.Kill(0, g.rules.Combo)
	g.bossBullets = append(g.bossBullets, object.NewBullet(100, 100, 8, 0, 0, object.ColorRed))

	g.Tick(control.State{})

	assert.Equal(t, 2, g.Lives())
	assert.True(t, g.player.Invulnerable(g.Now()))
	assert.Equal(t, 0, g.combo.Streak)
	assert.Equal(t, 1.0, g.combo.Multiplier)
	assert.Empty(t, g.bossBullets)
	assert.True(t, g.shake.Active())
	assert.Equal(t, 1, g.stats.LivesLost)
}

func TestShieldAbsorbsExactlyOneHit(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 100, 100
	g.player.Shield = true
	g.bossBullets = append(g.bossBullets,
		object.NewBullet(100, 100, 8, 0, 0, object.ColorRed),
		object.NewBullet(105, 105, 8, 0, 0, object.ColorRed),
	)

	g.Tick(control.State{})
	assert.Equal(t, 3, g.Lives())
	assert.False(t, g.player.Shield)
	assert.False(t, g.player.Invulnerable(g.Now()))
	assert.Len(t, g.bossBullets, 1, "one bullet per tick per category")

	g.Tick(control.State{})
	assert.Equal(t, 2, g.Lives())
	assert.True(t, g.player.Invulnerable(g.Now()))
}

func TestInvulnerabilityBlocksFurtherHits(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 100, 100
	g.enemyBullets = append(g.enemyBullets, object.NewBullet(100, 100, 5, 0, 0, object.ColorRed))
	g.Tick(control.State{})
	require.Equal(t, 2, g.Lives())

	g.enemyBullets = append(g.enemyBullets, object.NewBullet(100, 100, 5, 0, 0, object.ColorRed))
	// 2000ms window from a hit at 50ms; still covered at 2000ms.
	ticks(g, 39, control.State{})
	assert.Equal(t, 2, g.Lives())
	assert.Len(t, g.enemyBullets, 1)

	g.Tick(control.State{})
	assert.Equal(t, 1, g.Lives())
	assert.Empty(t, g.enemyBullets)
}

func TestLastLifeEndsGame(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.lives = 1
	g.player.X, g.player.Y = 100, 100
	g.bossBullets = append(g.bossBullets, object.NewBullet(100, 100, 8, 0, 0, object.ColorRed))

	g.Tick(control.State{})
	assert.Equal(t, PhaseOver, g.Phase())
	assert.Equal(t, 0, g.Lives())

	now := g.Now()
	g.Tick(control.State{})
	assert.Equal(t, now, g.Now(), "ticks after game over are no-ops")

	s := g.Summary()
	assert.True(t, s.Completed)
	assert.Equal(t, 1, s.LivesLost)
	assert.Equal(t, 1, s.DamageTaken)
}

func TestEnemyKillUsesMultiplier(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	for i := 0; i < 10; i++ {
		g.combo.Kill(0, g.rules.Combo)
	}
	require.Equal(t, 2.0, g.combo.Multiplier)

	g.enemies = append(g.enemies, object.Enemy{
		Rect:      physics.Rect{X: 300, Y: 400, W: 25, H: 25},
		Kind:      object.EnemyNormal,
		Health:    1,
		MaxHealth: 1,
		Points:    10,
	})
	g.bullets = append(g.bullets, object.NewBullet(305, 405, 6, 0, 0, object.ColorCyan))

	g.Tick(control.State{})

	assert.Equal(t, 20, g.Score())
	assert.Empty(t, g.enemies)
	assert.Empty(t, g.bullets)
	assert.Len(t, g.particles, 8)
	assert.Equal(t, 11, g.combo.Streak)
	assert.Equal(t, 1, g.stats.Kills[object.EnemyNormal])
	assert.Equal(t, 1, g.stats.ShotsHit)
}

func TestTankTakesTwoHits(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{
		Rect:      physics.Rect{X: 300, Y: 400, W: 35, H: 35},
		Kind:      object.EnemyTank,
		Health:    2,
		MaxHealth: 2,
		Points:    25,
	})
	g.bullets = append(g.bullets, object.NewBullet(305, 405, 6, 0, 0, object.ColorCyan))

	g.Tick(control.State{})
	require.Len(t, g.enemies, 1)
	assert.True(t, g.enemies[0].Damaged())
	assert.Equal(t, 0, g.Score())

	g.bullets = append(g.bullets, object.NewBullet(310, 410, 6, 0, 0, object.ColorCyan))
	g.Tick(control.State{})
	assert.Empty(t, g.enemies)
	assert.Equal(t, 25, g.Score())
}

func TestBulletHitsOnlyFirstEnemy(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	for i := 0; i < 2; i++ {
		g.enemies = append(g.enemies, object.Enemy{
			Rect:      physics.Rect{X: 300, Y: 400, W: 25, H: 25},
			Health:    1,
			MaxHealth: 1,
			Points:    10 * (i + 1),
		})
	}
	g.bullets = append(g.bullets, object.NewBullet(305, 405, 6, 0, 0, object.ColorCyan))

	g.Tick(control.State{})

	require.Len(t, g.enemies, 1)
	assert.Equal(t, 20, g.enemies[0].Points)
	assert.Equal(t, 10, g.Score())
}

func TestRapidFireCooldown(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.Effects.Grant(object.EffectRapidFire, 8*time.Second)
	aim := control.Aim{X: 400, Y: 0}

	g.now = time.Second
	assert.True(t, g.fire(aim))
	g.now += 300 * time.Millisecond
	assert.True(t, g.fire(aim))
	g.now += 250 * time.Millisecond
	assert.False(t, g.fire(aim))

	assert.Len(t, g.bullets, 2)
	assert.Equal(t, 2, g.stats.ShotsFired)
}

func TestNormalCooldownAndLazyExpiry(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	aim := control.Aim{X: 400, Y: 0}
	g.player.Effects.Grant(object.EffectRapidFire, 500*time.Millisecond)

	g.now = 100 * time.Millisecond
	require.True(t, g.fire(aim))
	assert.True(t, g.player.Effects.Flagged(object.EffectRapidFire))

	// Expired by timestamp but only switched off by the next fire attempt.
	g.now = 600 * time.Millisecond
	assert.True(t, g.player.Effects.Flagged(object.EffectRapidFire))
	assert.False(t, g.fire(aim))
	assert.False(t, g.player.Effects.Flagged(object.EffectRapidFire))

	g.now = 1100 * time.Millisecond
	assert.True(t, g.fire(aim))
}

func TestZeroDistanceShotIsDropped(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	cx, cy := g.player.Center()

	assert.False(t, g.fire(control.Aim{X: cx, Y: cy}))
	assert.Empty(t, g.bullets)
	assert.False(t, g.player.HasShot, "a dropped shot does not start the cooldown")
	assert.True(t, g.fire(control.Aim{X: cx, Y: 0}))
}

func TestDoubleShotFiresTwoBullets(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.Effects.Grant(object.EffectDoubleShot, 10*time.Second)

	require.True(t, g.fire(control.Aim{X: 0, Y: -1, Relative: true}))
	require.Len(t, g.bullets, 2)
	assert.Equal(t, g.bullets[0].X, g.bullets[1].X)
	assert.NotEqual(t, g.bullets[0].VX, g.bullets[1].VX)
}

func TestFireHeldThroughTick(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	in := control.State{Fire: true, Aim: control.Aim{X: 0, Y: -1, Relative: true}}

	g.Tick(in)
	assert.Len(t, g.bullets, 1)
	ticks(g, 5, in)
	assert.Len(t, g.bullets, 1, "normal cooldown is one second")
}

func TestDashGrantsImmunity(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 100, 100
	g.enemyBullets = append(g.enemyBullets, object.NewBullet(105, 105, 5, 0, 0, object.ColorRed))

	g.Tick(control.State{Dash: true})
	assert.True(t, g.player.Dashing(g.Now()))
	assert.NotEmpty(t, g.trail)

	// The dash started at 50ms and lasts 1500ms.
	ticks(g, 29, control.State{})
	assert.Equal(t, 3, g.Lives())

	g.Tick(control.State{})
	assert.False(t, g.player.Dashing(g.Now()))
	assert.Equal(t, 2, g.Lives())

	g.Tick(control.State{Dash: true})
	assert.False(t, g.player.Dashing(g.Now()), "dash is cooling down")
}

func TestDashBoostsSpeed(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	x := g.player.X
	g.Tick(control.State{MoveX: 1, Dash: true})
	assert.InDelta(t, x+6, g.player.X, 1e-9)
}

func TestPlayerIsClamped(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	ticks(g, 200, control.State{MoveX: 1, MoveY: 1})
	assert.Equal(t, 780.0, g.player.X)
	assert.Equal(t, 580.0, g.player.Y)

	ticks(g, 200, control.State{MoveX: -1, MoveY: -1})
	assert.Equal(t, 0.0, g.player.X)
	assert.Equal(t, 0.0, g.player.Y)
}

func TestBossStaysInsideViewport(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	sawLeft := false
	for i := 0; i < 1000; i++ {
		g.Tick(control.State{})
		require.GreaterOrEqual(t, g.boss.X, 0.0)
		require.LessOrEqual(t, g.boss.X+g.boss.W, g.rules.Viewport.Width)
		if g.boss.Dir < 0 {
			sawLeft = true
		}
	}
	assert.True(t, sawLeft, "boss should bounce off the right edge")
}

func TestBulletLeavingViewportIsRemoved(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.bullets = append(g.bullets, object.NewBullet(795, 500, 6, 8, 0, object.ColorCyan))
	g.Tick(control.State{})
	assert.Empty(t, g.bullets)
}

func TestEnemyIsCulledPastMargin(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{
		Rect:   physics.Rect{X: 848, Y: 500, W: 25, H: 25},
		Side:   object.SideLeft,
		Speed:  2,
		Health: 1,
	})
	g.Tick(control.State{})
	assert.Len(t, g.enemies, 1, "x == 850 is still kept")
	g.Tick(control.State{})
	assert.Empty(t, g.enemies)
}

func TestTelegraphMaterializes(t *testing.T) {
	rnd := newScriptRand(0.0, 0.2, 0.1)
	g := newTestGame(t, quietRules(), rnd)

	g.Tick(control.State{})
	require.Len(t, g.telegraphs, 1)
	tg := g.telegraphs[0]
	assert.Equal(t, object.SideLeft, tg.Side)
	assert.InDelta(t, 57.0, tg.Y, 1e-9)
	assert.Equal(t, 550*time.Millisecond, tg.SpawnAt)
	assert.Equal(t, 2.0, tg.SpeedRef)

	ticks(g, 9, control.State{})
	assert.Empty(t, g.enemies)
	require.Len(t, g.telegraphs, 1)

	rnd.vals = []float64{0.0, 0.5}
	g.Tick(control.State{})
	assert.Empty(t, g.telegraphs)
	require.Len(t, g.enemies, 1)
	e := g.enemies[0]
	assert.Equal(t, object.EnemyNormal, e.Kind)
	assert.Equal(t, -30.0, e.X)
	assert.InDelta(t, 57.0, e.Y, 1e-9)
	assert.InDelta(t, 2.5, e.Speed, 1e-9)
}

func TestTelegraphAvoidsPlayerRow(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand(0.0, 0.7, 0.5, 0.3))
	require.Equal(t, 300.0, g.player.Y)

	g.Tick(control.State{})
	require.Len(t, g.telegraphs, 1)
	assert.Equal(t, object.SideRight, g.telegraphs[0].Side)
	assert.InDelta(t, 240.0, g.telegraphs[0].Y, 1e-9)
}

func TestTelegraphNearPlayerRowMovesFullOffset(t *testing.T) {
	top := 600.0 - 30
	for _, tc := range []struct {
		name string
		roll float64 // rolled row
		dir  float64
		want float64
	}{
		{"just below, moved up", 339, 0.1, 240},
		{"just below, moved down", 339, 0.9, 360},
		{"just above, moved up", 261, 0.1, 240},
		{"just above, moved down", 261, 0.9, 360},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, quietRules(), newScriptRand(0.0, 0.7, tc.roll/top, tc.dir))
			require.Equal(t, 300.0, g.player.Y)

			g.Tick(control.State{})
			require.Len(t, g.telegraphs, 1)
			y := g.telegraphs[0].Y
			assert.InDelta(t, tc.want, y, 1e-9)
			assert.GreaterOrEqual(t, math.Abs(y-g.player.Y), g.rules.Enemies.RowMargin)
		})
	}
}

func TestTelegraphOffsetIsClamped(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand(0.0, 0.7, 0.0, 0.1))
	g.player.Y = 20

	g.Tick(control.State{})
	require.Len(t, g.telegraphs, 1)
	assert.Zero(t, g.telegraphs[0].Y)
}

func TestSpeedReferenceGrowsWithScore(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand(0.0, 0.2, 0.1))
	g.score = 1000
	g.Tick(control.State{})
	require.Len(t, g.telegraphs, 1)
	assert.InDelta(t, 3.0, g.telegraphs[0].SpeedRef, 1e-9)
}

func TestPowerUpExpires(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.powerUps = append(g.powerUps, object.PowerUp{
		Rect:      physics.Rect{X: 0, Y: 0, W: 30, H: 30},
		Kind:      object.PowerUpShield,
		SpawnTime: 0,
	})

	ticks(g, 300, control.State{})
	assert.Len(t, g.powerUps, 1, "kept while now - spawn == 15s")
	g.Tick(control.State{})
	assert.Empty(t, g.powerUps)
}

func TestGuaranteeForcesSpawn(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	threshold := g.guarantee.Threshold(1, g.rules.PowerUps)
	require.InDelta(t, 23076.9, float64(threshold)/float64(time.Millisecond), 0.1)

	ticks(g, 461, control.State{})
	require.Equal(t, 23050*time.Millisecond, g.Now())
	assert.Empty(t, g.powerUps)

	g.Tick(control.State{})
	require.Len(t, g.powerUps, 1)
	assert.Equal(t, object.PowerUpHealth, g.powerUps[0].Kind, "0.99 lands in the last lottery row")
	assert.Equal(t, g.Now(), g.guarantee.LastSpawn)
	assert.Equal(t, 1, g.guarantee.LevelCount)
}

func TestPowerUpChanceScalesWithLevel(t *testing.T) {
	rules := config.Full().PowerUps
	assert.InDelta(t, 0.0001, chance(1, rules), 1e-12)
	assert.InDelta(t, 0.00015, chance(2, rules), 1e-12)
	assert.InDelta(t, 0.0003, chance(5, rules), 1e-12)
	assert.InDelta(t, 0.0003, chance(50, rules), 1e-12)
}

func TestGuaranteeMinimumIsCapped(t *testing.T) {
	rules := config.Full().PowerUps
	var gu Guarantee
	gu.NewLevel(2, rules)
	assert.Equal(t, 2, gu.MinPerLevel)
	gu.NewLevel(9, rules)
	assert.Equal(t, 4, gu.MinPerLevel)
}

func TestPowerUpPickups(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	px, py := g.player.X, g.player.Y
	for _, kind := range []object.PowerUpKind{object.PowerUpRapidFire, object.PowerUpShield, object.PowerUpDoubleShot, object.PowerUpHealth} {
		g.powerUps = append(g.powerUps, object.PowerUp{
			Rect: physics.Rect{X: px - 5, Y: py - 5, W: 30, H: 30},
			Kind: kind,
		})
	}

	g.Tick(control.State{})

	assert.Empty(t, g.powerUps, "every overlapping power-up is collected in one tick")
	assert.True(t, g.player.Shield)
	assert.Equal(t, 8*time.Second+testTick, mustUntil(t, g, object.EffectRapidFire))
	assert.Equal(t, 10*time.Second+testTick, mustUntil(t, g, object.EffectDoubleShot))
	assert.Equal(t, 3, g.Lives())
	require.Len(t, g.texts, 4)
	assert.Equal(t, "MAX LIVES!", g.texts[3].Message)
	assert.Len(t, g.particles, 4*15)
}

func TestHealthRestoresLife(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.lives = 2
	g.applyPowerUp(object.PowerUpHealth)
	assert.Equal(t, 3, g.Lives())
	assert.Equal(t, "LIFE UP!", g.texts[0].Message)
}

func TestMagnetPullsPowerUps(t *testing.T) {
	r := quietRules()
	r.PowerUps.Kinds = append(r.PowerUps.Kinds, config.PowerUpKindRules{Kind: "magnet", Weight: 0.001, Duration: 5 * time.Second})
	g := newTestGame(t, r, newScriptRand())
	g.player.Effects.Grant(object.EffectMagnet, 5*time.Second)
	g.powerUps = append(g.powerUps, object.PowerUp{
		Rect: physics.Rect{X: g.player.X + 100, Y: g.player.Y, W: 30, H: 30},
		Kind: object.PowerUpShield,
	})
	x := g.powerUps[0].X

	g.Tick(control.State{})
	require.Len(t, g.powerUps, 1)
	assert.Less(t, g.powerUps[0].X, x)
}

func mustUntil(t *testing.T, g *Game, k object.EffectKind) time.Duration {
	t.Helper()
	until, on := g.player.Effects.Until(k)
	require.True(t, on, k.String())
	return until
}

func TestBossDefeatTransitionsOnce(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.boss.Health = 10
	g.bullets = append(g.bullets, object.NewBullet(150, 60, 6, 0, 0, object.ColorCyan))

	g.Tick(control.State{})
	assert.False(t, g.boss.Alive)
	assert.Equal(t, object.BossDefeated, g.bossPhase)
	assert.Equal(t, 525, g.Score())
	assert.Equal(t, 1, g.sched.Pending(ownerLevel))

	ticks(g, 39, control.State{})
	assert.Equal(t, 2000*time.Millisecond, g.Now())
	assert.Equal(t, 1, g.Level(), "no transition before the delay")

	g.Tick(control.State{})
	assert.Equal(t, 2, g.Level())
	assert.True(t, g.boss.Alive)
	assert.Equal(t, "Destructor Beta", g.boss.Name)
	assert.Equal(t, 625, g.Score())
	assert.Equal(t, 0, g.sched.Len())

	ticks(g, 60, control.State{})
	assert.Equal(t, 2, g.Level(), "exactly one transition")
	assert.Equal(t, 1, g.stats.BossesDefeated)
}

func TestLevelTransitionClearsHostiles(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.combo.Kill(0, g.rules.Combo)
	g.enemies = append(g.enemies, object.Enemy{Rect: physics.Rect{X: 600, Y: 500, W: 25, H: 25}, Health: 1})
	g.enemyBullets = append(g.enemyBullets, object.NewBullet(700, 500, 5, 0, 0, object.ColorRed))
	g.bossBullets = append(g.bossBullets, object.NewBullet(700, 550, 8, 0, 0, object.ColorRed))
	g.powerUps = append(g.powerUps, object.PowerUp{Rect: physics.Rect{X: 700, Y: 20, W: 30, H: 30}, SpawnTime: 0})
	g.bullets = append(g.bullets, object.NewBullet(600, 300, 6, 0, 0, object.ColorCyan))
	g.telegraphs = append(g.telegraphs, object.Telegraph{Y: 500, SpawnAt: time.Hour})

	g.defeatBoss()
	g.now += g.rules.TransitionDelay
	g.sched.RunDue(g.now)

	assert.Equal(t, 2, g.Level())
	assert.Empty(t, g.enemies)
	assert.Empty(t, g.enemyBullets)
	assert.Empty(t, g.bossBullets)
	assert.Empty(t, g.powerUps)
	assert.Empty(t, g.telegraphs)
	assert.Len(t, g.bullets, 1, "player bullets survive the transition")
	assert.Equal(t, 1, g.combo.Streak, "combo is untouched")
	assert.Equal(t, 0, g.guarantee.LevelCount)
	assert.Equal(t, 2, g.guarantee.MinPerLevel)
}

func TestBossRushBonusUsesCombo(t *testing.T) {
	g := newTestGame(t, config.BossRush(), newScriptRand())
	require.Equal(t, "Sentinel 1", g.boss.Name)
	require.Equal(t, 3, g.boss.Health)
	assert.InDelta(t, (800.0-80)/2, g.boss.X, 1e-9)

	for i := 0; i < 5; i++ {
		g.combo.Kill(0, g.rules.Combo)
	}
	g.defeatBoss()
	assert.Equal(t, 150, g.Score())
}

func burstRules() *config.Ruleset {
	return patternRules("burst")
}

func TestBurstFiresOverTime(t *testing.T) {
	g := newTestGame(t, burstRules(), newScriptRand())

	ticks(g, 20, control.State{})
	require.Equal(t, time.Second, g.Now())
	assert.Len(t, g.bossBullets, 1)
	assert.Equal(t, 2, g.sched.Pending(Owner(g.boss.Generation)))

	ticks(g, 4, control.State{})
	assert.Len(t, g.bossBullets, 2)

	ticks(g, 4, control.State{})
	assert.Len(t, g.bossBullets, 3)
	assert.Equal(t, 0, g.sched.Len())
}

func TestBurstCancelledByBossDeath(t *testing.T) {
	g := newTestGame(t, burstRules(), newScriptRand())
	ticks(g, 20, control.State{})
	require.Len(t, g.bossBullets, 1)
	gen := Owner(g.boss.Generation)

	g.defeatBoss()
	assert.Equal(t, 0, g.sched.Pending(gen))

	ticks(g, 10, control.State{})
	assert.Len(t, g.bossBullets, 1)
}

func TestStopCancelsDeferredActions(t *testing.T) {
	g := newTestGame(t, burstRules(), newScriptRand())
	ticks(g, 20, control.State{})
	require.Equal(t, 2, g.sched.Len())

	g.Stop()
	assert.Equal(t, PhaseStopped, g.Phase())
	assert.Equal(t, 0, g.sched.Len())

	g.Tick(control.State{})
	assert.Equal(t, time.Second, g.Now())
	assert.Len(t, g.bossBullets, 1)
	assert.False(t, g.Summary().Completed)
}

func patternRules(pattern string) *config.Ruleset {
	r := quietRules()
	r.Boss.Levels[0].Pattern = pattern
	r.Boss.Levels[0].ShotCooldown = time.Second
	return r
}

// firePattern runs the boss to its first shot and returns the boss and
// player centers at the moment it fired.
func firePattern(t *testing.T, pattern string) (g *Game, bx, by, px, py float64) {
	t.Helper()
	g = newTestGame(t, patternRules(pattern), newScriptRand())
	ticks(g, 19, control.State{})
	require.Empty(t, g.bossBullets)

	g.Tick(control.State{})
	bx, by = g.boss.Center()
	px, py = g.player.Center()
	return g, bx, by, px, py
}

func assertAimed(t *testing.T, b object.Bullet, toX, toY, speed float64) {
	t.Helper()
	vx, vy, ok := physics.Direction(b.X, b.Y, toX, toY, speed)
	require.True(t, ok)
	assert.InDelta(t, vx, b.VX, 1e-9)
	assert.InDelta(t, vy, b.VY, 1e-9)
	assert.InDelta(t, speed, math.Hypot(b.VX, b.VY), 1e-9)
}

func TestSinglePatternFiresOneAimedShot(t *testing.T) {
	g, bx, by, px, py := firePattern(t, "single")
	require.Len(t, g.bossBullets, 1)

	b := g.bossBullets[0]
	assert.Equal(t, bx, b.X)
	assert.Equal(t, by, b.Y)
	assertAimed(t, b, px, py, 4)
	assert.Equal(t, 0, g.sched.Len())
}

func TestDoublePatternFiresSpreadPair(t *testing.T) {
	g, bx, by, px, py := firePattern(t, "double")
	require.Len(t, g.bossBullets, 2)

	left, right := g.bossBullets[0], g.bossBullets[1]
	assert.Equal(t, bx-10, left.X)
	assert.Equal(t, bx+10, right.X)
	assert.Equal(t, by, left.Y)
	assert.Equal(t, by, right.Y)
	assertAimed(t, left, px-20, py, 4)
	assertAimed(t, right, px+20, py, 4)
}

func TestChaosPatternFiresFan(t *testing.T) {
	g, bx, by, px, py := firePattern(t, "chaos")
	require.Len(t, g.bossBullets, 3)

	for _, b := range g.bossBullets {
		assert.Equal(t, bx, b.X)
		assert.Equal(t, by, b.Y)
	}
	assertAimed(t, g.bossBullets[0], px, py, 4)
	assertAimed(t, g.bossBullets[1], px-50, py, 3)
	assertAimed(t, g.bossBullets[2], px+50, py, 3)
}

func TestEnemyContactDamagesPlayer(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 300, 300
	g.enemies = append(g.enemies, object.Enemy{
		Rect:   physics.Rect{X: 290, Y: 290, W: 40, H: 40},
		Kind:   object.EnemyNormal,
		Side:   object.SideLeft,
		Health: 1,
	})

	g.Tick(control.State{})

	assert.Equal(t, 2, g.Lives())
	assert.True(t, g.player.Invulnerable(g.Now()))
	assert.Len(t, g.enemies, 1, "contact does not destroy the enemy")

	g.Tick(control.State{})
	assert.Equal(t, 2, g.Lives())
}

func TestBossContactDamagesPlayer(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 300, 300
	g.boss.X, g.boss.Y = 290, 290
	g.boss.Speed = 0
	require.True(t, g.boss.Alive)

	g.Tick(control.State{})

	assert.Equal(t, 2, g.Lives())
	assert.True(t, g.player.Invulnerable(g.Now()))
	assert.Equal(t, g.boss.MaxHealth, g.boss.Health)
	assert.Equal(t, 1, g.stats.LivesLost)
}

func TestLateBossFitsViewport(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.spawnBoss(100)
	vp := g.rules.Viewport

	for range 3 {
		g.Tick(control.State{})
		require.True(t, g.boss.Alive)
		assert.GreaterOrEqual(t, g.boss.X, 0.0)
		assert.LessOrEqual(t, g.boss.X+g.boss.W, vp.Width)
		assert.LessOrEqual(t, g.boss.Y+g.boss.H, vp.Height)
	}
}

func TestDefeatedBossHasNoContact(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.player.X, g.player.Y = 300, 300
	g.boss.X, g.boss.Y = 290, 290
	g.boss.Speed = 0
	g.defeatBoss()

	g.Tick(control.State{})
	assert.Equal(t, 3, g.Lives())
}

func TestShooterFiresAtPlayer(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{
		Rect:         physics.Rect{X: 100, Y: 500, W: 30, H: 30},
		Kind:         object.EnemyShooter,
		Side:         object.SideLeft,
		Health:       1,
		ShotCooldown: 2 * time.Second,
		BulletSpeed:  3,
		BulletSize:   5,
	})

	ticks(g, 39, control.State{})
	assert.Empty(t, g.enemyBullets)
	g.Tick(control.State{})
	require.Len(t, g.enemyBullets, 1)
	assert.Less(t, g.enemyBullets[0].VY, 0.0, "player is above the shooter")
}

func TestZigzagFlipsDirection(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{
		Rect:         physics.Rect{X: 100, Y: 300, W: 22, H: 22},
		Kind:         object.EnemyZigzag,
		Side:         object.SideLeft,
		Health:       1,
		ZigzagDir:    1,
		ZigzagPeriod: 30,
		ZigzagStep:   2,
	})

	ticks(g, 30, control.State{})
	assert.InDelta(t, 360.0, g.enemies[0].Y, 1e-9)
	g.Tick(control.State{})
	assert.InDelta(t, 358.0, g.enemies[0].Y, 1e-9)
}

func TestComboExpiresWithoutKills(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.combo.Kill(0, g.rules.Combo)

	ticks(g, 60, control.State{})
	assert.Equal(t, 1, g.combo.Streak, "3000ms since the kill is still inside the window")
	g.Tick(control.State{})
	assert.Equal(t, 0, g.combo.Streak)
	assert.Equal(t, 1.0, g.combo.Multiplier)
}

func TestSnapshotReusesSlices(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{Rect: physics.Rect{X: 600, Y: 500, W: 25, H: 25}, Health: 1})
	g.player.Shield = true
	g.combo.Kill(0, g.rules.Combo)

	var snap Snapshot
	g.Snapshot(&snap)
	require.Len(t, snap.Enemies, 1)
	assert.Equal(t, 800.0, snap.Width)
	assert.Equal(t, 3, snap.HUD.Lives)
	assert.Equal(t, 1, snap.HUD.Level)
	assert.True(t, snap.HUD.Shield)
	assert.True(t, snap.HUD.DashReady)
	assert.True(t, snap.HUD.DashEnabled)
	assert.Equal(t, "Commander Alpha", snap.HUD.BossName)
	assert.Equal(t, 100, snap.HUD.BossMaxHealth)
	assert.Equal(t, 3*time.Second, snap.HUD.ComboRemaining)

	snap.Enemies[0].X = -1
	assert.Equal(t, 600.0, g.enemies[0].X, "snapshot must not alias game state")

	g.enemies = g.enemies[:0]
	g.Snapshot(&snap)
	assert.Empty(t, snap.Enemies)
	assert.Positive(t, cap(snap.Enemies))
}

func TestSummaryCollectsStats(t *testing.T) {
	g := newTestGame(t, quietRules(), newScriptRand())
	g.enemies = append(g.enemies, object.Enemy{
		Rect:   physics.Rect{X: 300, Y: 100, W: 25, H: 25},
		Kind:   object.EnemyFast,
		Health: 1,
		Points: 15,
	})
	g.bullets = append(g.bullets, object.NewBullet(305, 105, 6, 0, 0, object.ColorCyan))
	g.stats.ShotsFired = 2
	ticks(g, 10, control.State{MoveX: 1})

	s := g.Summary()
	assert.Equal(t, g.RunID(), s.RunID)
	assert.Equal(t, config.RulesetFull, s.Ruleset)
	assert.Equal(t, 15, s.Score)
	assert.Equal(t, map[string]int{"fast": 1}, s.Kills)
	assert.Equal(t, 1, s.TotalKills)
	assert.InDelta(t, 50.0, s.Distance, 1e-9)
	assert.Equal(t, 1, s.MaxCombo)
	assert.Equal(t, 500*time.Millisecond, s.SurvivalTime)
	assert.InDelta(t, 0.5, s.Accuracy(), 1e-9)
	assert.False(t, s.Completed)
}
