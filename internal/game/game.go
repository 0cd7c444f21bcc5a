// Package game is the fixed-tick simulation: movement, spawning, combat
// and the level/boss director. A Game is owned by one goroutine; input
// arrives as a control.State per tick and output leaves as a Snapshot.
package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/control"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// Phase is the lifecycle of a run.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseOver          // Lives ran out
	PhaseStopped       // Stopped by the host before game over
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// gridCellSize covers the largest enemy so bullet queries touch few cells.
const gridCellSize = 50

type enemyRow struct {
	kind  object.EnemyKind
	rules config.EnemyKindRules
}

type powerUpRow struct {
	kind     object.PowerUpKind
	duration time.Duration
}

// Game is one run of the simulation.
type Game struct {
	rules  *config.Ruleset
	rand   Rand
	logger *log.Logger
	tick   time.Duration
	runID  string

	now       time.Duration
	ticks     uint64
	phase     Phase
	startedAt time.Time
	endedAt   time.Time

	player       object.Player
	boss         object.Boss
	bossPhase    object.BossPhase
	generation   uint64
	enemies      []object.Enemy
	telegraphs   []object.Telegraph
	bullets      []object.Bullet
	bossBullets  []object.Bullet
	enemyBullets []object.Bullet
	powerUps     []object.PowerUp
	particles    []object.Particle
	texts        []object.FloatingText
	trail        []object.DashTrail

	score     int
	lives     int
	level     int
	combo     Combo
	guarantee Guarantee
	shake     Shake
	sched     Scheduler
	stats     Stats

	enemyLottery   *Lottery[enemyRow]
	powerUpLottery *Lottery[powerUpRow]
	grid           *physics.SpatialGrid
	consumed       []bool // per-bullet scratch for collision passes
}

// Option configures a Game.
type Option func(*Game)

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(g *Game) { g.rand = r }
}

// WithLogger sets the logger. The game logs level changes and game over.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithTickDuration sets how much simulated time one tick advances.
func WithTickDuration(d time.Duration) Option {
	return func(g *Game) { g.tick = d }
}

// WithStartTime sets the wall-clock start stamped on the summary.
func WithStartTime(t time.Time) Option {
	return func(g *Game) { g.startedAt = t }
}

// New validates the ruleset and starts a run at level 1.
func New(rules *config.Ruleset, opts ...Option) (*Game, error) {
	if rules == nil {
		return nil, fmt.Errorf("game: nil ruleset")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{
		rules:     rules,
		rand:      globalRand{},
		tick:      config.TickDuration,
		runID:     uuid.NewString(),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.tick <= 0 {
		return nil, fmt.Errorf("game: tick duration %v", g.tick)
	}

	var err error
	if g.enemyLottery, err = newEnemyLottery(rules.Enemies.Kinds); err != nil {
		return nil, fmt.Errorf("game: enemy table: %w", err)
	}
	if g.powerUpLottery, err = newPowerUpLottery(rules.PowerUps.Kinds); err != nil {
		return nil, fmt.Errorf("game: power-up table: %w", err)
	}
	g.grid = physics.NewSpatialGrid(rules.Viewport.Width, rules.Viewport.Height, gridCellSize)

	p := rules.Player
	g.player = object.NewPlayer(rules.Viewport.Width/2, rules.Viewport.Height/2, p.Width, p.Height)
	g.player.ClampTo(rules.Viewport.Width, rules.Viewport.Height)
	g.lives = p.Lives
	g.level = 1
	g.combo = newCombo()
	g.stats = newStats(g.level)
	g.guarantee.NewLevel(g.level, rules.PowerUps)
	g.spawnBoss(g.level)

	g.logger.Debug("run started", "run", g.runID, "ruleset", rules.Name)
	return g, nil
}

func newEnemyLottery(kinds []config.EnemyKindRules) (*Lottery[enemyRow], error) {
	rows := make([]enemyRow, 0, len(kinds))
	weights := make([]float64, 0, len(kinds))
	for _, k := range kinds {
		kind, err := object.ParseEnemyKind(k.Kind)
		if err != nil {
			return nil, err
		}
		rows = append(rows, enemyRow{kind: kind, rules: k})
		weights = append(weights, k.Weight)
	}
	return NewLottery(rows, weights)
}

func newPowerUpLottery(kinds []config.PowerUpKindRules) (*Lottery[powerUpRow], error) {
	rows := make([]powerUpRow, 0, len(kinds))
	weights := make([]float64, 0, len(kinds))
	for _, k := range kinds {
		kind, err := object.ParsePowerUpKind(k.Kind)
		if err != nil {
			return nil, err
		}
		rows = append(rows, powerUpRow{kind: kind, duration: k.Duration})
		weights = append(weights, k.Weight)
	}
	return NewLottery(rows, weights)
}

// Tick advances the simulation by one fixed step. It does nothing once
// the run is over or stopped.
func (g *Game) Tick(in control.State) {
	if g.phase != PhasePlaying {
		return
	}
	g.now += g.tick
	g.ticks++
	prevX, prevY := g.player.X, g.player.Y

	g.update(in)
	g.spawn()
	g.bossAttack()
	g.resolveCollisions()
	if g.phase == PhasePlaying {
		g.sched.RunDue(g.now)
	}
	g.trackStats(prevX, prevY)
}

// Stop ends the run early and drops every pending deferred action.
func (g *Game) Stop() {
	g.sched.CancelAll()
	if g.phase == PhasePlaying {
		g.phase = PhaseStopped
		g.endedAt = time.Now()
		g.logger.Debug("run stopped", "run", g.runID, "score", g.score)
	}
}

func (g *Game) gameOver() {
	g.phase = PhaseOver
	g.endedAt = time.Now()
	g.sched.CancelAll()
	g.logger.Info("game over", "run", g.runID, "score", g.score, "level", g.level, "elapsed", g.now)
}

// Phase returns the run lifecycle phase.
func (g *Game) Phase() Phase { return g.phase }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Lives returns the remaining lives.
func (g *Game) Lives() int { return g.lives }

// Level returns the current level.
func (g *Game) Level() int { return g.level }

// Now returns simulated time since the run started.
func (g *Game) Now() time.Duration { return g.now }

// Rules returns the ruleset the run was built with.
func (g *Game) Rules() *config.Ruleset { return g.rules }

// RunID identifies this run.
func (g *Game) RunID() string { return g.runID }
