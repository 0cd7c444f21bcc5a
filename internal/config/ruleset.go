package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/skyraid/internal/object"
)

// ErrInvalidRuleset is wrapped by every validation failure.
var ErrInvalidRuleset = errors.New("invalid ruleset")

// Ruleset names understood by Named.
const (
	RulesetFull     = "full"
	RulesetBossRush = "rush"
)

// Ruleset is the complete table-driven description of one game variant.
// The engine has no per-variant branches; everything that differs lives here.
type Ruleset struct {
	Name            string        `yaml:"name"`
	Viewport        Viewport      `yaml:"viewport"`
	Player          PlayerRules   `yaml:"player"`
	Enemies         EnemyRules    `yaml:"enemies"`
	PowerUps        PowerUpRules  `yaml:"powerups"`
	Boss            BossRules     `yaml:"boss"`
	Combo           ComboRules    `yaml:"combo"`
	LevelBonus      int           `yaml:"level_bonus"`
	TransitionDelay time.Duration `yaml:"transition_delay"`
}

// Viewport is the logical play area in pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerRules configures the player ship and its weapon.
type PlayerRules struct {
	Width             float64       `yaml:"width"`
	Height            float64       `yaml:"height"`
	Speed             float64       `yaml:"speed"` // px per tick
	Lives             int           `yaml:"lives"`
	MaxLives          int           `yaml:"max_lives"`
	Invulnerability   time.Duration `yaml:"invulnerability"`
	ShotCooldown      time.Duration `yaml:"shot_cooldown"`
	RapidShotCooldown time.Duration `yaml:"rapid_shot_cooldown"`
	BulletSpeed       float64       `yaml:"bullet_speed"`
	BulletSize        float64       `yaml:"bullet_size"`
	DoubleShotSpread  float64       `yaml:"double_shot_spread"`
	Dash              DashRules     `yaml:"dash"`
	Magnet            MagnetRules   `yaml:"magnet"`
}

// DashRules configures the dash. Cooldown is measured from dash start.
type DashRules struct {
	Duration    time.Duration `yaml:"duration"`
	Cooldown    time.Duration `yaml:"cooldown"`
	SpeedFactor float64       `yaml:"speed_factor"`
	TrailLife   int           `yaml:"trail_life"` // ticks
}

// MagnetRules configures power-up attraction while the magnet effect is active.
type MagnetRules struct {
	Range float64 `yaml:"range"`
	Speed float64 `yaml:"speed"`
}

// EnemyRules configures telegraphed enemy spawning.
type EnemyRules struct {
	SpawnChance        float64          `yaml:"spawn_chance"` // per tick
	TelegraphDelay     time.Duration    `yaml:"telegraph_delay"`
	SpawnHeight        float64          `yaml:"spawn_height"` // rows are drawn from [0, H-SpawnHeight)
	RowMargin          float64          `yaml:"row_margin"`
	RowOffset          float64          `yaml:"row_offset"`
	BaseSpeed          float64          `yaml:"base_speed"`
	SpeedPerPoint      float64          `yaml:"speed_per_point"`
	EntryOffset        float64          `yaml:"entry_offset"`
	CullMargin         float64          `yaml:"cull_margin"`
	ExplosionParticles int              `yaml:"explosion_particles"`
	Kinds              []EnemyKindRules `yaml:"kinds"`
}

// EnemyKindRules is one row of the enemy lottery.
type EnemyKindRules struct {
	Kind         string        `yaml:"kind"`
	Weight       float64       `yaml:"weight"`
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	SpeedFactor  float64       `yaml:"speed_factor"`
	SpeedJitter  float64       `yaml:"speed_jitter"`
	Health       int           `yaml:"health"`
	Points       int           `yaml:"points"`
	ZigzagPeriod int           `yaml:"zigzag_period,omitempty"` // ticks
	ZigzagStep   float64       `yaml:"zigzag_step,omitempty"`
	ShotCooldown time.Duration `yaml:"shot_cooldown,omitempty"`
	BulletSpeed  float64       `yaml:"bullet_speed,omitempty"`
	BulletSize   float64       `yaml:"bullet_size,omitempty"`
}

// PowerUpRules configures power-up spawning, lifetime and effects.
type PowerUpRules struct {
	BaseChance         float64            `yaml:"base_chance"`
	LevelStep          float64            `yaml:"level_step"`
	MaxLevelFactor     float64            `yaml:"max_level_factor"`
	GuaranteeInterval  time.Duration      `yaml:"guarantee_interval"`
	GuaranteeLevelStep float64            `yaml:"guarantee_level_step"`
	MaxMinPerLevel     int                `yaml:"max_min_per_level"`
	Size               float64            `yaml:"size"`
	Lifetime           time.Duration      `yaml:"lifetime"`
	PickupParticles    int                `yaml:"pickup_particles"`
	Kinds              []PowerUpKindRules `yaml:"kinds"`
}

// PowerUpKindRules is one row of the power-up lottery. Duration is ignored
// for kinds without a timed effect (shield, health).
type PowerUpKindRules struct {
	Kind     string        `yaml:"kind"`
	Weight   float64       `yaml:"weight"`
	Duration time.Duration `yaml:"duration,omitempty"`
}

// BossRules configures the per-level boss.
type BossRules struct {
	Levels         []BossLevel   `yaml:"levels"`
	Scaling        BossScaling   `yaml:"scaling"`
	HitDamage      int           `yaml:"hit_damage"`
	HitScore       int           `yaml:"hit_score"`
	KillBonus      int           `yaml:"kill_bonus"`
	KillBonusCombo bool          `yaml:"kill_bonus_combo"`
	BulletSize     float64       `yaml:"bullet_size"`
	BurstShots     int           `yaml:"burst_shots"`
	BurstSpacing   time.Duration `yaml:"burst_spacing"`
	DeathParticles int           `yaml:"death_particles"`
}

// BossLevel is a hand-tuned boss for one level. Levels[0] is level 1.
type BossLevel struct {
	Name         string        `yaml:"name"`
	X            float64       `yaml:"x"`
	Y            float64       `yaml:"y"`
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Health       int           `yaml:"health"`
	Speed        float64       `yaml:"speed"`
	ShotCooldown time.Duration `yaml:"shot_cooldown"`
	Pattern      string        `yaml:"pattern"`
	BulletSpeed  float64       `yaml:"bullet_speed"`
}

// BossScaling builds bosses for levels past the hand-tuned table.
// Every stat is Base + Step*s where s = level - Offset.
type BossScaling struct {
	Name         string        `yaml:"name"` // fmt pattern taking the level
	Offset       int           `yaml:"offset"`
	X            float64       `yaml:"x"`
	Y            float64       `yaml:"y"`
	CenterX      bool          `yaml:"center_x"`
	Width        float64       `yaml:"width"`
	WidthStep    float64       `yaml:"width_step"`
	Height       float64       `yaml:"height"`
	HeightStep   float64       `yaml:"height_step"`
	Health       int           `yaml:"health"`
	HealthStep   int           `yaml:"health_step"`
	Speed        float64       `yaml:"speed"`
	SpeedStep    float64       `yaml:"speed_step"`
	ShotCooldown time.Duration `yaml:"shot_cooldown"`
	CooldownStep time.Duration `yaml:"cooldown_step"`
	MinCooldown  time.Duration `yaml:"min_cooldown"`
	Pattern      string        `yaml:"pattern"`
	BulletSpeed  float64       `yaml:"bullet_speed"`
}

// ComboRules configures the kill-streak multiplier.
type ComboRules struct {
	Window        time.Duration `yaml:"window"`
	StreakStep    int           `yaml:"streak_step"`
	MultiplierInc float64       `yaml:"multiplier_inc"`
	MaxMultiplier float64       `yaml:"max_multiplier"`
}

// BossForLevel returns the boss definition for a level, using the hand-tuned
// table first and the scaling formula after it.
func (r *Ruleset) BossForLevel(level int) BossLevel {
	if level >= 1 && level <= len(r.Boss.Levels) {
		return r.Boss.Levels[level-1]
	}
	sc := r.Boss.Scaling
	s := level - sc.Offset
	b := BossLevel{
		Name:        fmt.Sprintf(sc.Name, level),
		X:           sc.X,
		Y:           sc.Y,
		Width:       sc.Width + sc.WidthStep*float64(s),
		Height:      sc.Height + sc.HeightStep*float64(s),
		Health:      sc.Health + sc.HealthStep*s,
		Speed:       sc.Speed + sc.SpeedStep*float64(s),
		Pattern:     sc.Pattern,
		BulletSpeed: sc.BulletSpeed,
	}
	b.ShotCooldown = max(sc.ShotCooldown-sc.CooldownStep*time.Duration(s), sc.MinCooldown)

	// Growth stops at the play area.
	b.Width = min(b.Width, r.Viewport.Width)
	b.Height = min(b.Height, max(r.Viewport.Height-b.Y, 1))
	if sc.CenterX {
		b.X = (r.Viewport.Width - b.Width) / 2
	} else {
		b.X = min(b.X, r.Viewport.Width-b.Width)
	}
	return b
}

// PowerUpKind returns the table row for a power-up kind.
func (r *Ruleset) PowerUpKind(kind object.PowerUpKind) (PowerUpKindRules, bool) {
	for _, k := range r.PowerUps.Kinds {
		if k.Kind == kind.String() {
			return k, true
		}
	}
	return PowerUpKindRules{}, false
}

// Validate checks the ruleset for tables the engine cannot run with.
func (r *Ruleset) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRuleset)
	}
	if r.Viewport.Width <= 0 || r.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %vx%v", ErrInvalidRuleset, r.Viewport.Width, r.Viewport.Height)
	}

	p := r.Player
	if p.Width <= 0 || p.Height <= 0 || p.Width > r.Viewport.Width || p.Height > r.Viewport.Height {
		return fmt.Errorf("%w: player size %vx%v", ErrInvalidRuleset, p.Width, p.Height)
	}
	if p.Lives <= 0 || p.MaxLives < p.Lives {
		return fmt.Errorf("%w: lives %d, max %d", ErrInvalidRuleset, p.Lives, p.MaxLives)
	}
	if p.BulletSpeed <= 0 || p.BulletSize <= 0 {
		return fmt.Errorf("%w: player bullet", ErrInvalidRuleset)
	}
	if p.ShotCooldown < 0 || p.RapidShotCooldown < 0 {
		return fmt.Errorf("%w: negative shot cooldown", ErrInvalidRuleset)
	}

	if len(r.Enemies.Kinds) == 0 {
		return fmt.Errorf("%w: empty enemy table", ErrInvalidRuleset)
	}
	if r.Enemies.SpawnHeight >= r.Viewport.Height {
		return fmt.Errorf("%w: enemy spawn height %v", ErrInvalidRuleset, r.Enemies.SpawnHeight)
	}
	for _, k := range r.Enemies.Kinds {
		kind, err := object.ParseEnemyKind(k.Kind)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRuleset, err)
		}
		if k.Weight <= 0 {
			return fmt.Errorf("%w: enemy %s weight %v", ErrInvalidRuleset, k.Kind, k.Weight)
		}
		if k.Health <= 0 || k.Width <= 0 || k.Height <= 0 {
			return fmt.Errorf("%w: enemy %s stats", ErrInvalidRuleset, k.Kind)
		}
		if kind == object.EnemyZigzag && k.ZigzagPeriod <= 0 {
			return fmt.Errorf("%w: zigzag period %d", ErrInvalidRuleset, k.ZigzagPeriod)
		}
		if kind == object.EnemyShooter && (k.ShotCooldown <= 0 || k.BulletSpeed <= 0 || k.BulletSize <= 0) {
			return fmt.Errorf("%w: shooter weapon", ErrInvalidRuleset)
		}
	}

	if len(r.PowerUps.Kinds) == 0 {
		return fmt.Errorf("%w: empty power-up table", ErrInvalidRuleset)
	}
	if r.PowerUps.Size <= 0 || r.PowerUps.Lifetime <= 0 || r.PowerUps.GuaranteeInterval <= 0 {
		return fmt.Errorf("%w: power-up size/lifetime/interval", ErrInvalidRuleset)
	}
	for _, k := range r.PowerUps.Kinds {
		kind, err := object.ParsePowerUpKind(k.Kind)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRuleset, err)
		}
		if k.Weight <= 0 {
			return fmt.Errorf("%w: power-up %s weight %v", ErrInvalidRuleset, k.Kind, k.Weight)
		}
		if kind.Timed() && k.Duration <= 0 {
			return fmt.Errorf("%w: power-up %s needs a duration", ErrInvalidRuleset, k.Kind)
		}
	}

	for i, b := range r.Boss.Levels {
		if err := validateBoss(b); err != nil {
			return fmt.Errorf("%w: boss level %d: %w", ErrInvalidRuleset, i+1, err)
		}
	}
	if err := validateBoss(r.BossForLevel(len(r.Boss.Levels) + 1)); err != nil {
		return fmt.Errorf("%w: boss scaling: %w", ErrInvalidRuleset, err)
	}
	if r.Boss.HitDamage <= 0 || r.Boss.BulletSize <= 0 {
		return fmt.Errorf("%w: boss hit damage/bullet size", ErrInvalidRuleset)
	}
	if r.Boss.BurstShots <= 0 {
		return fmt.Errorf("%w: burst shots %d", ErrInvalidRuleset, r.Boss.BurstShots)
	}

	if r.Combo.StreakStep <= 0 || r.Combo.MaxMultiplier < 1 || r.Combo.Window <= 0 {
		return fmt.Errorf("%w: combo", ErrInvalidRuleset)
	}
	if r.TransitionDelay < 0 {
		return fmt.Errorf("%w: transition delay %v", ErrInvalidRuleset, r.TransitionDelay)
	}
	return nil
}

func validateBoss(b BossLevel) error {
	if _, err := object.ParsePattern(b.Pattern); err != nil {
		return err
	}
	if b.Health <= 0 {
		return fmt.Errorf("health %d", b.Health)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("size %vx%v", b.Width, b.Height)
	}
	if b.ShotCooldown <= 0 || b.BulletSpeed <= 0 {
		return fmt.Errorf("cooldown %v, bullet speed %v", b.ShotCooldown, b.BulletSpeed)
	}
	return nil
}
