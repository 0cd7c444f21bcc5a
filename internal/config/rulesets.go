package config

import (
	"fmt"
	"time"
)

// Named returns a built-in ruleset by name.
func Named(name string) (*Ruleset, error) {
	switch name {
	case RulesetFull, "":
		return Full(), nil
	case RulesetBossRush, "bossrush", "simple":
		return BossRush(), nil
	}
	return nil, fmt.Errorf("config: unknown ruleset %q", name)
}

// Full is the complete game: five enemy kinds, shooters, three named
// bosses and an open-ended overlord formula.
func Full() *Ruleset {
	return &Ruleset{
		Name:     RulesetFull,
		Viewport: Viewport{Width: 800, Height: 600},
		Player:   defaultPlayer(),
		Enemies: EnemyRules{
			SpawnChance:        0.02,
			TelegraphDelay:     500 * time.Millisecond,
			SpawnHeight:        30,
			RowMargin:          40,
			RowOffset:          60,
			BaseSpeed:          2,
			SpeedPerPoint:      0.001,
			EntryOffset:        30,
			CullMargin:         50,
			ExplosionParticles: 8,
			Kinds: []EnemyKindRules{
				{Kind: "normal", Weight: 40, Width: 25, Height: 25, SpeedFactor: 1, SpeedJitter: 1, Health: 1, Points: 10},
				{Kind: "fast", Weight: 25, Width: 20, Height: 20, SpeedFactor: 2, SpeedJitter: 1, Health: 1, Points: 15},
				{Kind: "tank", Weight: 15, Width: 35, Height: 35, SpeedFactor: 0.7, Health: 2, Points: 25},
				{Kind: "zigzag", Weight: 15, Width: 22, Height: 22, SpeedFactor: 1.2, Health: 1, Points: 20, ZigzagPeriod: 30, ZigzagStep: 2},
				{
					Kind: "shooter", Weight: 5, Width: 30, Height: 30, SpeedFactor: 0.8, Health: 1, Points: 30,
					ShotCooldown: 2000 * time.Millisecond, BulletSpeed: 3, BulletSize: 5,
				},
			},
		},
		PowerUps: defaultPowerUps(),
		Boss: BossRules{
			Levels: []BossLevel{
				{Name: "Commander Alpha", X: 100, Y: 50, Width: 80, Height: 40, Health: 100, Speed: 2, ShotCooldown: 3000 * time.Millisecond, Pattern: "single", BulletSpeed: 4},
				{Name: "Destructor Beta", X: 80, Y: 40, Width: 100, Height: 50, Health: 150, Speed: 3, ShotCooldown: 2500 * time.Millisecond, Pattern: "double", BulletSpeed: 4},
				{Name: "Annihilator Gamma", X: 60, Y: 30, Width: 120, Height: 60, Health: 200, Speed: 2.5, ShotCooldown: 4000 * time.Millisecond, Pattern: "burst", BulletSpeed: 5},
			},
			Scaling: BossScaling{
				Name:         "Overlord %d",
				Offset:       3,
				X:            40,
				Y:            20,
				Width:        140,
				WidthStep:    10,
				Height:       70,
				HeightStep:   5,
				Health:       250,
				HealthStep:   50,
				Speed:        3,
				SpeedStep:    0.5,
				ShotCooldown: 3000 * time.Millisecond,
				CooldownStep: 200 * time.Millisecond,
				MinCooldown:  1500 * time.Millisecond,
				Pattern:      "chaos",
				BulletSpeed:  4,
			},
			HitDamage:      10,
			HitScore:       25,
			KillBonus:      500,
			BulletSize:     8,
			BurstShots:     3,
			BurstSpacing:   200 * time.Millisecond,
			DeathParticles: 20,
		},
		Combo:           defaultCombo(),
		LevelBonus:      100,
		TransitionDelay: 2000 * time.Millisecond,
	}
}

// BossRush is the short variant: three enemy kinds and a small boss every
// level that takes one damage per hit and pays its bonus through the combo.
func BossRush() *Ruleset {
	r := Full()
	r.Name = RulesetBossRush
	r.Enemies.Kinds = []EnemyKindRules{
		{Kind: "normal", Weight: 60, Width: 25, Height: 25, SpeedFactor: 1, SpeedJitter: 1, Health: 1, Points: 10},
		{Kind: "fast", Weight: 30, Width: 20, Height: 20, SpeedFactor: 2, SpeedJitter: 1, Health: 1, Points: 15},
		{Kind: "tank", Weight: 10, Width: 35, Height: 35, SpeedFactor: 0.7, Health: 2, Points: 25},
	}
	r.Boss = BossRules{
		Scaling: BossScaling{
			Name:         "Sentinel %d",
			Offset:       1,
			Y:            50,
			CenterX:      true,
			Width:        80,
			Height:       60,
			Health:       3,
			HealthStep:   2,
			Speed:        1,
			SpeedStep:    0.3,
			ShotCooldown: 3000 * time.Millisecond,
			MinCooldown:  3000 * time.Millisecond,
			Pattern:      "single",
			BulletSpeed:  3,
		},
		HitDamage:      1,
		HitScore:       0,
		KillBonus:      100,
		KillBonusCombo: true,
		BulletSize:     8,
		BurstShots:     3,
		BurstSpacing:   200 * time.Millisecond,
		DeathParticles: 20,
	}
	return r
}

func defaultPlayer() PlayerRules {
	return PlayerRules{
		Width:             20,
		Height:            20,
		Speed:             5,
		Lives:             3,
		MaxLives:          3,
		Invulnerability:   2000 * time.Millisecond,
		ShotCooldown:      1000 * time.Millisecond,
		RapidShotCooldown: 300 * time.Millisecond,
		BulletSpeed:       8,
		BulletSize:        6,
		DoubleShotSpread:  2,
		Dash: DashRules{
			Duration:    1500 * time.Millisecond,
			Cooldown:    3500 * time.Millisecond,
			SpeedFactor: 1.2,
			TrailLife:   14,
		},
		Magnet: MagnetRules{Range: 150, Speed: 3},
	}
}

func defaultPowerUps() PowerUpRules {
	return PowerUpRules{
		BaseChance:         0.0001,
		LevelStep:          0.5,
		MaxLevelFactor:     3,
		GuaranteeInterval:  30 * time.Second,
		GuaranteeLevelStep: 0.3,
		MaxMinPerLevel:     4,
		Size:               30,
		Lifetime:           15 * time.Second,
		PickupParticles:    15,
		Kinds: []PowerUpKindRules{
			{Kind: "rapid-fire", Weight: 0.0025, Duration: 8 * time.Second},
			{Kind: "shield", Weight: 0.005},
			{Kind: "double-shot", Weight: 0.0005, Duration: 10 * time.Second},
			{Kind: "health", Weight: 0.00005},
		},
	}
}

func defaultCombo() ComboRules {
	return ComboRules{
		Window:        3000 * time.Millisecond,
		StreakStep:    5,
		MultiplierInc: 0.5,
		MaxMultiplier: 5,
	}
}
