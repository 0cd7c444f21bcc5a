package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// Stats are running totals for the end-of-run summary.
type Stats struct {
	Kills          map[object.EnemyKind]int
	BossesDefeated int
	PowerUps       map[object.PowerUpKind]int
	ShotsFired     int
	ShotsHit       int
	DamageTaken    int
	Distance       float64
	MaxCombo       int
	MaxLevel       int
	LivesLost      int
}

func newStats(level int) Stats {
	return Stats{
		Kills:    make(map[object.EnemyKind]int),
		PowerUps: make(map[object.PowerUpKind]int),
		MaxLevel: level,
	}
}

// Summary is the end-of-run record handed to persistence.
type Summary struct {
	RunID          string         `json:"run_id" msgpack:"run_id"`
	Player         string         `json:"player" msgpack:"player"`
	Ruleset        string         `json:"ruleset" msgpack:"ruleset"`
	Score          int            `json:"score" msgpack:"score"`
	Kills          map[string]int `json:"kills" msgpack:"kills"`
	TotalKills     int            `json:"total_kills" msgpack:"total_kills"`
	BossesDefeated int            `json:"bosses_defeated" msgpack:"bosses_defeated"`
	PowerUps       map[string]int `json:"powerups" msgpack:"powerups"`
	TotalPowerUps  int            `json:"total_powerups" msgpack:"total_powerups"`
	ShotsFired     int            `json:"shots_fired" msgpack:"shots_fired"`
	ShotsHit       int            `json:"shots_hit" msgpack:"shots_hit"`
	DamageTaken    int            `json:"damage_taken" msgpack:"damage_taken"`
	Distance       float64        `json:"distance" msgpack:"distance"`
	MaxCombo       int            `json:"max_combo" msgpack:"max_combo"`
	MaxLevel       int            `json:"max_level" msgpack:"max_level"`
	SurvivalTime   time.Duration  `json:"survival_time" msgpack:"survival_time"`
	LivesLost      int            `json:"lives_lost" msgpack:"lives_lost"`
	Completed      bool           `json:"completed" msgpack:"completed"`
	StartedAt      time.Time      `json:"started_at" msgpack:"started_at"`
	EndedAt        time.Time      `json:"ended_at" msgpack:"ended_at"`
}

// Accuracy is shots hit over shots fired, or zero before the first shot.
func (s Summary) Accuracy() float64 {
	if s.ShotsFired == 0 {
		return 0
	}
	return float64(s.ShotsHit) / float64(s.ShotsFired)
}

// Summary builds the run record. It can be called at any time; EndedAt is
// only set once the game is over or stopped.
func (g *Game) Summary() Summary {
	s := Summary{
		RunID:          g.runID,
		Ruleset:        g.rules.Name,
		Score:          g.score,
		Kills:          make(map[string]int, len(g.stats.Kills)),
		BossesDefeated: g.stats.BossesDefeated,
		PowerUps:       make(map[string]int, len(g.stats.PowerUps)),
		ShotsFired:     g.stats.ShotsFired,
		ShotsHit:       g.stats.ShotsHit,
		DamageTaken:    g.stats.DamageTaken,
		Distance:       g.stats.Distance,
		MaxCombo:       g.stats.MaxCombo,
		MaxLevel:       g.stats.MaxLevel,
		SurvivalTime:   g.now,
		LivesLost:      g.stats.LivesLost,
		Completed:      g.phase == PhaseOver,
		StartedAt:      g.startedAt,
		EndedAt:        g.endedAt,
	}
	for kind, n := range g.stats.Kills {
		s.Kills[kind.String()] = n
		s.TotalKills += n
	}
	for kind, n := range g.stats.PowerUps {
		s.PowerUps[kind.String()] = n
		s.TotalPowerUps += n
	}
	return s
}

func (g *Game) trackStats(prevX, prevY float64) {
	g.stats.Distance += physics.Distance(prevX, prevY, g.player.X, g.player.Y)
	g.stats.MaxCombo = max(g.stats.MaxCombo, g.combo.Streak)
	g.stats.MaxLevel = max(g.stats.MaxLevel, g.level)
}
