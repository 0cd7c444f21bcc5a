package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRulesetsAreValid(t *testing.T) {
	for _, name := range []string{RulesetFull, RulesetBossRush} {
		r, err := Named(name)
		require.NoError(t, err, name)
		assert.NoError(t, r.Validate(), name)
	}
}

func TestNamedAliases(t *testing.T) {
	for name, want := range map[string]string{
		"":         RulesetFull,
		"full":     RulesetFull,
		"rush":     RulesetBossRush,
		"bossrush": RulesetBossRush,
		"simple":   RulesetBossRush,
	} {
		r, err := Named(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, r.Name, name)
	}

	_, err := Named("arcade")
	assert.Error(t, err)
}

func TestFullEnemyWeights(t *testing.T) {
	got := map[string]float64{}
	for _, k := range Full().Enemies.Kinds {
		got[k.Kind] = k.Weight
	}
	assert.Equal(t, map[string]float64{"normal": 40, "fast": 25, "tank": 15, "zigzag": 15, "shooter": 5}, got)

	got = map[string]float64{}
	for _, k := range BossRush().Enemies.Kinds {
		got[k.Kind] = k.Weight
	}
	assert.Equal(t, map[string]float64{"normal": 60, "fast": 30, "tank": 10}, got)
}

func TestBossForLevel(t *testing.T) {
	r := Full()
	assert.Equal(t, "Commander Alpha", r.BossForLevel(1).Name)
	assert.Equal(t, "burst", r.BossForLevel(3).Pattern)

	b := r.BossForLevel(4)
	assert.Equal(t, "Overlord 4", b.Name)
	assert.Equal(t, 300, b.Health)
	assert.Equal(t, 150.0, b.Width)
	assert.Equal(t, 3.5, b.Speed)
	assert.Equal(t, 2800*time.Millisecond, b.ShotCooldown)
	assert.Equal(t, "chaos", b.Pattern)

	assert.Equal(t, 1500*time.Millisecond, r.BossForLevel(20).ShotCooldown, "cooldown floor")
	assert.Greater(t, r.BossForLevel(20).Health, r.BossForLevel(10).Health)
}

func TestBossForLevelStaysInViewport(t *testing.T) {
	for _, r := range []*Ruleset{Full(), BossRush()} {
		for _, level := range []int{50, 100, 1000} {
			b := r.BossForLevel(level)
			assert.LessOrEqual(t, b.Width, r.Viewport.Width, "%s level %d", r.Name, level)
			assert.LessOrEqual(t, b.Y+b.Height, r.Viewport.Height, "%s level %d", r.Name, level)
			assert.GreaterOrEqual(t, b.X, 0.0, "%s level %d", r.Name, level)
			assert.LessOrEqual(t, b.X+b.Width, r.Viewport.Width, "%s level %d", r.Name, level)
		}
	}

	b := Full().BossForLevel(100)
	assert.Equal(t, 800.0, b.Width)
	assert.Equal(t, 0.0, b.X)
	assert.Equal(t, 5100, b.Health, "only the size is capped")
}

func TestBossRushScaling(t *testing.T) {
	r := BossRush()
	b := r.BossForLevel(3)
	assert.Equal(t, "Sentinel 3", b.Name)
	assert.Equal(t, 7, b.Health)
	assert.InDelta(t, 1.6, b.Speed, 1e-9)
	assert.Equal(t, 360.0, b.X)
	assert.Equal(t, 3000*time.Millisecond, b.ShotCooldown)
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	cases := map[string]func(r *Ruleset){
		"empty enemies":       func(r *Ruleset) { r.Enemies.Kinds = nil },
		"unknown enemy":       func(r *Ruleset) { r.Enemies.Kinds[0].Kind = "dragon" },
		"zero weight":         func(r *Ruleset) { r.Enemies.Kinds[1].Weight = 0 },
		"empty power-ups":     func(r *Ruleset) { r.PowerUps.Kinds = nil },
		"unknown power-up":    func(r *Ruleset) { r.PowerUps.Kinds[0].Kind = "nuke" },
		"timed w/o duration":  func(r *Ruleset) { r.PowerUps.Kinds[0].Duration = 0 },
		"unknown pattern":     func(r *Ruleset) { r.Boss.Levels[1].Pattern = "spiral" },
		"scaling pattern":     func(r *Ruleset) { r.Boss.Scaling.Pattern = "" },
		"lives over max":      func(r *Ruleset) { r.Player.Lives = 5 },
		"no viewport":         func(r *Ruleset) { r.Viewport.Width = 0 },
		"zigzag period":       func(r *Ruleset) { r.Enemies.Kinds[3].ZigzagPeriod = 0 },
		"shooter weapon":      func(r *Ruleset) { r.Enemies.Kinds[4].BulletSpeed = 0 },
		"combo step":          func(r *Ruleset) { r.Combo.StreakStep = 0 },
		"negative transition": func(r *Ruleset) { r.TransitionDelay = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := Full()
			mutate(r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRuleset)
		})
	}
}

func TestParseRulesetOverlaysBase(t *testing.T) {
	r, err := ParseRuleset([]byte(`
base: rush
name: rush-hard
player:
  lives: 1
  max_lives: 1
enemies:
  spawn_chance: 0.05
combo:
  window: 1500ms
`))
	require.NoError(t, err)
	assert.Equal(t, "rush-hard", r.Name)
	assert.Equal(t, 1, r.Player.Lives)
	assert.Equal(t, 0.05, r.Enemies.SpawnChance)
	assert.Equal(t, 1500*time.Millisecond, r.Combo.Window)
	assert.Len(t, r.Enemies.Kinds, 3, "untouched keys keep the base values")
	assert.Equal(t, 5.0, r.Player.Speed)
}

func TestParseRulesetErrors(t *testing.T) {
	_, err := ParseRuleset([]byte("base: nope\n"))
	assert.Error(t, err)

	_, err = ParseRuleset([]byte("player: [1, 2\n"))
	assert.Error(t, err)

	_, err = ParseRuleset([]byte("enemies:\n  kinds: []\n"))
	assert.ErrorIs(t, err, ErrInvalidRuleset)
}

func TestLoadRulesetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\nlevel_bonus: 250\n"), 0o644))

	r, err := LoadRuleset(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", r.Name)
	assert.Equal(t, 250, r.LevelBonus)

	_, err = LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveRuleset(t *testing.T) {
	r, err := ResolveRuleset("rush", "")
	require.NoError(t, err)
	assert.Equal(t, RulesetBossRush, r.Name)

	_, err = ResolveRuleset("full", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRulesetSourceSwap(t *testing.T) {
	s := NewRulesetSource(Full())
	assert.Equal(t, RulesetFull, s.Load().Name)
	s.Store(BossRush())
	assert.Equal(t, RulesetBossRush, s.Load().Name)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruleset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: first\n"), 0o644))

	source := NewRulesetSource(Full())
	w, err := NewWatcher(path, source, log.New(io.Discard))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("name: second\n"), 0o644))

	select {
	case r := <-w.Reloads:
		assert.Equal(t, "second", r.Name)
		assert.Equal(t, "second", source.Load().Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, w.Close())
	for range w.Reloads {
	}
	assert.Equal(t, "second", source.Load().Name)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SKYRAID_TEST_INT", "42")
	t.Setenv("SKYRAID_TEST_BAD", "forty")
	t.Setenv("SKYRAID_TEST_BOOL", "true")
	t.Setenv("SKYRAID_TEST_DUR", "3s")

	assert.Equal(t, "fallback", GetEnv("SKYRAID_TEST_UNSET", "fallback"))
	assert.Equal(t, 42, GetEnvInt("SKYRAID_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("SKYRAID_TEST_BAD", 1))
	assert.True(t, GetEnvBool("SKYRAID_TEST_BOOL", false))
	assert.Equal(t, 3*time.Second, GetEnvDuration("SKYRAID_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("SKYRAID_TEST_BAD", time.Second))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SKYRAID_DOTENV_TEST=loaded\n"), 0o644))
	t.Setenv("SKYRAID_DOTENV_TEST", "")
	os.Unsetenv("SKYRAID_DOTENV_TEST")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("SKYRAID_DOTENV_TEST"))
}
