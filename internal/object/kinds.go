package object

import "fmt"

// EnemyKind selects enemy movement and weapon behavior.
type EnemyKind int

const (
	EnemyNormal EnemyKind = iota
	EnemyFast
	EnemyTank
	EnemyZigzag
	EnemyShooter
)

// EnemyKinds lists every enemy kind in table order.
var EnemyKinds = []EnemyKind{EnemyNormal, EnemyFast, EnemyTank, EnemyZigzag, EnemyShooter}

var enemyKindNames = [...]string{"normal", "fast", "tank", "zigzag", "shooter"}

func (k EnemyKind) String() string {
	if k >= 0 && int(k) < len(enemyKindNames) {
		return enemyKindNames[k]
	}
	return fmt.Sprintf("enemy(%d)", int(k))
}

// ParseEnemyKind maps a table name to its kind.
func ParseEnemyKind(s string) (EnemyKind, error) {
	for i, name := range enemyKindNames {
		if name == s {
			return EnemyKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown enemy kind %q", s)
}

// PowerUpKind selects the effect applied on pickup.
type PowerUpKind int

const (
	PowerUpRapidFire PowerUpKind = iota
	PowerUpShield
	PowerUpDoubleShot
	PowerUpHealth
	PowerUpMagnet
)

// PowerUpKinds lists every power-up kind.
var PowerUpKinds = []PowerUpKind{PowerUpRapidFire, PowerUpShield, PowerUpDoubleShot, PowerUpHealth, PowerUpMagnet}

var powerUpKindNames = [...]string{"rapid-fire", "shield", "double-shot", "health", "magnet"}

func (k PowerUpKind) String() string {
	if k >= 0 && int(k) < len(powerUpKindNames) {
		return powerUpKindNames[k]
	}
	return fmt.Sprintf("powerup(%d)", int(k))
}

// Timed reports whether the kind grants an effect with an expiry.
func (k PowerUpKind) Timed() bool {
	switch k {
	case PowerUpRapidFire, PowerUpDoubleShot, PowerUpMagnet:
		return true
	}
	return false
}

// Effect returns the player effect a timed kind grants.
func (k PowerUpKind) Effect() (EffectKind, bool) {
	switch k {
	case PowerUpRapidFire:
		return EffectRapidFire, true
	case PowerUpDoubleShot:
		return EffectDoubleShot, true
	case PowerUpMagnet:
		return EffectMagnet, true
	}
	return 0, false
}

// Color is the pickup feedback color.
func (k PowerUpKind) Color() Color {
	switch k {
	case PowerUpRapidFire:
		return ColorRed
	case PowerUpShield:
		return ColorBlue
	case PowerUpDoubleShot:
		return ColorGreen
	case PowerUpHealth:
		return ColorMagenta
	case PowerUpMagnet:
		return ColorPurple
	}
	return ColorWhite
}

// ParsePowerUpKind maps a table name to its kind.
func ParsePowerUpKind(s string) (PowerUpKind, error) {
	for i, name := range powerUpKindNames {
		if name == s {
			return PowerUpKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown power-up kind %q", s)
}

// Pattern is a boss attack pattern.
type Pattern int

const (
	PatternSingle Pattern = iota
	PatternDouble
	PatternBurst
	PatternChaos
)

var patternNames = [...]string{"single", "double", "burst", "chaos"}

func (p Pattern) String() string {
	if p >= 0 && int(p) < len(patternNames) {
		return patternNames[p]
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// ParsePattern maps a table name to its pattern.
func ParsePattern(s string) (Pattern, error) {
	for i, name := range patternNames {
		if name == s {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attack pattern %q", s)
}
