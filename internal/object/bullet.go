package object

import "github.com/tomz197/skyraid/internal/physics"

// Bullet is a projectile. The container it lives in decides who fired it.
type Bullet struct {
	physics.Rect
	VX, VY float64
	Color  Color
}

// NewBullet creates a square bullet with its top-left corner at x, y.
func NewBullet(x, y, size, vx, vy float64, color Color) Bullet {
	return Bullet{
		Rect:  physics.Rect{X: x, Y: y, W: size, H: size},
		VX:    vx,
		VY:    vy,
		Color: color,
	}
}
