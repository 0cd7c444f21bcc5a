// Package physics holds the geometry used for movement and hit-testing.
package physics

import "math"

// Rect is an axis-aligned box with its top-left corner at X, Y.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether r and o strictly overlap on both axes.
// Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Center returns the midpoint of the box.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ClampTo keeps the box fully inside a width x height area.
func (r *Rect) ClampTo(width, height float64) {
	r.X = Clamp(r.X, 0, width-r.W)
	r.Y = Clamp(r.Y, 0, height-r.H)
}

// OutsidePoint reports whether the top-left corner has left the area.
// Bullets use this test: they are dropped once their origin leaves the viewport.
func (r Rect) OutsidePoint(width, height float64) bool {
	return r.X < 0 || r.X > width || r.Y < 0 || r.Y > height
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Direction returns a velocity of the given speed pointing from (fromX, fromY)
// to (toX, toY). ok is false when the points coincide and no direction exists.
func Direction(fromX, fromY, toX, toY, speed float64) (vx, vy float64, ok bool) {
	dx := toX - fromX
	dy := toY - fromY
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return 0, 0, false
	}
	return dx / dist * speed, dy / dist * speed, true
}
