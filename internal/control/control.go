// Package control is the boundary between input adapters and the simulation.
// Adapters write a Surface from any goroutine; the game reads it once per tick.
package control

import (
	"math"
	"sync"
)

// State is the control input seen by one tick.
type State struct {
	MoveX, MoveY float64 // each in [-1, 1]
	Aim          Aim
	Fire         bool
	Dash         bool // edge: true for exactly one read after a request
}

// Aim is either an absolute point in viewport coordinates or a direction
// relative to the player center.
type Aim struct {
	X, Y     float64
	Relative bool
}

// Surface accumulates adapter writes between ticks.
type Surface struct {
	mu    sync.Mutex
	state State
	dash  bool
}

// NewSurface creates an idle surface.
func NewSurface() *Surface {
	return &Surface{}
}

// SetMove sets the movement vector. Components are clamped to [-1, 1].
func (s *Surface) SetMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MoveX = clampUnit(x)
	s.state.MoveY = clampUnit(y)
}

// SetAim points the weapon at an absolute viewport position.
func (s *Surface) SetAim(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Aim = Aim{X: x, Y: y}
}

// SetAimDirection points the weapon along (dx, dy) from the player center.
// A zero direction keeps the previous aim.
func (s *Surface) SetAimDirection(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Aim = Aim{X: dx, Y: dy, Relative: true}
}

// SetFire sets whether fire is held.
func (s *Surface) SetFire(held bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Fire = held
}

// RequestDash latches a dash request until the next Read.
func (s *Surface) RequestDash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dash = true
}

// Reset returns the surface to idle, dropping any latched dash.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.dash = false
}

// Read returns the current state and consumes a pending dash request.
func (s *Surface) Read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Dash = s.dash
	s.dash = false
	return st
}

// Target resolves the aim to an absolute point for a player centered at cx, cy.
func (a Aim) Target(cx, cy float64) (x, y float64) {
	if a.Relative {
		return cx + a.X, cy + a.Y
	}
	return a.X, a.Y
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
