package game

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Shake is a screen shake whose intensity decays to zero over its duration.
type Shake struct {
	tween     *gween.Tween
	intensity float64
}

// Trigger starts a new shake, replacing the current one.
func (s *Shake) Trigger(intensity float64, d time.Duration) {
	s.tween = gween.New(float32(intensity), 0, float32(d.Seconds()), ease.OutQuad)
	s.intensity = intensity
}

// Update advances the shake by dt.
func (s *Shake) Update(dt time.Duration) {
	if s.tween == nil {
		return
	}
	current, done := s.tween.Update(float32(dt.Seconds()))
	if done {
		s.tween = nil
		s.intensity = 0
		return
	}
	s.intensity = float64(current)
}

// Intensity is the current maximum offset in pixels.
func (s *Shake) Intensity() float64 {
	return s.intensity
}

// Active reports whether a shake is running.
func (s *Shake) Active() bool {
	return s.tween != nil
}
