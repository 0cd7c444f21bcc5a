package object

// Particle is a short-lived visual effect. Life counts down in ticks.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity per tick
	Life    int
	MaxLife int
	Color   Color
	Size    float64
}

// Fade is the remaining life fraction in [0, 1].
func (p *Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// FloatingText is a message that drifts upward and fades out.
type FloatingText struct {
	X, Y    float64
	Message string
	Color   Color
	Speed   float64 // px per tick, upward
	Life    int
	MaxLife int
	Alpha   float64
}
