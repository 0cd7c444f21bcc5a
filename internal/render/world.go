package render

import (
	"math"
	"time"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

const (
	shieldPadding     = 5
	healthBarHeight   = 5
	healthBarGap      = 8
	telegraphWidth    = 14
	telegraphHeight   = 30
	minFloatTextAlpha = 0.25
)

// drawWorld draws every entity, shifted by the current shake offset.
func (r *Renderer) drawWorld(snap *game.Snapshot) {
	var ox, oy float64
	if snap.Shake > 0 {
		ox = (r.rand.Float64()*2 - 1) * snap.Shake
		oy = (r.rand.Float64()*2 - 1) * snap.Shake
	}
	c := r.canvas
	box := func(rect physics.Rect, color draw.Color) {
		c.FillRect(rect.X+ox, rect.Y+oy, rect.W, rect.H, color)
	}

	for _, t := range snap.Telegraphs {
		r.drawTelegraph(t, snap.Width, ox, oy)
	}

	for _, t := range snap.Trail {
		color := draw.DimGray
		if t.MaxLife > 0 && float64(t.Life)/float64(t.MaxLife) > 0.5 {
			color = draw.Blue
		}
		box(t.Rect, color)
	}

	for _, p := range snap.PowerUps {
		r.drawPowerUp(p, ox, oy)
	}

	for _, e := range snap.Enemies {
		box(e.Rect, enemyColor(e.Kind))
		if e.Kind == object.EnemyTank && e.Damaged() {
			r.healthBar(e.X+ox, e.Y+oy-healthBarGap, e.W, float64(e.Health)/float64(e.MaxHealth))
		}
	}

	if snap.BossPhase == object.BossAlive && snap.Boss.Alive {
		b := snap.Boss
		box(b.Rect, draw.Purple)
		c.StrokeRect(b.X+ox, b.Y+oy, b.W, b.H, draw.Magenta)
		r.healthBar(b.X+ox, b.Y+oy-healthBarGap-healthBarHeight, b.W, b.HealthFraction())
	}

	if blinkVisible(snap.HUD.Invulnerable, config.PlayerBlinkFrequency) {
		p := snap.Player
		color := draw.Cyan
		if snap.HUD.Dashing {
			color = draw.White
		}
		r.drawShip(p.Rect, ox, oy, color)
		if p.Shield {
			c.StrokeRect(p.X+ox-shieldPadding, p.Y+oy-shieldPadding,
				p.W+2*shieldPadding, p.H+2*shieldPadding, draw.Blue)
		}
	}

	for _, list := range [][]object.Bullet{snap.Bullets, snap.EnemyBullets, snap.BossBullets} {
		for _, b := range list {
			box(b.Rect, toColor(b.Color))
		}
	}

	for _, p := range snap.Particles {
		if p.Fade() <= 0 {
			continue
		}
		color := toColor(p.Color)
		if p.Fade() < 0.3 {
			color = draw.DimGray
		}
		c.FillRect(p.X+ox, p.Y+oy, p.Size, p.Size, color)
	}
}

// drawShip draws the player as an arrowhead pointing up inside its box.
func (r *Renderer) drawShip(rect physics.Rect, ox, oy float64, color draw.Color) {
	x, y := rect.X+ox, rect.Y+oy
	pts := r.canvas.BorrowPoints(4)
	pts[0] = draw.Point{X: x + rect.W/2, Y: y}
	pts[1] = draw.Point{X: x + rect.W, Y: y + rect.H}
	pts[2] = draw.Point{X: x + rect.W/2, Y: y + rect.H*0.7}
	pts[3] = draw.Point{X: x, Y: y + rect.H}
	r.canvas.DrawPolygon(pts, color, true)
}

// drawPowerUp draws a spinning, pulsing diamond in the power-up's color.
func (r *Renderer) drawPowerUp(p object.PowerUp, ox, oy float64) {
	cx, cy := p.Center()
	cx += ox
	cy += oy
	radius := p.W / 2 * (1 + 0.15*math.Sin(p.Pulse))
	pts := r.canvas.BorrowPoints(4)
	for i := range pts {
		a := p.Rotation + float64(i)*math.Pi/2
		pts[i] = draw.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	color := toColor(p.Kind.Color())
	r.canvas.DrawPolygon(pts, color, math.Sin(p.Glow) > -0.5)
}

// drawTelegraph draws a warning arrow on the edge an enemy is about to enter from.
func (r *Renderer) drawTelegraph(t object.Telegraph, width, ox, oy float64) {
	color := draw.Red
	if math.Sin(t.Pulse) < 0 {
		color = draw.Orange
	}
	y := t.Y + oy
	pts := r.canvas.BorrowPoints(3)
	if t.Side == object.SideLeft {
		pts[0] = draw.Point{X: ox, Y: y}
		pts[1] = draw.Point{X: ox + telegraphWidth, Y: y + telegraphHeight/2}
		pts[2] = draw.Point{X: ox, Y: y + telegraphHeight}
	} else {
		x := width + ox
		pts[0] = draw.Point{X: x, Y: y}
		pts[1] = draw.Point{X: x - telegraphWidth, Y: y + telegraphHeight/2}
		pts[2] = draw.Point{X: x, Y: y + telegraphHeight}
	}
	r.canvas.DrawPolygon(pts, color, true)
}

// healthBar draws a bar of the given width with the remaining fraction in red.
func (r *Renderer) healthBar(x, y, w, frac float64) {
	frac = physics.Clamp(frac, 0, 1)
	r.canvas.FillRect(x, y, w, healthBarHeight, draw.DimGray)
	if frac > 0 {
		r.canvas.FillRect(x, y, w*frac, healthBarHeight, draw.Red)
	}
}

// drawTexts writes floating combat text over the canvas.
func (r *Renderer) drawTexts(snap *game.Snapshot) {
	for _, t := range snap.Texts {
		if t.Alpha < minFloatTextAlpha {
			continue
		}
		col, row := r.canvas.LogicalToTerminal(t.X, t.Y)
		text := r.styles.color(toColor(t.Color), t.Message)
		width := len([]rune(t.Message))
		r.writeText(col-width/2, row, text, width)
	}
}

// blinkVisible reports whether a blinking element is drawn this frame given
// the remaining blink time and frequency in Hz.
func blinkVisible(remaining time.Duration, freq float64) bool {
	if remaining <= 0 {
		return true
	}
	return int(remaining.Seconds()*freq)%2 == 0
}
