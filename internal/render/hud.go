package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/store"
)

// titleArt is the title banner (figlet "small" font).
var titleArt = []string{
	` ___ _  ____   _____    _   ___ ___  `,
	`/ __| |/ /\ \ / / _ \  /_\ |_ _|   \ `,
	`\__ \ ' <  \ V /|   / / _ \ | || |) |`,
	`|___/_|\_\  |_| |_|_\/_/ \_\___|___/ `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

var controlLines = []string{
	"W A S D . . . . . . . . .  Move",
	"Mouse / Arrows / IJKL . . . Aim",
	"Click / SPACE . . . . . .  Fire",
	"F . . . . . . . . . . Auto-fire",
	"E / TAB / R-click . . . .  Dash",
	"P . . . . . . . . . . . . Pause",
	"Q . . . . . . . . . . . .  Quit",
}

// drawUI draws the text layer for the current screen.
func (r *Renderer) drawUI(snap *game.Snapshot, v View) {
	termWidth := r.canvas.TerminalWidth()
	termHeight := r.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if v.Mode == ModeShutdown {
		r.drawShutdownScreen(centerX, centerY, v)
		return
	}

	if v.Inactive {
		r.drawInactivityScreen(centerX, centerY, v)
		return
	}

	switch v.Mode {
	case ModeTitle:
		r.drawTitleScreen(centerX, centerY, v)
	case ModePlaying:
		if snap != nil {
			r.drawHUD(termWidth, termHeight, snap, v)
		}
	case ModePaused:
		if snap != nil {
			r.drawHUD(termWidth, termHeight, snap, v)
		}
		r.drawPauseScreen(centerX, centerY)
	case ModeGameOver:
		r.drawGameOverScreen(centerX, centerY, v)
	}

	if v.Notice != "" {
		r.writeCentered(centerX, termHeight-1, r.styles.warn.Render(v.Notice))
	}
}

// drawHUD draws score, lives and timers on the top and bottom rows.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (r *Renderer) drawHUD(termWidth, termHeight int, snap *game.Snapshot, v View) {
	s := &r.styles
	h := snap.HUD

	left := s.label.Render("SCORE ") + s.value.Render(fmt.Sprintf("%-8d", h.Score)) +
		s.label.Render(" LEVEL ") + s.value.Render(fmt.Sprintf("%-3d", h.Level))
	r.writeText(2, 1, left, lipgloss.Width(left))

	lives := s.danger.Render(strings.Repeat("♥", max(h.Lives, 0))) +
		s.subtle.Render(strings.Repeat("♡", max(h.MaxLives-h.Lives, 0)))
	if h.Lives > h.MaxLives {
		lives = s.danger.Render(fmt.Sprintf("♥x%d", h.Lives))
	}
	r.writeText(termWidth-lipgloss.Width(lives), 1, lives, lipgloss.Width(lives))

	if h.BossName != "" && snap.Boss.Alive {
		boss := s.heading.Render(h.BossName) + s.label.Render(fmt.Sprintf(" %d/%d", h.BossHealth, h.BossMaxHealth))
		r.writeCentered(termWidth/2, 1, boss)
	}

	if h.Streak > 0 {
		combo := s.warn.Render(fmt.Sprintf("x%.1f", h.Multiplier)) +
			s.label.Render(fmt.Sprintf(" combo %-3d %4.1fs", h.Streak, h.ComboRemaining.Seconds()))
		r.writeText(2, 2, combo, lipgloss.Width(combo))
	}

	var effects []string
	if h.Shield {
		effects = append(effects, s.color(draw.Blue, "SHIELD"))
	}
	effects = appendTimer(effects, s, "RAPID", h.RapidFire, s.danger)
	effects = appendTimer(effects, s, "DOUBLE", h.DoubleShot, s.good)
	effects = appendTimer(effects, s, "MAGNET", h.Magnet, s.heading)
	if v.AutoFire {
		effects = append(effects, s.subtle.Render("AUTO"))
	}
	if len(effects) > 0 {
		line := strings.Join(effects, "  ")
		r.writeText(2, termHeight, line, lipgloss.Width(line))
	}

	if h.DashEnabled {
		var dash string
		switch {
		case h.Dashing:
			dash = s.good.Render(fmt.Sprintf("DASH %4.1fs", h.DashRemaining.Seconds()))
		case h.DashReady:
			dash = s.value.Render("DASH READY")
		default:
			dash = s.subtle.Render(fmt.Sprintf("DASH %4.1fs", h.DashCooldown.Seconds()))
		}
		r.writeText(termWidth-lipgloss.Width(dash), termHeight, dash, lipgloss.Width(dash))
	}

	elapsed := s.subtle.Render(formatClock(h.Elapsed))
	r.writeCentered(termWidth/2, termHeight, elapsed)
}

func appendTimer(out []string, s *styles, name string, d time.Duration, st lipgloss.Style) []string {
	if d <= 0 {
		return out
	}
	return append(out, st.Render(fmt.Sprintf("%s %4.1fs", name, d.Seconds())))
}

// drawTitleScreen draws the banner, controls, best scores and start prompt.
func (r *Renderer) drawTitleScreen(centerX, centerY int, v View) {
	s := &r.styles
	row := max(centerY-10, 1)
	for _, line := range titleArt {
		r.writeCentered(centerX, row, s.title.Render(line))
		row++
	}
	row++
	r.writeCentered(centerX, row, s.subtle.Render("~ Arcade shooter over SSH ~"))
	row += 2

	var controls strings.Builder
	controls.WriteString(s.heading.Render("Controls"))
	for _, line := range controlLines {
		controls.WriteString("\n" + line)
	}
	panels := []string{s.panel.Render(controls.String())}
	if len(v.Best) > 0 {
		panels = append(panels, s.panel.Render(r.bestScores(v.Best)))
	}
	row = r.writeBlock(centerX, row, lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	row++

	if v.Player != "" {
		r.writeCentered(centerX, row, s.label.Render("Pilot ")+s.value.Render(v.Player)+
			s.label.Render("  Ruleset ")+s.value.Render(v.Ruleset))
	}
	row += 2

	if blink(time.Now()) {
		r.writeCentered(centerX, row, s.prompt.Render(">>  Press SPACE to Start  <<"))
	}
}

func (r *Renderer) bestScores(best []store.Entry) string {
	s := &r.styles
	var b strings.Builder
	b.WriteString(s.heading.Render("Best Pilots"))
	for _, e := range best {
		player := e.Player
		if player == "" {
			player = "anonymous"
		}
		if len([]rune(player)) > 12 {
			player = string([]rune(player)[:12])
		}
		fmt.Fprintf(&b, "\n%2d. %-12s %8d  L%d", e.Rank, player, e.Score, e.Level)
	}
	return b.String()
}

// drawPauseScreen draws the pause panel over the frozen world.
func (r *Renderer) drawPauseScreen(centerX, centerY int) {
	s := &r.styles
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.title.Render("PAUSED"),
		"",
		s.label.Render("P to resume, Q to quit"),
	)
	r.writeBlock(centerX, centerY-2, s.panel.Render(body))
}

// drawGameOverScreen draws the run summary and restart prompt.
func (r *Renderer) drawGameOverScreen(centerX, centerY int, v View) {
	s := &r.styles
	row := max(centerY-10, 1)
	for _, line := range gameOverArt {
		r.writeCentered(centerX, row, s.danger.Render(line))
		row++
	}
	row++

	if sum := v.Summary; sum != nil {
		if v.Rank == 1 {
			r.writeCentered(centerX, row, s.good.Render("NEW HIGH SCORE!"))
		} else if v.Rank > 1 {
			r.writeCentered(centerX, row, s.good.Render(fmt.Sprintf("You placed #%d", v.Rank)))
		}
		row++
		row = r.writeBlock(centerX, row, s.panel.Render(r.summaryTable(sum)))
	}
	row++

	if blink(time.Now()) {
		r.writeCentered(centerX, row, s.prompt.Render(">>  Press SPACE to Restart  <<"))
	}
}

func (r *Renderer) summaryTable(sum *game.Summary) string {
	s := &r.styles
	rows := [][2]string{
		{"Score", fmt.Sprint(sum.Score)},
		{"Level reached", fmt.Sprint(sum.MaxLevel)},
		{"Enemies destroyed", fmt.Sprint(sum.TotalKills)},
		{"Bosses defeated", fmt.Sprint(sum.BossesDefeated)},
		{"Power-ups", fmt.Sprint(sum.TotalPowerUps)},
		{"Accuracy", fmt.Sprintf("%.0f%%", sum.Accuracy()*100)},
		{"Best combo", fmt.Sprint(sum.MaxCombo)},
		{"Survived", formatClock(sum.SurvivalTime)},
		{"Distance", fmt.Sprintf("%.0f px", sum.Distance)},
	}
	var b strings.Builder
	for i, kv := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.label.Render(fmt.Sprintf("%-18s", kv[0])) + s.value.Render(fmt.Sprintf("%10s", kv[1])))
	}
	return b.String()
}

// drawInactivityScreen draws the inactivity warning screen.
func (r *Renderer) drawInactivityScreen(centerX, centerY int, v View) {
	s := &r.styles
	r.writeCentered(centerX, centerY-2, s.warn.Render("INACTIVITY WARNING"))
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(v.InactiveRemaining.Seconds()),
	)
	r.writeCentered(centerX, centerY, msg)
	r.writeCentered(centerX, centerY+2, s.subtle.Render("Press any key to continue"))
}

// drawShutdownScreen draws the server shutdown notification screen.
func (r *Renderer) drawShutdownScreen(centerX, centerY int, v View) {
	s := &r.styles
	r.writeCentered(centerX, centerY-3, s.danger.Render("SERVER SHUTTING DOWN"))
	r.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	r.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(v.ShutdownRemaining.Seconds()) + 1
	r.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	r.writeCentered(centerX, centerY+4, s.subtle.Render("Press Q to disconnect now"))
}

// formatClock renders a duration as m:ss.
func formatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
