package render

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/object"
)

// styles are the lipgloss styles for text drawn over the canvas.
type styles struct {
	title   lipgloss.Style
	subtle  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	prompt  lipgloss.Style
	panel   lipgloss.Style
	heading lipgloss.Style
	colors  map[draw.Color]lipgloss.Style
}

// newStyles builds styles bound to w. Sessions are remote terminals whose
// capabilities cannot be probed, so the profile is pinned to 256 colors,
// the same palette the canvas uses.
func newStyles(w io.Writer) styles {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(termenv.ANSI256)
	lr.SetHasDarkBackground(true)

	fg := func(c draw.Color) lipgloss.Style {
		return lr.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(c))))
	}

	s := styles{
		title:   fg(draw.Cyan).Bold(true),
		subtle:  fg(draw.Gray),
		label:   fg(draw.Gray),
		value:   fg(draw.White).Bold(true),
		good:    fg(draw.Green).Bold(true),
		warn:    fg(draw.Yellow).Bold(true),
		danger:  fg(draw.Red).Bold(true),
		prompt:  fg(draw.Yellow).Bold(true),
		heading: fg(draw.Magenta).Bold(true),
		panel: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(strconv.Itoa(int(draw.Purple)))).
			Padding(0, 2),
		colors: make(map[draw.Color]lipgloss.Style),
	}
	for _, c := range palette {
		s.colors[c] = fg(c)
	}
	return s
}

// color renders text in a palette color.
func (s *styles) color(c draw.Color, text string) string {
	if st, ok := s.colors[c]; ok {
		return st.Render(text)
	}
	return text
}

// palette maps entity color tags to terminal colors.
var palette = [...]draw.Color{
	object.ColorNone:    draw.None,
	object.ColorWhite:   draw.White,
	object.ColorCyan:    draw.Cyan,
	object.ColorRed:     draw.Red,
	object.ColorOrange:  draw.Orange,
	object.ColorYellow:  draw.Yellow,
	object.ColorGreen:   draw.Green,
	object.ColorBlue:    draw.Blue,
	object.ColorMagenta: draw.Magenta,
	object.ColorPurple:  draw.Purple,
	object.ColorGray:    draw.Gray,
}

func toColor(c object.Color) draw.Color {
	if int(c) < len(palette) {
		return palette[c]
	}
	return draw.White
}

func enemyColor(k object.EnemyKind) draw.Color {
	switch k {
	case object.EnemyFast:
		return draw.Orange
	case object.EnemyTank:
		return draw.Purple
	case object.EnemyZigzag:
		return draw.Green
	case object.EnemyShooter:
		return draw.Magenta
	}
	return draw.Red
}
