// Package render draws game snapshots and menu screens to an ANSI terminal.
package render

import (
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/store"
)

// Mode is the screen a session is on.
type Mode int

const (
	ModeTitle Mode = iota
	ModePlaying
	ModePaused
	ModeGameOver
	ModeShutdown
)

// View is everything besides the world that a frame shows.
type View struct {
	Mode     Mode
	Player   string
	Ruleset  string
	AutoFire bool
	Notice   string // One-line message, e.g. a failed save

	Inactive          bool
	InactiveRemaining time.Duration
	ShutdownRemaining time.Duration

	Summary *game.Summary // Set on game over
	Rank    int           // Leaderboard rank of Summary, 0 if it did not place
	Best    []store.Entry
}

// Renderer owns the canvas and output buffer of one terminal.
type Renderer struct {
	w        io.Writer
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	sizeFunc draw.TermSizeFunc
	styles   styles
	rand     *rand.Rand

	prevMode     Mode
	prevInactive bool
	started      bool
}

// New creates a renderer for a terminal whose size is reported by sizeFunc,
// showing a logical area of the given viewport.
func New(w io.Writer, sizeFunc draw.TermSizeFunc, vp config.Viewport) *Renderer {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}
	termWidth, termHeight, _ := sizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, vp.Width, vp.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Renderer{
		w:        w,
		canvas:   canvas,
		cw:       draw.NewChunkWriter(w, offsetCol, offsetRow),
		sizeFunc: sizeFunc,
		styles:   newStyles(w),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetViewport changes the logical area a frame shows, e.g. when a reloaded
// ruleset brings a different viewport.
func (r *Renderer) SetViewport(vp config.Viewport) {
	r.canvas.SetLogicalSize(vp.Width, vp.Height)
}

// Begin prepares the terminal: hidden cursor, cleared screen, mouse reports on.
func (r *Renderer) Begin() error {
	return draw.EnterScreen(r.w)
}

// End restores the terminal.
func (r *Renderer) End() error {
	return draw.LeaveScreen(r.w)
}

// ToLogical maps a terminal cell (1-based, as reported by mouse events) to
// viewport coordinates.
func (r *Renderer) ToLogical(col, row int) (x, y float64) {
	return r.canvas.TerminalToLogical(col, row)
}

// Frame draws one frame. snap may be nil when no game is running.
func (r *Renderer) Frame(snap *game.Snapshot, v View) error {
	r.updateScreen()

	// On mode or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if !r.started || v.Mode != r.prevMode || v.Inactive != r.prevInactive {
		r.cw.ClearScreen()
		r.canvas.ForceRedraw()
		r.prevMode = v.Mode
		r.prevInactive = v.Inactive
		r.started = true
	}

	r.canvas.Clear()
	if snap != nil && v.Mode != ModeTitle {
		r.drawWorld(snap)
	}

	r.canvas.Render(r.cw)
	r.canvas.RenderBorder(r.cw)

	if snap != nil && v.Mode != ModeTitle {
		r.drawTexts(snap)
	}
	r.drawUI(snap, v)

	return r.cw.Flush()
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (r *Renderer) updateScreen() {
	termWidth, termHeight, err := r.sizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != r.canvas.TerminalWidth() || renderHeight != r.canvas.TerminalHeight() ||
		offsetCol != r.canvas.OffsetCol() || offsetRow != r.canvas.OffsetRow() {
		r.cw.ClearScreen()
		r.canvas.ForceRedraw()
	}

	r.canvas.Resize(renderWidth, renderHeight)
	r.canvas.SetOffset(offsetCol, offsetRow)
	r.cw.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, config.MaxTermWidth), 1)
	renderHeight = max(min(termHeight, config.MaxTermHeight), 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// writeText writes styled text at a canvas cell and marks the cells so the
// canvas repaints them once the text is gone. width is the visible width.
func (r *Renderer) writeText(col, row int, text string, width int) {
	if row < 1 || row > r.canvas.TerminalHeight() || col < 1 {
		return
	}
	if col+width-1 > r.canvas.TerminalWidth() {
		return
	}
	r.cw.WriteAt(col, row, text)
	r.canvas.MarkTextDirty(col, row, width)
}

// writeCentered writes one line centered on column centerX.
func (r *Renderer) writeCentered(centerX, row int, text string) {
	width := lipgloss.Width(text)
	r.writeText(centerX-width/2, row, text, width)
}

// writeBlock writes a multi-line block (e.g. a lipgloss panel) with its
// top edge at row, centered on centerX. It returns the row after the block.
func (r *Renderer) writeBlock(centerX, row int, block string) int {
	lines := strings.Split(block, "\n")
	width := lipgloss.Width(block)
	col := centerX - width/2
	for i, line := range lines {
		r.writeText(col, row+i, line, lipgloss.Width(line))
	}
	return row + len(lines)
}

// blink reports whether a blinking element is visible at t.
func blink(t time.Time) bool {
	return t.UnixMilli()/600%2 == 0
}
