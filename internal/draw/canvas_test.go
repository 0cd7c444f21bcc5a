package draw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(c *Canvas) string {
	var sb strings.Builder
	c.Render(&sb)
	return sb.String()
}

func TestCanvasRendersOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRect(0, 0, 1, 1, Red)

	first := render(c)
	require.Contains(t, first, "\033[1;1H")
	assert.Contains(t, first, "\033[0;38;5;196m▀")

	assert.Empty(t, render(c), "nothing changed")

	c.Clear()
	c.FillRect(1, 1, 1, 1, Red)
	assert.Equal(t, "\033[1;1H\033[0m \033[0;38;5;196m▄\033[0m", render(c))
}

func TestCanvasSetLogicalSizeRescales(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	x, y := c.TerminalToLogical(2, 2)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, 3.0, y)
	render(c)

	c.SetLogicalSize(8, 8)
	x, y = c.TerminalToLogical(2, 2)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 6.0, y)

	c.FillRect(0, 0, 2, 2, Red)
	out := render(c)
	assert.Contains(t, out, "\033[1;1H\033[0;38;5;196m▀", "a 2x2 box now covers one pixel")
	assert.Equal(t, 1, strings.Count(out, "▀"))

	c.Clear()
	render(c)
	c.SetLogicalSize(8, 8)
	assert.Empty(t, render(c), "same size keeps the diff")
}

func TestCanvasTwoColorsShareACell(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.FillRect(0, 0, 1, 1, Red)
	c.FillRect(0, 1, 1, 1, Blue)
	assert.Contains(t, render(c), "\033[0;38;5;196;48;5;33m▀")
}

func TestCanvasForceRedrawAndDirtyText(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRect(0, 0, 4, 4, Blue)
	assert.Equal(t, 8, strings.Count(render(c), "█"))

	c.MarkTextDirty(2, 1, 1)
	assert.Equal(t, "\033[1;2H\033[0;38;5;33m█\033[0m", render(c))

	c.ForceRedraw()
	assert.Equal(t, 8, strings.Count(render(c), "█"))
}

func TestCanvasFillRectCoversThinBoxes(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(42, 42, 1, 1, Yellow)
	out := render(c)
	assert.Contains(t, out, "38;5;226")
}

func TestCanvasDrawLineAndPolygon(t *testing.T) {
	c := NewScaledCanvas(8, 4, 8, 8)
	c.DrawLine(Point{0, 0}, Point{7, 0}, Green)
	assert.Equal(t, 8, strings.Count(render(c), "▀"))

	c.Clear()
	pts := c.BorrowPoints(4)
	pts[0], pts[1], pts[2], pts[3] = Point{0, 0}, Point{7, 0}, Point{7, 7}, Point{0, 7}
	c.DrawPolygon(pts, Green, true)
	assert.Equal(t, 32, strings.Count(render(c), "█"))
}

func TestCanvasCoordinateMapping(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	x, y := c.TerminalToLogical(1, 1)
	assert.InDelta(t, 0.5, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)

	c.SetOffset(2, 1)
	x, y = c.TerminalToLogical(3, 2)
	assert.InDelta(t, 0.5, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)

	col, row := c.LogicalToTerminal(2, 3)
	assert.Equal(t, 3, col)
	assert.Equal(t, 2, row)
}

func TestCanvasBorderOnlyWithOffset(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var sb strings.Builder
	c.RenderBorder(&sb)
	assert.Empty(t, sb.String())

	c.SetOffset(1, 1)
	c.RenderBorder(&sb)
	assert.Contains(t, sb.String(), "┌────┐")
	assert.Contains(t, sb.String(), "└────┘")
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var sb strings.Builder
	cw := NewChunkWriter(&sb, 2, 1)
	cw.WriteAt(1, 1, "hi")
	assert.Equal(t, len("\033[2;3Hhi"), cw.Len())
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Hhi", sb.String())
	assert.Zero(t, cw.Len())
}

type recordingWriter struct {
	sizes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.sizes = append(w.sizes, len(p))
	return len(p), nil
}

func TestChunkWriterSplitsLargeFrames(t *testing.T) {
	w := &recordingWriter{}
	cw := NewChunkWriter(w, 0, 0)
	cw.WriteString(strings.Repeat("x", 2*maxChunkSize+10))
	require.NoError(t, cw.Flush())
	assert.Equal(t, []int{maxChunkSize, maxChunkSize, 10}, w.sizes)
}

func TestEnterAndLeaveScreen(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, EnterScreen(&sb))
	assert.Contains(t, sb.String(), "\033[?1003h")
	assert.Contains(t, sb.String(), "\033[?25l")

	sb.Reset()
	require.NoError(t, LeaveScreen(&sb))
	assert.Contains(t, sb.String(), "\033[?1003l")
	assert.True(t, strings.HasSuffix(sb.String(), "\033[?25h"))
}
