package draw

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Escape sequences the renderer needs besides colors and cursor moves.
const (
	ColorReset   = "\033[0m"
	clearScreen  = "\033[H\033[2J"
	hideCursor   = "\033[?25l"
	showCursor   = "\033[?25h"
	mouseOn      = "\033[?1003h\033[?1006h" // any-motion tracking, SGR coordinates
	mouseOff     = "\033[?1006l\033[?1003l"
	maxChunkSize = 1400 // stays under a typical MTU so SSH packets go out whole
)

// TermSizeFunc reports the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of the terminal on os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ChunkWriter accumulates a frame of terminal output. Canvas.Render and the
// HUD both write into it; Flush sends the whole frame at once, split into
// packet-sized writes.
type ChunkWriter struct {
	w      io.Writer
	buf    strings.Builder
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. The offset is added
// to every position given to WriteAt.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{w: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the position offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// WriteAt writes s starting at a 1-based canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
	cw.buf.WriteString(s)
}

// Write appends p to the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) (int, error) {
	return cw.buf.WriteString(s)
}

// ClearScreen queues a full terminal clear with attributes reset.
func (cw *ChunkWriter) ClearScreen() {
	cw.buf.WriteString(ColorReset + clearScreen)
}

// Len returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Flush writes the frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	return writeChunks(cw.w, data)
}

func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// EnterScreen hides the cursor, clears the screen and turns on mouse reports.
func EnterScreen(w io.Writer) error {
	_, err := io.WriteString(w, hideCursor+clearScreen+mouseOn)
	return err
}

// LeaveScreen undoes EnterScreen.
func LeaveScreen(w io.Writer) error {
	_, err := io.WriteString(w, mouseOff+ColorReset+clearScreen+showCursor)
	return err
}
