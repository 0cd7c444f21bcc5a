// Package input turns raw terminal bytes into per-frame key and mouse state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only repeat keys, they never report releases, so it has to bridge
// the gap between repeats.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	// Held keys
	Left, Right, Up, Down             bool // Movement (WASD)
	AimLeft, AimRight, AimUp, AimDown bool // Aim (arrows, IJKL)
	Fire                              bool // Space held or left mouse button down

	// Pressed this frame
	Quit     bool
	Confirm  bool // Enter or space
	Dash     bool
	Pause    bool
	AutoFire bool // Toggle
	Escape   bool

	Mouse      Mouse
	MouseMoved bool   // A mouse report arrived this frame
	Closed     bool   // The reader hit EOF; no more input will arrive
	Pressed    []byte // Raw bytes read this frame
}

// Mouse is the last reported pointer position in 1-based terminal cells.
type Mouse struct {
	Col, Row   int
	Down       bool // Left button held
	RightClick bool // This report was a right button press
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left, right, up, down             time.Time
	aimLeft, aimRight, aimUp, aimDown time.Time
	space                             time.Time
	mouse                             Mouse
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Reset forgets held keys so a key pressed on one screen does not leak into the next.
func Reset(s *Stream) {
	mouse := s.state.mouse
	mouse.Down = false
	s.state = keyState{mouse: mouse}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.apply(buf, time.Now())
	in.Closed = s.closed
	return in
}

// apply parses buf, updates the key state and builds the frame input.
func (s *Stream) apply(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if buf[i+2] == '<' {
				if n, m, ok := parseMouse(buf[i+3:]); ok {
					s.state.mouse = m
					in.MouseMoved = true
					if m.RightClick {
						in.Dash = true
					}
					i += 2 + n
					continue
				}
			}
			switch buf[i+2] {
			case 'A':
				s.state.aimUp = now
				i += 2
				continue
			case 'B':
				s.state.aimDown = now
				i += 2
				continue
			case 'C':
				s.state.aimRight = now
				i += 2
				continue
			case 'D':
				s.state.aimLeft = now
				i += 2
				continue
			}
		}

		applyByte(&s.state, &in, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	in.Left = held(s.state.left)
	in.Right = held(s.state.right)
	in.Up = held(s.state.up)
	in.Down = held(s.state.down)
	in.AimLeft = held(s.state.aimLeft)
	in.AimRight = held(s.state.aimRight)
	in.AimUp = held(s.state.aimUp)
	in.AimDown = held(s.state.aimDown)
	in.Fire = held(s.state.space) || s.state.mouse.Down
	in.Mouse = s.state.mouse
	in.Pressed = buf
	return in
}

// applyByte updates held-key timestamps and sets the pressed-this-frame flags.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C
		in.Quit = true
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case 'j', 'J':
		state.aimLeft = now
	case 'l', 'L':
		state.aimRight = now
	case 'i', 'I':
		state.aimUp = now
	case 'k', 'K':
		state.aimDown = now
	case ' ':
		state.space = now
		in.Confirm = true
	case '\n', '\r':
		in.Confirm = true
	case 'e', 'E', '\t':
		in.Dash = true
	case 'p', 'P':
		in.Pause = true
	case 'f', 'F':
		in.AutoFire = true
	case '\x1b':
		in.Escape = true
	}
}

// parseMouse parses the body of an SGR mouse report, "b;col;row" followed by
// 'M' (press/motion) or 'm' (release). It returns the bytes consumed.
func parseMouse(buf []byte) (int, Mouse, bool) {
	var (
		fields [3]int
		field  int
		digits bool
	)
	for i, c := range buf {
		switch {
		case c >= '0' && c <= '9':
			fields[field] = fields[field]*10 + int(c-'0')
			digits = true
		case c == ';':
			if !digits || field == 2 {
				return 0, Mouse{}, false
			}
			field++
			digits = false
		case c == 'M' || c == 'm':
			if !digits || field != 2 {
				return 0, Mouse{}, false
			}
			button := fields[0]
			m := Mouse{Col: fields[1], Row: fields[2]}
			// Left button, not a wheel event; motion reports keep the button bits.
			m.Down = c == 'M' && button&3 == 0 && button&64 == 0
			m.RightClick = c == 'M' && button == 2
			return i + 1, m, true
		default:
			return 0, Mouse{}, false
		}
	}
	return 0, Mouse{}, false
}
