// Package object defines the plain entity records owned by a game.
// Records carry state only; every mutation happens in the game passes.
package object

// Side is the horizontal edge an enemy enters from.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Dir returns +1 for enemies travelling right (entered left) and -1 otherwise.
func (s Side) Dir() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// Color is a palette tag resolved by the renderer.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorCyan
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorMagenta
	ColorPurple
	ColorGray
)

var colorNames = [...]string{
	ColorNone:    "none",
	ColorWhite:   "white",
	ColorCyan:    "cyan",
	ColorRed:     "red",
	ColorOrange:  "orange",
	ColorYellow:  "yellow",
	ColorGreen:   "green",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorPurple:  "purple",
	ColorGray:    "gray",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
