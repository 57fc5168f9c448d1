// Package core provides the rules engine for the falling-block game.
// This package is UI-agnostic, synchronous and deterministic for a given
// randomness source. It performs no I/O and owns no timers; drivers call
// its operations and read the state back.
package core

// Board dimensions. They are fixed for the lifetime of the process.
const (
	Height = 17
	Width  = 10
)

// Color is the display tag attached to a piece and to the cells it fills.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorYellow
	ColorGreen
	ColorBlue
	ColorCyan
	ColorPink
	ColorPurple
)

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorCyan:
		return "cyan"
	case ColorPink:
		return "pink"
	case ColorPurple:
		return "purple"
	default:
		return "none"
	}
}

// Cell is a single board position: empty, or filled with a color.
type Cell struct {
	Filled bool  // Whether the cell holds a locked block
	Color  Color // Valid only when Filled is true
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// FilledCell returns a filled cell with the given color.
func FilledCell(c Color) Cell {
	return Cell{Filled: true, Color: c}
}
