package core

// Color is the foreground color of a screen cell.
// Frontends map each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorPink
	ColorPurple
	ColorOrange // Highlights
	ColorGray   // Borders, labels and empty board cells
	ColorBrightWhite
)
