// Package core holds the platform types shared by the game adapter and the
// frontends: the character screen, input frames and runtime settings.
// It has no terminal dependencies so rendering can be asserted as text.
package core

// Rect is an axis-aligned rectangle in screen characters.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Centered returns a w×h rectangle centered inside r.
// Offsets are floored, so odd leftovers push the rectangle up and left.
func (r Rect) Centered(w, h int) Rect {
	return NewRect(r.X+(r.W-w)/2, r.Y+(r.H-h)/2, w, h)
}

// Inset shrinks r by n on every side. The result never has negative size.
func (r Rect) Inset(n int) Rect {
	return NewRect(r.X+n, r.Y+n, max(0, r.W-2*n), max(0, r.H-2*n))
}
