package core

// Shape is a square matrix of 0/1 flags, indexed as shape[row][col].
type Shape [][]uint8

// Size returns the side length of the matrix.
func (s Shape) Size() int {
	return len(s)
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for y := range s {
		out[y] = append([]uint8(nil), s[y]...)
	}
	return out
}

// Rotate returns the shape turned 90° clockwise.
// Cell (row y, col x) moves to (row x, col N-y-1). The receiver is not modified.
func (s Shape) Rotate() Shape {
	n := len(s)
	out := make(Shape, n)
	for i := range out {
		out[i] = make([]uint8, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[x][n-y-1] = s[y][x]
		}
	}
	return out
}

// Equal reports whether two shapes have the same size and flags.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(other[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Blocks returns the (col, row) offsets of every flagged cell, in row-major order.
func (s Shape) Blocks() [][2]int {
	var out [][2]int
	for y := range s {
		for x := range s[y] {
			if s[y][x] != 0 {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}
