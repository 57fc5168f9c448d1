package core

// Piece is a shape placed on the board at anchor (X, Y), the grid
// position of the shape's top-left corner. The anchor may lie outside the
// board while testing candidate moves.
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int
	Color Color
}

// Spawn creates a piece of the given kind at the spawn position:
// row 0, horizontally centered with floor division, never left of column 0.
func Spawn(k Kind) Piece {
	t := TemplateFor(k)
	return Piece{
		Kind:  t.Kind,
		Shape: t.Shape,
		X:     max(0, (Width-t.Shape.Size())/2),
		Y:     0,
		Color: t.Color,
	}
}

// Translated returns a copy of the piece moved by (dx, dy).
// The shape matrix is shared; shapes are never mutated in place.
func (p Piece) Translated(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

func (p Piece) clone() Piece {
	p.Shape = p.Shape.Clone()
	return p
}

// Rotated returns a copy of the piece with its shape turned clockwise
// about the same anchor.
func (p Piece) Rotated() Piece {
	p.Shape = p.Shape.Rotate()
	return p
}

// Cells returns the absolute board coordinates of every block in the piece.
// Coordinates may fall outside the board.
func (p Piece) Cells() [][2]int {
	blocks := p.Shape.Blocks()
	for i := range blocks {
		blocks[i][0] += p.X
		blocks[i][1] += p.Y
	}
	return blocks
}
