package core

// Collides reports whether the piece overlaps a filled cell or leaves the
// board through the sides or the bottom. Blocks above row 0 are only
// checked against the side walls, so a piece may hang over the top edge.
func Collides(p Piece, g *Grid) bool {
	for y := range p.Shape {
		for x := range p.Shape[y] {
			if p.Shape[y][x] == 0 {
				continue
			}
			testX := p.X + x
			testY := p.Y + y
			if testX < 0 || testX >= Width || testY >= Height {
				return true
			}
			if testY >= 0 && g[testY][testX].Filled {
				return true
			}
		}
	}
	return false
}

// Merge writes the piece's blocks into the grid with the piece color.
// Blocks above row 0 are dropped.
func Merge(g *Grid, p Piece) {
	for _, c := range p.Cells() {
		if c[1] < 0 {
			continue
		}
		g.Set(c[0], c[1], FilledCell(p.Color))
	}
}

// ClearLines removes every full row, shifts the remaining rows down in
// their original order and refills the top with empty rows.
// Returns the number of rows removed.
func ClearLines(g *Grid) int {
	var kept Grid
	write := Height - 1
	for y := Height - 1; y >= 0; y-- {
		if g[y].Full() {
			continue
		}
		kept[write] = g[y]
		write--
	}
	*g = kept
	return write + 1
}

// Overlay returns a copy of the grid with the piece drawn on top.
// Blocks outside the board in any direction are skipped.
func Overlay(g Grid, p Piece) Grid {
	for _, c := range p.Cells() {
		if InBounds(c[0], c[1]) {
			g[c[1]][c[0]] = FilledCell(p.Color)
		}
	}
	return g
}

// DefaultPointsPerLine is the score awarded for each cleared row.
const DefaultPointsPerLine = 100

// LineScore returns the points for clearing the given number of rows at
// once. It is linear: zero for no rows and strictly increasing otherwise.
func LineScore(lines, pointsPerLine int) int {
	if lines <= 0 || pointsPerLine <= 0 {
		return 0
	}
	return lines * pointsPerLine
}
