package core

import "strings"

// Row is one horizontal line of the board, indexed by column.
type Row [Width]Cell

// Grid is the board, indexed as grid[y][x] with y=0 at the top.
// It is a value type: assigning a Grid copies every cell.
type Grid [Height]Row

// InBounds reports whether (x, y) addresses a cell on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// At returns the cell at (x, y), or an empty cell when out of bounds.
func (g Grid) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Empty()
	}
	return g[y][x]
}

// Set writes the cell at (x, y). Out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, c Cell) {
	if InBounds(x, y) {
		g[y][x] = c
	}
}

// Full reports whether the row contains no empty cell.
func (r Row) Full() bool {
	for _, c := range r {
		if !c.Filled {
			return false
		}
	}
	return true
}

// Empty reports whether the row contains no filled cell.
func (r Row) Empty() bool {
	for _, c := range r {
		if c.Filled {
			return false
		}
	}
	return true
}

// FilledCount returns the number of filled cells on the board.
func (g Grid) FilledCount() int {
	n := 0
	for y := range g {
		for x := range g[y] {
			if g[y][x].Filled {
				n++
			}
		}
	}
	return n
}

// IsEmpty returns true if no cell on the board is filled.
func (g Grid) IsEmpty() bool {
	return g.FilledCount() == 0
}

// String renders the board as rows of '.' and '#', one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range g[y] {
			if g[y][x].Filled {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// ParseGrid builds a board from rows of '.' (empty) and any other byte
// (filled with c). Rows are aligned to the bottom of the board, so a short
// picture describes the lowest rows. Extra columns are ignored.
func ParseGrid(c Color, rows ...string) Grid {
	var g Grid
	offset := Height - len(rows)
	for i, line := range rows {
		y := offset + i
		for x := 0; x < len(line) && x < Width; x++ {
			if line[x] != '.' {
				g.Set(x, y, FilledCell(c))
			}
		}
	}
	return g
}
