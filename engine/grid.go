package engine

import "fmt"

// HiddenRows is the number of guard rows above the visible playfield. Pieces
// spawn inside them so tall shapes can enter the board legally.
const HiddenRows = 2

// Default playfield size, not counting the guard rows.
const (
	DefaultVisibleRows = 20
	DefaultCols        = 10
)

// Grid is a fixed-size matrix of tiles stored in row-major order. Row 0 is
// the top guard row.
type Grid struct {
	rows  int
	cols  int
	cells []Tile
}

// NewGrid returns an empty grid. It panics if either dimension is not positive.
func NewGrid(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, rows, cols))
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Tile, rows*cols),
	}
}

// Rows returns the number of rows, guard rows included.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// IsInside reports whether (row, col) addresses a cell of the grid.
func (g *Grid) IsInside(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// IsEmpty reports whether (row, col) is inside the grid and unoccupied.
func (g *Grid) IsEmpty(row, col int) bool {
	return g.IsInside(row, col) && g.cells[row*g.cols+col] == Empty
}

// At returns the tile at (row, col).
func (g *Grid) At(row, col int) Tile {
	return g.cells[g.index(row, col)]
}

// Set stores t at (row, col).
func (g *Grid) Set(row, col int, t Tile) {
	if t > MaxTile {
		panic(fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, t, row, col))
	}
	g.cells[g.index(row, col)] = t
}

// IsRowFull reports whether every cell in row is occupied.
func (g *Grid) IsRowFull(row int) bool {
	for _, t := range g.row(row) {
		if t == Empty {
			return false
		}
	}
	return true
}

// IsRowEmpty reports whether every cell in row is empty.
func (g *Grid) IsRowEmpty(row int) bool {
	for _, t := range g.row(row) {
		if t != Empty {
			return false
		}
	}
	return true
}

// ClearRow empties every cell in row.
func (g *Grid) ClearRow(row int) {
	clear(g.row(row))
}

// ShiftRowsDown moves every row above fromRow down by one. Row fromRow is
// overwritten by the row above it and the top row becomes empty.
func (g *Grid) ShiftRowsDown(fromRow int) {
	g.mustContainRow(fromRow)
	for r := fromRow; r > 0; r-- {
		copy(g.row(r), g.row(r-1))
	}
	g.ClearRow(0)
}

// Cells returns a copy of all tiles in row-major order.
func (g *Grid) Cells() []Tile {
	out := make([]Tile, len(g.cells))
	copy(out, g.cells)
	return out
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: g.Cells()}
}

func (g *Grid) row(r int) []Tile {
	g.mustContainRow(r)
	return g.cells[r*g.cols : (r+1)*g.cols]
}

func (g *Grid) index(row, col int) int {
	if !g.IsInside(row, col) {
		panic(fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

func (g *Grid) mustContainRow(r int) {
	if r < 0 || r >= g.rows {
		panic(fmt.Errorf("%w: row %d outside %d rows", ErrOutOfBounds, r, g.rows))
	}
}
