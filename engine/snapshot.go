package engine

// PieceView describes the live piece in a Snapshot.
type PieceView struct {
	Shape    Shape
	Rotation int
	Anchor   Position
	Tiles    [4]Position
}

// Snapshot is a read-only copy of the observable game state. It shares no
// memory with the Game that produced it.
type Snapshot struct {
	Rows       int
	Cols       int
	HiddenRows int
	// Cells holds Rows*Cols locked tiles in row-major order; the live piece
	// is not written into it.
	Cells []Tile

	Current      PieceView
	DropDistance int
	Ghost        [4]Position

	Next    Shape
	Preview []Shape
	Held    Shape
	CanHold bool

	Score int
	Lines int
	Level int
	// LastClear is the number of rows cleared by the command that produced
	// this snapshot.
	LastClear int
	GameOver  bool
}

// At returns the locked tile at (row, col), or Empty outside the grid.
func (s Snapshot) At(row, col int) Tile {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return Empty
	}
	return s.Cells[row*s.Cols+col]
}

// VisibleRows returns the number of rows below the guard rows.
func (s Snapshot) VisibleRows() int {
	return s.Rows - s.HiddenRows
}

// Occupied returns the tile a renderer should draw at (row, col): the live
// piece if it covers the cell, otherwise the locked tile.
func (s Snapshot) Occupied(row, col int) Tile {
	for _, p := range s.Current.Tiles {
		if p.Row == row && p.Col == col {
			return s.Current.Shape.Tile()
		}
	}
	return s.At(row, col)
}

// IsGhost reports whether (row, col) is part of the landing projection of the
// live piece.
func (s Snapshot) IsGhost(row, col int) bool {
	for _, p := range s.Ghost {
		if p.Row == row && p.Col == col {
			return true
		}
	}
	return false
}
