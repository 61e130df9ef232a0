package engine

// Piece is a tetromino on the board: its shape, rotation index and anchor.
// Piece never checks the grid; the Game validates a candidate pose before it
// commits one.
type Piece struct {
	shape    Shape
	rotation int
	anchor   Position
	spawn    Position
}

// NewPiece returns a piece of shape s in its spawn pose for a board cols wide.
func NewPiece(s Shape, cols int) Piece {
	spawn := SpawnPosition(s, cols)
	return Piece{shape: s, anchor: spawn, spawn: spawn}
}

// Shape returns the tetromino identity.
func (p Piece) Shape() Shape { return p.shape }

// Rotation returns the rotation index in [0, 3].
func (p Piece) Rotation() int { return p.rotation }

// Anchor returns the offset of the shape's 4x4 box on the grid.
func (p Piece) Anchor() Position { return p.anchor }

// Tiles returns the absolute cells the piece occupies.
func (p Piece) Tiles() [4]Position {
	cells := Cells(p.shape, p.rotation)
	for i := range cells {
		cells[i] = cells[i].Add(p.anchor)
	}
	return cells
}

// RotateClockwise advances the rotation index.
func (p *Piece) RotateClockwise() {
	p.rotation = mod4(p.rotation + 1)
}

// RotateCounterClockwise retreats the rotation index.
func (p *Piece) RotateCounterClockwise() {
	p.rotation = mod4(p.rotation - 1)
}

// Move translates the anchor.
func (p *Piece) Move(dRow, dCol int) {
	p.anchor.Row += dRow
	p.anchor.Col += dCol
}

// Reset returns the piece to rotation 0 at its spawn anchor.
func (p *Piece) Reset() {
	p.rotation = 0
	p.anchor = p.spawn
}
