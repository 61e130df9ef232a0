package engine

import "fmt"

// Tile identifies what occupies a grid cell. Zero means empty; 1..7 is the
// color class of the shape that was locked there.
type Tile uint8

// Empty is the value of an unoccupied cell.
const Empty Tile = 0

// MaxTile is the largest valid tile id.
const MaxTile Tile = 7

// Position addresses a cell by row (top to bottom) and column (left to right).
type Position struct {
	Row, Col int
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Shape is one of the seven tetrominoes.
type Shape uint8

const (
	NoShape Shape = iota
	ShapeI
	ShapeJ
	ShapeL
	ShapeO
	ShapeS
	ShapeT
	ShapeZ
)

// Shapes lists every playable shape in tile-id order.
var Shapes = [7]Shape{ShapeI, ShapeJ, ShapeL, ShapeO, ShapeS, ShapeT, ShapeZ}

// Valid reports whether s is one of the seven playable shapes.
func (s Shape) Valid() bool {
	return s >= ShapeI && s <= ShapeZ
}

// Tile returns the tile id written into the grid when s locks.
func (s Shape) Tile() Tile {
	return Tile(s)
}

func (s Shape) String() string {
	switch s {
	case NoShape:
		return "-"
	case ShapeI:
		return "I"
	case ShapeJ:
		return "J"
	case ShapeL:
		return "L"
	case ShapeO:
		return "O"
	case ShapeS:
		return "S"
	case ShapeT:
		return "T"
	case ShapeZ:
		return "Z"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ShapeFromTile maps a tile id back to its shape. Empty maps to NoShape.
func ShapeFromTile(t Tile) Shape {
	if t > MaxTile {
		panic(fmt.Errorf("%w: %d", ErrInvalidTile, t))
	}
	return Shape(t)
}

// shapeDef holds the occupied cells of a shape for each rotation index,
// relative to the piece anchor, and the anchor used on a 10-wide board at spawn.
type shapeDef struct {
	rotations [4][4]Position
	spawn     Position
}

var shapeTable = [...]shapeDef{
	ShapeI: {
		rotations: [4][4]Position{
			{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
			{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
			{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
			{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		},
		spawn: Position{-1, 3},
	},
	ShapeJ: {
		rotations: [4][4]Position{
			{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {0, 2}, {1, 1}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
			{{0, 1}, {1, 1}, {2, 0}, {2, 1}},
		},
		spawn: Position{0, 3},
	},
	ShapeL: {
		rotations: [4][4]Position{
			{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 0}},
			{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		},
		spawn: Position{0, 3},
	},
	ShapeO: {
		rotations: [4][4]Position{
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		},
		spawn: Position{0, 4},
	},
	ShapeS: {
		rotations: [4][4]Position{
			{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {1, 2}, {2, 0}, {2, 1}},
			{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		},
		spawn: Position{0, 3},
	},
	ShapeT: {
		rotations: [4][4]Position{
			{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 1}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		},
		spawn: Position{0, 3},
	},
	ShapeZ: {
		rotations: [4][4]Position{
			{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
			{{0, 2}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		},
		spawn: Position{0, 3},
	},
}

func init() {
	if err := validateShapeTable(); err != nil {
		panic(err)
	}
}

// validateShapeTable checks that every shape has four distinct cells inside a
// 4x4 box at every rotation index. A missing table entry has four identical
// zero cells and fails the distinctness check.
func validateShapeTable() error {
	if len(shapeTable) != len(Shapes)+1 {
		return fmt.Errorf("%w: %d entries", ErrMalformedShape, len(shapeTable))
	}
	for _, s := range Shapes {
		def := shapeTable[s]
		for rot, cells := range def.rotations {
			seen := make(map[Position]bool, 4)
			for _, c := range cells {
				if c.Row < 0 || c.Row > 3 || c.Col < 0 || c.Col > 3 {
					return fmt.Errorf("%w: %s rotation %d cell %v", ErrMalformedShape, s, rot, c)
				}
				if seen[c] {
					return fmt.Errorf("%w: %s rotation %d repeats %v", ErrMalformedShape, s, rot, c)
				}
				seen[c] = true
			}
		}
	}
	return nil
}

// Cells returns the relative cells of shape s at the given rotation index.
// The rotation is taken modulo 4.
func Cells(s Shape, rotation int) [4]Position {
	if !s.Valid() {
		panic(fmt.Errorf("%w: no cells for %s", ErrMalformedShape, s))
	}
	return shapeTable[s].rotations[mod4(rotation)]
}

// SpawnPosition returns the anchor a piece of shape s takes when it enters a
// board that is cols wide. The table is laid out for ten columns; narrower or
// wider boards keep the piece centred.
func SpawnPosition(s Shape, cols int) Position {
	if !s.Valid() {
		panic(fmt.Errorf("%w: no spawn for %s", ErrMalformedShape, s))
	}
	p := shapeTable[s].spawn
	p.Col += (cols-4)/2 - 3
	return p
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}
