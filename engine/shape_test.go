package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapes(t *testing.T) {
	t.Run("table is well formed", func(t *testing.T) {
		require.NoError(t, validateShapeTable())
	})

	t.Run("tile ids follow shape order", func(t *testing.T) {
		for i, s := range Shapes {
			assert.Equal(t, Tile(i+1), s.Tile())
			assert.Equal(t, s, ShapeFromTile(s.Tile()))
		}
		assert.Equal(t, NoShape, ShapeFromTile(Empty))
	})

	t.Run("every rotation has four distinct cells", func(t *testing.T) {
		for _, s := range Shapes {
			for rot := range 4 {
				cells := Cells(s, rot)
				seen := map[Position]bool{}
				for _, c := range cells {
					assert.False(t, seen[c], "%s rotation %d repeats %v", s, rot, c)
					seen[c] = true
				}
			}
		}
	})

	t.Run("rotation index wraps", func(t *testing.T) {
		for _, s := range Shapes {
			assert.Equal(t, Cells(s, 0), Cells(s, 4))
			assert.Equal(t, Cells(s, 3), Cells(s, -1))
		}
	})

	t.Run("O is rotation invariant", func(t *testing.T) {
		for rot := 1; rot < 4; rot++ {
			assert.Equal(t, Cells(ShapeO, 0), Cells(ShapeO, rot))
		}
	})

	t.Run("spawn stays centred", func(t *testing.T) {
		assert.Equal(t, Position{Row: -1, Col: 3}, SpawnPosition(ShapeI, 10))
		assert.Equal(t, Position{Row: 0, Col: 4}, SpawnPosition(ShapeO, 10))
		assert.Equal(t, Position{Row: 0, Col: 1}, SpawnPosition(ShapeT, 6))
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, "I", ShapeI.String())
		assert.Equal(t, "-", NoShape.String())
		assert.Equal(t, "Shape(9)", Shape(9).String())
	})

	t.Run("invalid shapes panic", func(t *testing.T) {
		requirePanicsWith(t, ErrMalformedShape, func() { Cells(NoShape, 0) })
		requirePanicsWith(t, ErrMalformedShape, func() { SpawnPosition(Shape(8), 10) })
		requirePanicsWith(t, ErrInvalidTile, func() { ShapeFromTile(8) })
	})
}

func TestPiece(t *testing.T) {
	t.Run("four rotations return to the start", func(t *testing.T) {
		for _, s := range Shapes {
			p := NewPiece(s, DefaultCols)
			start := p.Tiles()
			for range 4 {
				p.RotateClockwise()
			}
			assert.Equal(t, start, p.Tiles(), "%s", s)
			p.RotateCounterClockwise()
			p.RotateClockwise()
			assert.Equal(t, start, p.Tiles(), "%s", s)
		}
	})

	t.Run("tiles are offset by the anchor", func(t *testing.T) {
		p := NewPiece(ShapeT, DefaultCols)
		assert.Equal(t, [4]Position{{0, 4}, {1, 3}, {1, 4}, {1, 5}}, p.Tiles())

		p.Move(2, -1)
		assert.Equal(t, Position{Row: 2, Col: 2}, p.Anchor())
		assert.Equal(t, [4]Position{{2, 3}, {3, 2}, {3, 3}, {3, 4}}, p.Tiles())
	})

	t.Run("reset returns to the spawn pose", func(t *testing.T) {
		p := NewPiece(ShapeL, DefaultCols)
		want := p
		p.Move(5, 2)
		p.RotateCounterClockwise()
		require.NotEqual(t, want, p)

		p.Reset()
		assert.Equal(t, want, p)
	})
}
