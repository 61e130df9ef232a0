package engine

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var tileLetters = map[rune]Tile{
	'.': Empty,
	'I': ShapeI.Tile(),
	'J': ShapeJ.Tile(),
	'L': ShapeL.Tile(),
	'O': ShapeO.Tile(),
	'S': ShapeS.Tile(),
	'T': ShapeT.Tile(),
	'Z': ShapeZ.Tile(),
}

// loadBoards reads testdata/<name>.txtar and returns each section as a list
// of board rows, top to bottom.
func loadBoards(t *testing.T, name string) map[string][]string {
	t.Helper()

	ar, err := txtar.ParseFile(filepath.Join("testdata", name+".txtar"))
	require.NoError(t, err)

	boards := make(map[string][]string, len(ar.Files))
	for _, f := range ar.Files {
		boards[f.Name] = strings.Fields(string(f.Data))
	}
	return boards
}

// fillBottom writes rows onto the bottom of g, leaving the rest untouched.
func fillBottom(t *testing.T, g *Grid, rows []string) {
	t.Helper()

	start := g.Rows() - len(rows)
	for i, row := range rows {
		require.Len(t, row, g.Cols(), "row %d", i)
		for c, ch := range row {
			tile, ok := tileLetters[ch]
			require.True(t, ok, "unknown tile letter %q", ch)
			g.Set(start+i, c, tile)
		}
	}
}

// bottomRows renders the last n rows of g using the fixture alphabet.
func bottomRows(g *Grid, n int) []string {
	letters := make(map[Tile]rune, len(tileLetters))
	for ch, tile := range tileLetters {
		letters[tile] = ch
	}

	out := make([]string, 0, n)
	for r := g.Rows() - n; r < g.Rows(); r++ {
		var b strings.Builder
		for c := range g.Cols() {
			b.WriteRune(letters[g.At(r, c)])
		}
		out = append(out, b.String())
	}
	return out
}

// requirePanicsWith runs fn and checks that it panics with an error wrapping
// target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}

// withPiece replaces the live piece of g with a fresh piece of shape s.
func withPiece(g *Game, s Shape) {
	g.current = NewPiece(s, g.grid.Cols())
}
