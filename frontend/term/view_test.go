package term

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBoard(t *testing.T) {
	g := engine.New(engine.WithSeed(1))
	g.MoveBlockDown()
	s := g.MoveBlockDown()
	out := RenderBoard(s)

	lines := strings.Split(out, "\n")
	// Guard row, visible rows and the top and bottom border.
	assert.Len(t, lines, s.VisibleRows()+3)
	assert.Contains(t, out, cellFilled)
	assert.Contains(t, out, cellGhost)
}

func TestRenderBoardShowsSpawnedPiece(t *testing.T) {
	for _, shape := range engine.Shapes {
		t.Run(shape.String(), func(t *testing.T) {
			g := engine.New(engine.WithSeed(1))
			s := g.Snapshot()
			s.Current = engine.PieceView{Shape: shape, Tiles: engine.NewPiece(shape, s.Cols).Tiles()}

			guard := renderGuardRow(s, s.HiddenRows-1)
			assert.Contains(t, guard, cellFilled, "spawned piece has cells in the lowest guard row")
			assert.Contains(t, RenderBoard(s), guard)

			s.GameOver = true
			assert.NotContains(t, renderGuardRow(s, s.HiddenRows-1), cellFilled)
		})
	}
}

func TestRenderPanel(t *testing.T) {
	s := engine.New(engine.WithSeed(1)).Snapshot()
	board := []leaderboard.Record{
		{Nickname: "alice", Score: 900},
		{Nickname: "a-very-long-nickname", Score: 10},
	}

	out := RenderPanel(s, board, "c: hold\n")
	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "Next")
	assert.Contains(t, out, "High scores")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "a-very-long…")
	assert.Contains(t, out, "c: hold")
	assert.NotContains(t, out, "GAME OVER")

	s.GameOver = true
	s.CanHold = false
	out = RenderPanel(s, nil, "")
	assert.Contains(t, out, "GAME OVER")
	assert.Contains(t, out, "Hold (used)")
	assert.NotContains(t, out, "High scores")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "bob", truncate("bob", 12))
	assert.Equal(t, "abc…", truncate("abcdefg", 4))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	g := engine.New(engine.WithSeed(1))
	queue := loop.NewInputQueue()
	restart := make(chan struct{}, 1)
	m := NewModel(g.Snapshot(), input.DefaultKeymap(), queue, restart)

	t.Run("bound keys are queued", func(t *testing.T) {
		next, cmd := m.Update(key("left"))
		assert.Nil(t, cmd)
		m = next.(Model)
		m.Update(key("space"))
		m.Update(key("k"))

		assert.Equal(t, []engine.Command{engine.CmdMoveLeft, engine.CmdHardDrop}, queue.Drain())
	})

	t.Run("snapshots replace the view", func(t *testing.T) {
		s := g.SoftDrop()
		next, _ := m.Update(snapshotMsg(s))
		m = next.(Model)
		assert.Equal(t, 1, m.Snapshot().Score)
		assert.Contains(t, m.View(), "BLOCKFALL")
	})

	t.Run("leaderboard", func(t *testing.T) {
		next, _ := m.Update(leaderboardMsg{{Nickname: "zed", Score: 5}})
		assert.Contains(t, next.View(), "zed")
	})

	t.Run("input is ignored after game over", func(t *testing.T) {
		s := m.Snapshot()
		s.GameOver = true
		next, _ := m.Update(snapshotMsg(s))
		over := next.(Model)

		over.Update(key("left"))
		assert.Zero(t, queue.Len())

		over.Update(key("r"))
		select {
		case <-restart:
		case <-time.After(time.Second):
			t.Fatal("restart not signalled")
		}
	})

	t.Run("quit", func(t *testing.T) {
		_, cmd := m.Update(key("q"))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}
