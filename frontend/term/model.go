// Package term is the terminal frontend: a bubbletea program that renders
// snapshots and forwards key presses to a loop.Scheduler running on its own
// goroutine.
package term

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

type snapshotMsg engine.Snapshot

type leaderboardMsg []leaderboard.Record

// Model is the bubbletea model. It only ever sees snapshots delivered as
// messages, never the game itself.
type Model struct {
	snap    engine.Snapshot
	board   []leaderboard.Record
	keys    *input.Keymap
	queue   *loop.InputQueue
	restart chan<- struct{}
	help    string
}

// NewModel returns a model that pushes bound keys onto queue and signals
// restart when the player asks for a new game after game over.
func NewModel(initial engine.Snapshot, keys *input.Keymap, queue *loop.InputQueue, restart chan<- struct{}) Model {
	return Model{
		snap:    initial,
		keys:    keys,
		queue:   queue,
		restart: restart,
		help:    keys.Help() + "q: quit\n",
	}
}

// Snapshot returns the last state the model rendered.
func (m Model) Snapshot() engine.Snapshot {
	return m.snap
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = engine.Snapshot(msg)
	case leaderboardMsg:
		m.board = msg
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		cmd, ok := m.keys.Lookup(msg.String())
		if !ok {
			return m, nil
		}
		if cmd == engine.CmdReset && m.snap.GameOver {
			select {
			case m.restart <- struct{}{}:
			default:
			}
			return m, nil
		}
		if !m.snap.GameOver {
			m.queue.Push(cmd)
		}
	}
	return m, nil
}

func (m Model) View() string {
	return View(m.snap, m.board, m.help) + "\n"
}
