package term

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

// Options configures a terminal session.
type Options struct {
	Game    *engine.Game
	Keys    *input.Keymap
	Descent loop.DescentPolicy
	// Frame is the scheduler tick interval.
	Frame time.Duration

	// Reporter is optional; without it no scores are submitted or shown.
	Reporter *leaderboard.Reporter
	Nickname string
	Show     int

	// ProgramOptions are passed to tea.NewProgram, e.g. to replace the
	// terminal in tests.
	ProgramOptions []tea.ProgramOption
}

// Play runs the game in the terminal until the player quits or ctx is
// cancelled. It returns the last snapshot shown.
func Play(ctx context.Context, opts Options) (engine.Snapshot, error) {
	queue := loop.NewInputQueue()
	restart := make(chan struct{}, 1)

	sched := loop.NewScheduler(opts.Game)
	sched.Register(&loop.InputSystem{Queue: queue})
	sched.Register(loop.NewGravitySystem(opts.Descent))
	sched.Register(&loop.GameOverSystem{OnGameOver: func(s engine.Snapshot) {
		if opts.Reporter != nil {
			opts.Reporter.Submit(opts.Nickname, s.Score)
		}
	}})

	model := NewModel(sched.Snapshot(), opts.Keys, queue, restart)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(model, popts...)
	sched.Observe(func(s engine.Snapshot) { p.Send(snapshotMsg(s)) })

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		drive(runCtx, sched, queue, restart, opts, p)
	}()

	final, err := p.Run()
	cancel()
	wg.Wait()

	if m, ok := final.(Model); ok {
		return m.Snapshot(), err
	}
	return sched.Snapshot(), err
}

// drive runs the scheduler, pausing at each game over until the player
// restarts.
func drive(ctx context.Context, sched *loop.Scheduler, queue *loop.InputQueue, restart <-chan struct{}, opts Options, p *tea.Program) {
	fetch := func() {
		if opts.Reporter != nil {
			p.Send(leaderboardMsg(opts.Reporter.Fetch(ctx, opts.Show)))
		}
	}
	go fetch()

	for {
		if err := sched.Run(ctx, opts.Frame); err != nil {
			return
		}

		if opts.Reporter != nil {
			// Let the submission land before refreshing the table.
			opts.Reporter.Wait()
			fetch()
		}

		select {
		case <-ctx.Done():
			return
		case <-restart:
		}
		queue.Drain()
		sched.Reset()
	}
}
