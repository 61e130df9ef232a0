package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

// stressOptions configures a headless run.
type stressOptions struct {
	Duration       time.Duration
	Seed           uint64
	Rows, Cols     int
	CommandsPerSec int
	GCPauseMetrics bool
	// Store, when set, receives every finished session's score.
	Store leaderboard.Store
}

// RandomInputSystem issues a uniformly random player command at a fixed
// average rate.
type RandomInputSystem struct {
	Rate    float64
	rng     *rand.Rand
	pending float64
}

var playerCommands = []engine.Command{
	engine.CmdMoveLeft, engine.CmdMoveRight, engine.CmdSoftDrop,
	engine.CmdRotateCW, engine.CmdRotateCCW, engine.CmdHold, engine.CmdHardDrop,
}

func (s *RandomInputSystem) Execute(frame *loop.Frame) {
	s.pending += s.Rate * frame.DeltaTime
	for s.pending >= 1 {
		s.pending--
		frame.Commands.Issue(playerCommands[s.rng.IntN(len(playerCommands))])
	}
}

func (c *CLI) stressCommand() *cobra.Command {
	opts := stressOptions{
		Duration:       10 * time.Second,
		CommandsPerSec: 20,
	}
	var record bool

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Play random games headlessly and report frame timings",
		Long: `Play random games headlessly as fast as possible and print a markdown
report of frame timings, scores and memory use.

With --record every finished game is added to the configured leaderboard
store, which also exercises the store under load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts.Rows, opts.Cols = c.cfg.Board.Rows, c.cfg.Board.Cols
			if opts.Seed == 0 {
				opts.Seed = c.cfg.Board.Seed
			}
			if opts.Seed == 0 {
				opts.Seed = rand.Uint64()
			}

			if record {
				st, err := leaderboard.Open(ctx, c.cfg.Store())
				if err != nil {
					return err
				}
				defer st.Close()
				opts.Store = st
			}

			logger.Info("starting stress run", "duration", opts.Duration, "seed", opts.Seed)
			prog := newProgress(logger)
			report, err := runStress(ctx, opts, logger)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("played %d games", len(report.Sessions)))

			return report.Generate(c.out)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", opts.Duration, "total run time")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "base seed; session n uses seed+n (default from config, else random)")
	cmd.Flags().IntVar(&opts.CommandsPerSec, "rate", opts.CommandsPerSec, "random commands per simulated second")
	cmd.Flags().BoolVar(&opts.GCPauseMetrics, "gc-pause-metrics", false, "include GC pause metrics in the report")
	cmd.Flags().BoolVar(&record, "record", false, "add finished games to the leaderboard store")
	return cmd
}

// runStress plays sessions back to back at a simulated 60 frames per second
// until the duration elapses or ctx is cancelled.
func runStress(ctx context.Context, opts stressOptions, logger *log.Logger) (*Report, error) {
	const dt = 1.0 / 60

	report := &Report{
		Duration:       opts.Duration,
		Seed:           opts.Seed,
		Rows:           opts.Rows,
		Cols:           opts.Cols,
		CommandsPerSec: opts.CommandsPerSec,
		GCPauseMetrics: opts.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	counts := make(map[engine.Command]int64)
	start := time.Now()

	for n := uint64(0); ctx.Err() == nil; n++ {
		sess := Session{ID: uuid.New(), Seed: opts.Seed + n}
		game := engine.New(
			engine.WithSeed(sess.Seed),
			engine.WithSize(opts.Rows, opts.Cols),
		)

		sched := loop.NewScheduler(game)
		sched.Register(&RandomInputSystem{
			Rate: float64(opts.CommandsPerSec),
			rng:  rand.New(rand.NewPCG(sess.Seed, ^sess.Seed)),
		})
		sched.Register(loop.NewGravitySystem(loop.DefaultDescentPolicy()))

		var snap engine.Snapshot
		for ctx.Err() == nil {
			frameStart := time.Now()
			snap = sched.Once(dt)
			report.FrameTime.Add(time.Since(frameStart))
			sess.Frames++
			if snap.GameOver {
				break
			}
		}

		sess.Score, sess.Lines, sess.Finished = snap.Score, snap.Lines, snap.GameOver
		report.Sessions = append(report.Sessions, sess)
		report.TotalFrames += sess.Frames
		for _, cs := range sched.GetStats().Commands {
			counts[cs.Command] += cs.Count
		}
		logger.Debug("session finished", "id", sess.ID, "score", sess.Score, "lines", sess.Lines, "frames", sess.Frames)

		if opts.Store != nil && sess.Finished {
			rec := leaderboard.NewRecord("stress-"+sess.ID.String()[:8], sess.Score)
			rec.ID = sess.ID
			if err := opts.Store.Add(context.WithoutCancel(ctx), rec); err != nil {
				return nil, fmt.Errorf("record session %s: %w", sess.ID, err)
			}
		}
	}

	report.TotalTime = time.Since(start)
	report.FrameTime.Finalize()
	for _, cmd := range engine.Commands {
		if n := counts[cmd]; n > 0 {
			report.Commands = append(report.Commands, loop.CommandStats{Command: cmd, Count: n})
		}
	}

	if opts.Store != nil {
		top, err := opts.Store.Top(context.WithoutCancel(ctx), 5)
		if err != nil {
			return nil, fmt.Errorf("read leaderboard: %w", err)
		}
		report.Top = top
	}

	runtime.ReadMemStats(&report.MemStatsEnd)
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
