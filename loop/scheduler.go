// Package loop drives an engine.Game in real time: it paces automatic
// descent, feeds queued player input and reports frame statistics.
package loop

import (
	"context"
	"reflect"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/engine"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	TotalExecutions int64
	Systems         []SystemStats
	Commands        []CommandStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// CommandStats counts how often a command reached the game.
type CommandStats struct {
	Command engine.Command
	Count   int64
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler owns a game and executes systems against it in order, one frame
// at a time. It is not safe for concurrent use: Once, Run and Reset must be
// called from the same goroutine. Cross-goroutine input goes through an
// InputQueue.
type Scheduler struct {
	game        *engine.Game
	systems     []System
	systemStats []*systemStatsInternal
	observers   []func(engine.Snapshot)

	frames   int64
	counts   *intmap.Map[engine.Command, int64]
	snapshot engine.Snapshot
}

// NewScheduler creates a scheduler for game.
func NewScheduler(game *engine.Game) *Scheduler {
	return &Scheduler{
		game:     game,
		systems:  make([]System, 0),
		counts:   intmap.New[engine.Command, int64](len(engine.Commands)),
		snapshot: game.Snapshot(),
	}
}

// Register appends a system. Systems run in registration order.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Observe registers fn to receive the snapshot at the end of every frame.
func (s *Scheduler) Observe(fn func(engine.Snapshot)) {
	s.observers = append(s.observers, fn)
}

// Snapshot returns the state at the end of the last frame.
func (s *Scheduler) Snapshot() engine.Snapshot {
	return s.snapshot
}

// Once executes all registered systems with the given delta time in seconds,
// then applies the commands they issued.
func (s *Scheduler) Once(dt float64) engine.Snapshot {
	frame := newFrame(dt, s.game, s.snapshot, s.count)

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.snapshot = frame.Commands.Flush(s.game)
	s.frames++
	for _, fn := range s.observers {
		fn(s.snapshot)
	}
	return s.snapshot
}

// Run executes frames at the given interval until ctx is cancelled, in which
// case it returns ctx.Err(), or until the game ends, in which case it returns
// nil.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if s.Once(dt).GameOver {
				return nil
			}
		}
	}
}

// Reset restarts the game outside of a frame.
func (s *Scheduler) Reset() engine.Snapshot {
	s.snapshot = s.game.Reset()
	s.count(engine.CmdReset)
	for _, fn := range s.observers {
		fn(s.snapshot)
	}
	return s.snapshot
}

// CommandCount returns how many times cmd has been applied.
func (s *Scheduler) CommandCount(cmd engine.Command) int64 {
	n, _ := s.counts.Get(cmd)
	return n
}

func (s *Scheduler) count(cmd engine.Command) {
	n, _ := s.counts.Get(cmd)
	s.counts.Put(cmd, n+1)
}

// GetStats returns statistics about system execution and applied commands.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}
	stats.TotalExecutions = totalExecs

	for _, cmd := range engine.Commands {
		if n := s.CommandCount(cmd); n > 0 {
			stats.Commands = append(stats.Commands, CommandStats{Command: cmd, Count: n})
		}
	}
	return stats
}
