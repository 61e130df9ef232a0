package loop_test

import (
	"sync"
	"testing"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescentPolicy(t *testing.T) {
	p := loop.DefaultDescentPolicy()

	assert.Equal(t, time.Second, p.Period(0))
	assert.Equal(t, 975*time.Millisecond, p.Period(100))
	assert.Equal(t, p.Min, p.Period(1_000_000))
	assert.Equal(t, p.Min, p.Period(1<<62))
	assert.Equal(t, time.Second, p.Period(-5))

	prev := p.Period(0)
	for score := 0; score <= 5000; score += 37 {
		d := p.Period(score)
		require.LessOrEqual(t, d, prev, "score %d", score)
		require.GreaterOrEqual(t, d, p.Min)
		prev = d
	}

	flat := loop.DescentPolicy{Base: 500 * time.Millisecond, Min: 100 * time.Millisecond}
	assert.Equal(t, 500*time.Millisecond, flat.Period(10_000))
}

func TestGravitySystem(t *testing.T) {
	t.Run("ticks once per period", func(t *testing.T) {
		s := loop.NewScheduler(engine.New(engine.WithSeed(1)))
		s.Register(loop.NewGravitySystem(loop.DescentPolicy{
			Base: 100 * time.Millisecond,
			Min:  100 * time.Millisecond,
		}))

		for range 9 {
			s.Once(0.025)
		}
		assert.Equal(t, int64(2), s.CommandCount(engine.CmdTick))

		s.Once(0.35)
		assert.Equal(t, int64(5), s.CommandCount(engine.CmdTick), "a long frame catches up")
	})

	t.Run("descends the piece", func(t *testing.T) {
		g := engine.New(engine.WithSeed(1))
		start := g.Snapshot().Current.Anchor.Row

		s := loop.NewScheduler(g)
		s.Register(loop.NewGravitySystem(loop.DefaultDescentPolicy()))
		snap := s.Once(1.0)

		assert.Equal(t, start+1, snap.Current.Anchor.Row)
		assert.Zero(t, snap.Score, "gravity earns no points")
	})
}

func TestInputQueue(t *testing.T) {
	q := loop.NewInputQueue()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.Push(engine.CmdMoveLeft)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, q.Len())
	assert.Len(t, q.Drain(), 800)
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestInputSystem(t *testing.T) {
	q := loop.NewInputQueue()
	s := loop.NewScheduler(engine.New(engine.WithSeed(1)))
	s.Register(&loop.InputSystem{Queue: q})

	before := s.Snapshot().Current.Anchor.Col
	q.Push(engine.CmdMoveLeft)
	q.Push(engine.CmdMoveLeft)
	q.Push(engine.CmdMoveRight)
	snap := s.Once(0.016)

	assert.Equal(t, before-1, snap.Current.Anchor.Col)
	assert.Zero(t, q.Len())
}

func TestGameOverSystem(t *testing.T) {
	var ended []engine.Snapshot
	s := loop.NewScheduler(engine.New(engine.WithSeed(4), engine.WithSize(4, 4)))
	s.Register(&recordSystem{
		name:  "dropper",
		order: new([]string),
		issue: []engine.Command{engine.CmdSoftDrop, engine.CmdHardDrop},
	})
	s.Register(&loop.GameOverSystem{OnGameOver: func(snap engine.Snapshot) {
		ended = append(ended, snap)
	}})

	for i := 0; i < 1000 && !s.Snapshot().GameOver; i++ {
		s.Once(0.016)
	}
	require.True(t, s.Snapshot().GameOver)
	require.Len(t, ended, 1)
	assert.True(t, ended[0].GameOver)
	assert.Equal(t, s.Snapshot().Score, ended[0].Score)

	for range 3 {
		s.Once(0.016)
	}
	assert.Len(t, ended, 1, "fires once per game")

	s.Reset()
	for i := 0; i < 1000 && !s.Snapshot().GameOver; i++ {
		s.Once(0.016)
	}
	require.True(t, s.Snapshot().GameOver)
	assert.Len(t, ended, 2, "reset re-arms the hook")
}
