package loop

import (
	"sync"
	"time"

	"github.com/plus3/blockfall/engine"
)

// DescentPolicy maps the score to the automatic descent period:
// max(Min, Base - score*Step).
type DescentPolicy struct {
	Base time.Duration
	Min  time.Duration
	Step time.Duration
}

// DefaultDescentPolicy starts at one row per second and speeds up by 25ms per
// hundred points down to 75ms.
func DefaultDescentPolicy() DescentPolicy {
	return DescentPolicy{
		Base: time.Second,
		Min:  75 * time.Millisecond,
		Step: 250 * time.Microsecond,
	}
}

// Period returns the descent period for score. It never increases with the
// score and never drops below Min.
func (p DescentPolicy) Period(score int) time.Duration {
	if score < 0 {
		score = 0
	}
	if p.Step > 0 && int64(score) >= int64((p.Base-p.Min)/p.Step)+1 {
		return p.Min
	}
	d := p.Base - time.Duration(score)*p.Step
	if d < p.Min {
		return p.Min
	}
	return d
}

// GravitySystem issues a Tick each time the descent period elapses.
type GravitySystem struct {
	Policy  DescentPolicy
	elapsed time.Duration
}

// NewGravitySystem returns a gravity system using policy.
func NewGravitySystem(policy DescentPolicy) *GravitySystem {
	return &GravitySystem{Policy: policy}
}

func (s *GravitySystem) Execute(frame *Frame) {
	if frame.Snapshot.GameOver {
		s.elapsed = 0
		return
	}

	s.elapsed += time.Duration(frame.DeltaTime * float64(time.Second))
	period := s.Policy.Period(frame.Snapshot.Score)
	for s.elapsed >= period {
		s.elapsed -= period
		frame.Commands.Issue(engine.CmdTick)
	}
}

// InputQueue collects commands from input goroutines until the next frame.
type InputQueue struct {
	mu      sync.Mutex
	pending []engine.Command
}

// NewInputQueue returns an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

// Push queues cmd. It is safe to call from any goroutine.
func (q *InputQueue) Push(cmd engine.Command) {
	q.mu.Lock()
	q.pending = append(q.pending, cmd)
	q.mu.Unlock()
}

// Drain removes and returns every queued command in push order.
func (q *InputQueue) Drain() []engine.Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of queued commands.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InputSystem forwards queued player input to the frame.
type InputSystem struct {
	Queue *InputQueue
}

func (s *InputSystem) Execute(frame *Frame) {
	for _, cmd := range s.Queue.Drain() {
		frame.Commands.Issue(cmd)
	}
}

// GameOverSystem calls OnGameOver once when a game ends. A reset re-arms it.
type GameOverSystem struct {
	OnGameOver func(engine.Snapshot)
	fired      bool
}

func (s *GameOverSystem) Execute(frame *Frame) {
	if !frame.Snapshot.GameOver {
		s.fired = false
	}
	frame.Commands.Defer(func() {
		snap := frame.Current()
		if !snap.GameOver || s.fired {
			return
		}
		s.fired = true
		if s.OnGameOver != nil {
			s.OnGameOver(snap)
		}
	})
}
