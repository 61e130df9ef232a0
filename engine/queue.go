package engine

import (
	"fmt"
	"math/rand/v2"
)

// Queue is an endless stream of shapes drawn uniformly at random, with a
// fixed look-ahead buffer so upcoming shapes can be shown without consuming
// them.
type Queue struct {
	rng *rand.Rand
	buf []Shape
}

// NewQueue fills a look-ahead buffer of the given size from rng.
func NewQueue(rng *rand.Rand, size int) *Queue {
	if size < 1 {
		panic(fmt.Errorf("%w: look-ahead %d", ErrInvalidConfig, size))
	}
	if rng == nil {
		panic(fmt.Errorf("%w: nil random source", ErrInvalidConfig))
	}
	q := &Queue{rng: rng, buf: make([]Shape, size)}
	for i := range q.buf {
		q.buf[i] = q.draw()
	}
	return q
}

// Peek returns the next shape without consuming it.
func (q *Queue) Peek() Shape {
	return q.buf[0]
}

// Preview returns a copy of the look-ahead buffer, soonest first.
func (q *Queue) Preview() []Shape {
	out := make([]Shape, len(q.buf))
	copy(out, q.buf)
	return out
}

// Next removes and returns the head of the queue and appends a fresh shape.
func (q *Queue) Next() Shape {
	head := q.buf[0]
	copy(q.buf, q.buf[1:])
	q.buf[len(q.buf)-1] = q.draw()
	return head
}

func (q *Queue) draw() Shape {
	return Shapes[q.rng.IntN(len(Shapes))]
}
