package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type settings struct {
	visibleRows int
	cols        int
	preview     int
	rng         *rand.Rand
}

// Option configures a Game built by New.
type Option func(*settings)

// WithSize sets the visible playfield size. HiddenRows guard rows are added
// on top.
func WithSize(visibleRows, cols int) Option {
	return func(s *settings) {
		s.visibleRows = visibleRows
		s.cols = cols
	}
}

// WithSeed makes the piece sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses rng as the random source for the piece queue.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// WithPreview sets how many upcoming shapes the queue materialises.
func WithPreview(n int) Option {
	return func(s *settings) {
		s.preview = n
	}
}

// Game is the state machine of one play session. It is not safe for
// concurrent use; a single driver owns it.
type Game struct {
	cfg   settings
	grid  *Grid
	queue *Queue

	current  Piece
	held     Shape
	holdUsed bool

	score     int
	lines     int
	lastClear int
	over      bool
}

// New starts a game with an empty grid, a fresh queue and score zero.
func New(opts ...Option) *Game {
	cfg := settings{
		visibleRows: DefaultVisibleRows,
		cols:        DefaultCols,
		preview:     1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.visibleRows < 4 || cfg.cols < 4 {
		panic(fmt.Errorf("%w: playfield %dx%d is smaller than 4x4", ErrInvalidConfig, cfg.visibleRows, cfg.cols))
	}
	if cfg.preview < 1 {
		panic(fmt.Errorf("%w: preview %d", ErrInvalidConfig, cfg.preview))
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{cfg: cfg}
	g.start()
	return g
}

func (g *Game) start() {
	g.grid = NewGrid(g.cfg.visibleRows+HiddenRows, g.cfg.cols)
	g.queue = NewQueue(g.cfg.rng, g.cfg.preview)
	g.held = NoShape
	g.holdUsed = false
	g.score = 0
	g.lines = 0
	g.lastClear = 0
	g.over = false
	g.spawn(g.queue.Next())
}

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Apply dispatches cmd to the matching method. Unknown commands leave the
// game untouched.
func (g *Game) Apply(cmd Command) Snapshot {
	switch cmd {
	case CmdMoveLeft:
		return g.MoveLeft()
	case CmdMoveRight:
		return g.MoveRight()
	case CmdSoftDrop:
		return g.SoftDrop()
	case CmdRotateCW:
		return g.RotateClockwise()
	case CmdRotateCCW:
		return g.RotateCounterClockwise()
	case CmdHold:
		return g.Hold()
	case CmdHardDrop:
		return g.HardDrop()
	case CmdTick:
		return g.MoveBlockDown()
	case CmdReset:
		return g.Reset()
	}
	return g.Snapshot()
}

// Advance is the automatic descent step. It reports whether the game has
// ended so a driver can stop scheduling.
func (g *Game) Advance() (Snapshot, bool) {
	s := g.MoveBlockDown()
	return s, s.GameOver
}

// MoveLeft shifts the piece one column left if it fits.
func (g *Game) MoveLeft() Snapshot {
	if g.begin() {
		g.try(func(p *Piece) { p.Move(0, -1) })
	}
	return g.Snapshot()
}

// MoveRight shifts the piece one column right if it fits.
func (g *Game) MoveRight() Snapshot {
	if g.begin() {
		g.try(func(p *Piece) { p.Move(0, 1) })
	}
	return g.Snapshot()
}

// RotateClockwise turns the piece if the rotated pose fits. There is no kick
// search.
func (g *Game) RotateClockwise() Snapshot {
	if g.begin() {
		g.try((*Piece).RotateClockwise)
	}
	return g.Snapshot()
}

// RotateCounterClockwise turns the piece back if the rotated pose fits.
func (g *Game) RotateCounterClockwise() Snapshot {
	if g.begin() {
		g.try((*Piece).RotateCounterClockwise)
	}
	return g.Snapshot()
}

// SoftDrop moves the piece down one row for SoftDropPoints, or locks it if
// it cannot move.
func (g *Game) SoftDrop() Snapshot {
	if g.begin() {
		g.descend(SoftDropPoints)
	}
	return g.Snapshot()
}

// MoveBlockDown is SoftDrop without the bonus; drivers issue it on a timer.
func (g *Game) MoveBlockDown() Snapshot {
	if g.begin() {
		g.descend(0)
	}
	return g.Snapshot()
}

// HardDrop drops the piece as far as it can fall, awards HardDropPoints per
// row and locks it.
func (g *Game) HardDrop() Snapshot {
	if g.begin() {
		d := g.DropDistance()
		g.current.Move(d, 0)
		g.score += d * HardDropPoints
		g.lock()
	}
	return g.Snapshot()
}

// Hold banks the live piece. With an empty hold slot the next queued shape
// comes into play; otherwise the held shape is swapped in. Hold works once
// per piece and re-arms when a piece locks.
func (g *Game) Hold() Snapshot {
	if g.begin() && !g.holdUsed {
		outgoing := g.current.Shape()
		incoming := g.held
		if incoming == NoShape {
			incoming = g.queue.Next()
		}
		g.held = outgoing
		g.spawn(incoming)
		g.holdUsed = true
	}
	return g.Snapshot()
}

// Reset discards the session and starts a new one. The piece sequence
// continues from the game's random source.
func (g *Game) Reset() Snapshot {
	g.start()
	return g.Snapshot()
}

// DropDistance returns how many rows the piece can fall before it collides.
func (g *Game) DropDistance() int {
	d := 0
	for {
		p := g.current
		p.Move(d+1, 0)
		if !g.fits(p) {
			return d
		}
		d++
	}
}

// Snapshot returns the observable state.
func (g *Game) Snapshot() Snapshot {
	drop := g.DropDistance()
	tiles := g.current.Tiles()
	ghost := tiles
	for i := range ghost {
		ghost[i].Row += drop
	}
	return Snapshot{
		Rows:       g.grid.Rows(),
		Cols:       g.grid.Cols(),
		HiddenRows: HiddenRows,
		Cells:      g.grid.Cells(),
		Current: PieceView{
			Shape:    g.current.Shape(),
			Rotation: g.current.Rotation(),
			Anchor:   g.current.Anchor(),
			Tiles:    tiles,
		},
		DropDistance: drop,
		Ghost:        ghost,
		Next:         g.queue.Peek(),
		Preview:      g.queue.Preview(),
		Held:         g.held,
		CanHold:      !g.holdUsed && !g.over,
		Score:        g.score,
		Lines:        g.lines,
		Level:        LevelFor(g.lines),
		LastClear:    g.lastClear,
		GameOver:     g.over,
	}
}

// begin prepares a mutating command and reports whether it may run.
func (g *Game) begin() bool {
	if g.over {
		return false
	}
	g.lastClear = 0
	return true
}

// try applies step to a copy of the live piece and commits it if it fits.
func (g *Game) try(step func(*Piece)) bool {
	candidate := g.current
	step(&candidate)
	if !g.fits(candidate) {
		return false
	}
	g.current = candidate
	return true
}

func (g *Game) descend(bonus int) {
	if g.try(func(p *Piece) { p.Move(1, 0) }) {
		g.score += bonus
		return
	}
	g.lock()
}

func (g *Game) fits(p Piece) bool {
	for _, t := range p.Tiles() {
		if !g.grid.IsEmpty(t.Row, t.Col) {
			return false
		}
	}
	return true
}

// lock writes the piece into the grid, clears the full rows it touched,
// scores them and brings the next piece into play.
func (g *Game) lock() {
	id := g.current.Shape().Tile()
	rows := make([]int, 0, 4)
	for _, t := range g.current.Tiles() {
		g.grid.Set(t.Row, t.Col, id)
		if !slices.Contains(rows, t.Row) {
			rows = append(rows, t.Row)
		}
	}

	// Top to bottom: a clear only shifts rows above it, so the indices of
	// rows still to be checked stay valid.
	slices.Sort(rows)
	cleared := 0
	for _, r := range rows {
		if g.grid.IsRowFull(r) {
			g.grid.ClearRow(r)
			g.grid.ShiftRowsDown(r)
			cleared++
		}
	}

	g.lines += cleared
	g.lastClear = cleared
	g.score += LineScore(cleared)
	g.holdUsed = false

	if g.toppedOut() {
		g.over = true
		return
	}
	g.spawn(g.queue.Next())
}

// toppedOut reports whether locked tiles remain in the guard rows.
func (g *Game) toppedOut() bool {
	for r := range HiddenRows {
		if !g.grid.IsRowEmpty(r) {
			return true
		}
	}
	return false
}

func (g *Game) spawn(s Shape) {
	g.current = NewPiece(s, g.grid.Cols())
	if !g.fits(g.current) {
		g.over = true
	}
}
