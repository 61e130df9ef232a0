// Package gui is the desktop frontend built on ebiten. With Debug set it
// overlays Dear ImGui windows showing scheduler timings and engine state.
package gui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/debugui"
	debugebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

const (
	cellSize   = 28
	margin     = 20
	panelWidth = 220
	tps        = 60
)

// Options configures a desktop session.
type Options struct {
	Game     *engine.Game
	Keys     *input.Keymap
	Repeat   input.Repeat
	Descent  loop.DescentPolicy
	Reporter *leaderboard.Reporter
	Nickname string
	Show     int
	Logger   *log.Logger
	// Debug adds the Dear ImGui overlay.
	Debug bool
}

var (
	colorBackground = color.RGBA{24, 24, 32, 255}
	colorWell       = color.RGBA{36, 36, 48, 255}
	colorGrid       = color.RGBA{48, 48, 62, 255}

	tileColors = [...]color.RGBA{
		engine.Empty:               {0, 0, 0, 0},
		engine.Tile(engine.ShapeI): {80, 220, 230, 255},
		engine.Tile(engine.ShapeO): {240, 220, 80, 255},
		engine.Tile(engine.ShapeT): {180, 90, 220, 255},
		engine.Tile(engine.ShapeS): {110, 210, 90, 255},
		engine.Tile(engine.ShapeZ): {230, 80, 80, 255},
		engine.Tile(engine.ShapeJ): {80, 110, 230, 255},
		engine.Tile(engine.ShapeL): {240, 150, 60, 255},
	}
)

// Game implements ebiten.Game around a loop.Scheduler. The scheduler is
// driven from Update, so the engine only ever runs on ebiten's goroutine.
type Game struct {
	ctx      context.Context
	opts     Options
	sched    *loop.Scheduler
	queue    *loop.InputQueue
	bindings []binding
	repeater *input.Repeater

	imgui *debugebiten.ImguiBackend
	ui    *debugui.System
	timer *debugui.FrameTimer

	mu    sync.Mutex
	board []leaderboard.Record
}

// NewGame wires the scheduler and, when opts.Debug is set, the ImGui
// overlay. The overlay creates the window, so NewGame must run on the main
// goroutine before ebiten.RunGame.
func NewGame(ctx context.Context, opts Options) (*Game, error) {
	bindings, err := resolveKeys(opts.Keys)
	if err != nil {
		return nil, err
	}

	g := &Game{
		ctx:      ctx,
		opts:     opts,
		sched:    loop.NewScheduler(opts.Game),
		queue:    loop.NewInputQueue(),
		bindings: bindings,
		repeater: input.NewRepeater(opts.Repeat),
	}

	g.sched.Register(&loop.InputSystem{Queue: g.queue})
	g.sched.Register(loop.NewGravitySystem(opts.Descent))
	g.sched.Register(&loop.GameOverSystem{OnGameOver: g.gameOver})

	w, h := g.size()
	if opts.Debug {
		g.imgui = debugebiten.NewImguiBackend("blockfall (debug)", w+360, h)
		g.ui = &debugui.System{}
		g.timer = debugui.NewFrameTimer()

		stats := debugui.NewPerformanceStats(120)
		inspector := &debugui.Inspector{}
		g.ui.Add(debugui.Item{Render: func() { stats.Render(g.sched, g.timer.GetDeltaTime()) }})
		g.ui.Add(debugui.Item{Render: func() { inspector.Render(g.sched.Snapshot()) }})
		g.sched.Register(g.ui)
	} else {
		ebiten.SetWindowSize(w, h)
		ebiten.SetWindowTitle("blockfall")
	}

	g.refreshBoard()
	return g, nil
}

// Snapshot returns the state after the last frame.
func (g *Game) Snapshot() engine.Snapshot {
	return g.sched.Snapshot()
}

func (g *Game) size() (int, int) {
	s := g.opts.Game.Snapshot()
	return margin*3 + s.Cols*cellSize + panelWidth, margin*2 + (s.VisibleRows()+1)*cellSize
}

// guardCells returns the live piece's cells in the lowest guard row. They
// are drawn above the well so a new piece is visible as soon as it spawns.
func guardCells(s engine.Snapshot) []engine.Position {
	if s.GameOver || s.HiddenRows == 0 {
		return nil
	}
	var out []engine.Position
	for _, p := range s.Current.Tiles {
		if p.Row == s.HiddenRows-1 {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) gameOver(s engine.Snapshot) {
	if g.opts.Reporter == nil {
		return
	}
	g.opts.Reporter.Submit(g.opts.Nickname, s.Score)
	go func() {
		g.opts.Reporter.Wait()
		g.refreshBoard()
	}()
}

func (g *Game) refreshBoard() {
	if g.opts.Reporter == nil {
		return
	}
	go func() {
		records := g.opts.Reporter.Fetch(g.ctx, g.opts.Show)
		g.mu.Lock()
		g.board = records
		g.mu.Unlock()
	}()
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.BeginFrame()
		defer g.imgui.EndFrame()
	}

	if g.ui == nil || !g.ui.State.WantCaptureKeyboard {
		g.readInput()
	}

	g.sched.Once(1.0 / tps)
	return nil
}

func (g *Game) readInput() {
	dt := time.Second / tps
	for _, b := range g.bindings {
		if repeats(b.cmd) {
			for range g.repeater.Update(b.cmd, ebiten.IsKeyPressed(b.key), dt) {
				g.queue.Push(b.cmd)
			}
			continue
		}
		if inpututil.IsKeyJustPressed(b.key) {
			g.queue.Push(b.cmd)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	s := g.Snapshot()

	ox, oy := float32(margin), float32(margin+cellSize)

	faded := tileColors[s.Current.Shape.Tile()]
	faded.A = 120
	for _, p := range guardCells(s) {
		x := ox + float32(p.Col*cellSize)
		vector.DrawFilledRect(screen, x+1, float32(margin)+1, cellSize-2, cellSize-2, faded, false)
	}

	vector.DrawFilledRect(screen, ox, oy, float32(s.Cols*cellSize), float32(s.VisibleRows()*cellSize), colorWell, false)

	for r := s.HiddenRows; r < s.Rows; r++ {
		y := oy + float32((r-s.HiddenRows)*cellSize)
		for c := range s.Cols {
			x := ox + float32(c*cellSize)
			switch t := s.Occupied(r, c); {
			case t != engine.Empty:
				vector.DrawFilledRect(screen, x+1, y+1, cellSize-2, cellSize-2, tileColors[t], false)
			case s.IsGhost(r, c) && !s.GameOver:
				vector.StrokeRect(screen, x+2, y+2, cellSize-4, cellSize-4, 2, tileColors[s.Current.Shape.Tile()], false)
			default:
				vector.StrokeRect(screen, x, y, cellSize, cellSize, 1, colorGrid, false)
			}
		}
	}

	px := margin*2 + s.Cols*cellSize
	ebitenutil.DebugPrintAt(screen, g.panel(s), px, margin)

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) panel(s engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BLOCKFALL\n\nScore %d\nLines %d\nLevel %d\n\n", s.Score, s.Lines, s.Level)

	next := make([]string, len(s.Preview))
	for i, shape := range s.Preview {
		next[i] = shape.String()
	}
	fmt.Fprintf(&b, "Next  %s\n", strings.Join(next, " "))
	if s.Held.Valid() {
		fmt.Fprintf(&b, "Hold  %s\n", s.Held)
	} else {
		b.WriteString("Hold  -\n")
	}

	if s.GameOver {
		b.WriteString("\nGAME OVER\nr: play again  q: quit\n")
	}

	g.mu.Lock()
	board := g.board
	g.mu.Unlock()
	if len(board) > 0 {
		b.WriteString("\nHigh scores\n")
		for i, r := range board {
			fmt.Fprintf(&b, "%2d. %-12.12s %d\n", i+1, r.Nickname, r.Score)
		}
	}
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, opts Options) (engine.Snapshot, error) {
	g, err := NewGame(ctx, opts)
	if err != nil {
		return engine.Snapshot{}, err
	}
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil {
		return g.Snapshot(), err
	}
	if opts.Reporter != nil {
		opts.Reporter.Wait()
	}
	if opts.Logger != nil {
		opts.Logger.Debug("window closed", "frames", g.sched.GetStats().Frames)
	}
	return g.Snapshot(), nil
}
