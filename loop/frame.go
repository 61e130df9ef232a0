package loop

import "github.com/plus3/blockfall/engine"

// Frame is passed to every system during one scheduler step.
type Frame struct {
	DeltaTime float64
	Commands  *Commands
	// Snapshot is the game state at the start of the frame.
	Snapshot engine.Snapshot

	game *engine.Game
}

func newFrame(dt float64, game *engine.Game, snapshot engine.Snapshot, applied func(engine.Command)) *Frame {
	return &Frame{
		DeltaTime: dt,
		Commands:  newCommands(applied),
		Snapshot:  snapshot,
		game:      game,
	}
}

// Current returns the live game state. Inside a deferred function it
// reflects every command applied this frame.
func (f *Frame) Current() engine.Snapshot {
	return f.game.Snapshot()
}
