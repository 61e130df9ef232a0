package loop

import "github.com/plus3/blockfall/engine"

// Commands buffers game commands issued by systems during a frame. They are
// applied in issue order when the frame ends, so every system in a frame
// observes the same snapshot.
type Commands struct {
	cmds    []engine.Command
	defers  []func()
	applied func(engine.Command)
}

func newCommands(applied func(engine.Command)) *Commands {
	return &Commands{applied: applied}
}

// Issue queues cmd for the end of the frame.
func (c *Commands) Issue(cmd engine.Command) {
	c.cmds = append(c.cmds, cmd)
}

// Defer queues fn to run after all issued commands have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of commands waiting to be applied.
func (c *Commands) Len() int {
	return len(c.cmds)
}

// Flush applies the buffered commands to game, runs deferred functions and
// resets the buffer. It returns the snapshot after the last command.
func (c *Commands) Flush(game *engine.Game) engine.Snapshot {
	for _, cmd := range c.cmds {
		game.Apply(cmd)
		if c.applied != nil {
			c.applied(cmd)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.cmds = c.cmds[:0]
	c.defers = c.defers[:0]
	return game.Snapshot()
}
