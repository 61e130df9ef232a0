package engine

import (
	"fmt"
	"strings"
)

// Command is a discrete instruction issued to a Game by input or a driver.
type Command int

const (
	CmdNone Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdSoftDrop
	CmdRotateCW
	CmdRotateCCW
	CmdHold
	CmdHardDrop
	CmdTick
	CmdReset
)

// Commands lists every command a Game understands.
var Commands = []Command{
	CmdMoveLeft, CmdMoveRight, CmdSoftDrop, CmdRotateCW, CmdRotateCCW,
	CmdHold, CmdHardDrop, CmdTick, CmdReset,
}

var commandNames = map[Command]string{
	CmdNone:      "none",
	CmdMoveLeft:  "move_left",
	CmdMoveRight: "move_right",
	CmdSoftDrop:  "soft_drop",
	CmdRotateCW:  "rotate_cw",
	CmdRotateCCW: "rotate_ccw",
	CmdHold:      "hold",
	CmdHardDrop:  "hard_drop",
	CmdTick:      "tick",
	CmdReset:     "reset",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand resolves a command by its String name, ignoring case and
// accepting '-' in place of '_'.
func ParseCommand(name string) (Command, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for c, n := range commandNames {
		if c != CmdNone && n == key {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}
