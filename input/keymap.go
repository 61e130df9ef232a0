// Package input translates key names from a frontend into engine commands.
package input

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/plus3/blockfall/engine"
)

// ErrUnboundKey is returned when a binding names an empty key.
var ErrUnboundKey = errors.New("empty key name")

// Keymap resolves normalised key names to commands. The zero value binds
// nothing.
type Keymap struct {
	bindings map[string]engine.Command
}

var defaultBindings = map[engine.Command][]string{
	engine.CmdMoveLeft:  {"left", "a"},
	engine.CmdMoveRight: {"right", "d"},
	engine.CmdSoftDrop:  {"down", "s"},
	engine.CmdRotateCW:  {"up", "w"},
	engine.CmdRotateCCW: {"z", "x"},
	engine.CmdHold:      {"c"},
	engine.CmdHardDrop:  {"space"},
	engine.CmdReset:     {"r"},
}

// DefaultKeymap returns the stock bindings: arrows and WASD to move and
// rotate, z/x to rotate back, c to hold, space to hard drop, r to restart.
func DefaultKeymap() *Keymap {
	k := &Keymap{bindings: make(map[string]engine.Command)}
	for cmd, keys := range defaultBindings {
		for _, key := range keys {
			k.bindings[key] = cmd
		}
	}
	return k
}

// NewKeymap starts from the defaults and replaces the keys of every command
// named in overrides. Command names are parsed with engine.ParseCommand.
func NewKeymap(overrides map[string][]string) (*Keymap, error) {
	k := DefaultKeymap()
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		cmd, err := engine.ParseCommand(name)
		if err != nil {
			return nil, fmt.Errorf("keymap: %w", err)
		}
		k.Unbind(cmd)
		for _, key := range overrides[name] {
			if err := k.Bind(key, cmd); err != nil {
				return nil, fmt.Errorf("keymap %s: %w", name, err)
			}
		}
	}
	return k, nil
}

// Bind maps key to cmd, replacing any earlier binding of key.
func (k *Keymap) Bind(key string, cmd engine.Command) error {
	key = Normalize(key)
	if key == "" {
		return ErrUnboundKey
	}
	if k.bindings == nil {
		k.bindings = make(map[string]engine.Command)
	}
	k.bindings[key] = cmd
	return nil
}

// Unbind removes every key bound to cmd.
func (k *Keymap) Unbind(cmd engine.Command) {
	maps.DeleteFunc(k.bindings, func(_ string, c engine.Command) bool {
		return c == cmd
	})
}

// Lookup returns the command bound to key. Unknown keys report false.
func (k *Keymap) Lookup(key string) (engine.Command, bool) {
	cmd, ok := k.bindings[Normalize(key)]
	return cmd, ok
}

// Bindings returns a copy of every key binding.
func (k *Keymap) Bindings() map[string]engine.Command {
	return maps.Clone(k.bindings)
}

// Keys returns the sorted key names bound to cmd.
func (k *Keymap) Keys(cmd engine.Command) []string {
	var keys []string
	for key, c := range k.bindings {
		if c == cmd {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// Help renders one "keys: command" line per bound command, in command order.
func (k *Keymap) Help() string {
	var b strings.Builder
	for _, cmd := range engine.Commands {
		keys := k.Keys(cmd)
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.Join(keys, "/"), cmd)
	}
	return b.String()
}

// Normalize lowercases a key name and spells the space bar "space".
func Normalize(key string) string {
	if key == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(key))
}
