package gui

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
)

// Keymap names follow the terminal's ("left", "space"); ebiten names the same
// keys differently.
var keyAliases = map[string]ebiten.Key{
	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"esc":    ebiten.KeyEscape,
	"tab":    ebiten.KeyTab,
	"pgup":   ebiten.KeyPageUp,
	"pgdown": ebiten.KeyPageDown,
}

// binding is one physical key and the command it issues.
type binding struct {
	key ebiten.Key
	cmd engine.Command
}

// resolveKeys translates a keymap into ebiten keys. Unknown names are an
// error so a typo in the config is not silently ignored.
func resolveKeys(k *input.Keymap) ([]binding, error) {
	var out []binding
	for _, cmd := range engine.Commands {
		for _, name := range k.Keys(cmd) {
			key, err := ebitenKey(name)
			if err != nil {
				return nil, err
			}
			out = append(out, binding{key: key, cmd: cmd})
		}
	}
	return out, nil
}

func ebitenKey(name string) (ebiten.Key, error) {
	if key, ok := keyAliases[name]; ok {
		return key, nil
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("%w: %q has no desktop key", input.ErrUnboundKey, name)
	}
	return key, nil
}

// repeats reports whether holding the key should keep issuing cmd.
func repeats(cmd engine.Command) bool {
	switch cmd {
	case engine.CmdMoveLeft, engine.CmdMoveRight, engine.CmdSoftDrop:
		return true
	}
	return false
}
