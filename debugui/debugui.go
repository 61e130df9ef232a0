// Package debugui renders Dear ImGui developer windows on top of the
// desktop frontend: driver timing, command counts and a live engine view.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
)

// Item holds a Dear ImGui render function drawn every frame.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Frontends should not forward keys to the game while WantCaptureKeyboard
// is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// System defers every item's render function to the end of the frame and
// refreshes State.
type System struct {
	Items []Item
	State InputState
}

// Add registers an item.
func (s *System) Add(item Item) {
	s.Items = append(s.Items, item)
}

func (s *System) Execute(frame *loop.Frame) {
	io := imgui.CurrentIO()
	s.State.WantCaptureMouse = io.WantCaptureMouse()
	s.State.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range s.Items {
		frame.Commands.Defer(item.Render)
	}
}
