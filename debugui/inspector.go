package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// Inspector is a window showing the raw engine state behind the renderer.
type Inspector struct {
	ShowGuardRows bool
}

func (in *Inspector) Render(s engine.Snapshot) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 380), imgui.CondOnce)
	if !imgui.BeginV("Engine Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Score: %d  Lines: %d  Level: %d", s.Score, s.Lines, s.Level))
	if s.GameOver {
		imgui.PushStyleColorVec4(imgui.ColText, imgui.NewVec4(1, 0.3, 0.3, 1))
		imgui.Text("GAME OVER")
		imgui.PopStyleColor()
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Piece: %s rot %d at (%d,%d)", s.Current.Shape, s.Current.Rotation, s.Current.Anchor.Row, s.Current.Anchor.Col))
	imgui.Text(fmt.Sprintf("Drop distance: %d", s.DropDistance))
	imgui.Text(fmt.Sprintf("Held: %s (can hold: %t)", s.Held, s.CanHold))

	preview := make([]string, len(s.Preview))
	for i, p := range s.Preview {
		preview[i] = p.String()
	}
	imgui.Text("Queue: " + strings.Join(preview, " "))

	if imgui.TreeNodeStr("Board") {
		imgui.Checkbox("Guard rows", &in.ShowGuardRows)
		start := s.HiddenRows
		if in.ShowGuardRows {
			start = 0
		}
		for r := start; r < s.Rows; r++ {
			imgui.Text(boardRow(s, r))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// boardRow renders one row: locked tiles by shape letter, the live piece in
// lowercase, the ghost as ':' and empty cells as '.'.
func boardRow(s engine.Snapshot, row int) string {
	var b strings.Builder
	for c := range s.Cols {
		switch {
		case s.Occupied(row, c) != engine.Empty && s.At(row, c) == engine.Empty:
			b.WriteString(strings.ToLower(s.Current.Shape.String()))
		case s.At(row, c) != engine.Empty:
			b.WriteString(engine.ShapeFromTile(s.At(row, c)).String())
		case s.IsGhost(row, c):
			b.WriteByte(':')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}
