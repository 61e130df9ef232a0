package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/leaderboard"
)

// RenderBoard draws the visible rows of s with the live piece and its ghost.
// The top line is the lowest guard row, where only the live piece is drawn,
// so a freshly spawned piece shows before it descends into the well.
func RenderBoard(s engine.Snapshot) string {
	var b strings.Builder
	if s.HiddenRows > 0 {
		b.WriteString(renderGuardRow(s, s.HiddenRows-1))
		b.WriteByte('\n')
	}
	for r := s.HiddenRows; r < s.Rows; r++ {
		for c := range s.Cols {
			switch t := s.Occupied(r, c); {
			case t != engine.Empty:
				b.WriteString(tileStyle(t).Render(cellFilled))
			case s.IsGhost(r, c) && !s.GameOver:
				b.WriteString(tileStyle(s.Current.Shape.Tile()).Render(cellGhost))
			default:
				b.WriteString(styleDim.Render(cellEmpty))
			}
		}
		if r < s.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return styleBoard.Render(b.String())
}

func renderGuardRow(s engine.Snapshot, row int) string {
	var b strings.Builder
	for c := range s.Cols {
		if t := s.Occupied(row, c); t != engine.Empty && !s.GameOver {
			b.WriteString(tileStyle(t).Faint(true).Render(cellFilled))
		} else {
			b.WriteString("  ")
		}
	}
	return b.String()
}

// renderShape draws a shape in its spawn rotation inside a 2x4 box.
func renderShape(s engine.Shape) string {
	if !s.Valid() {
		return styleDim.Render("--------") + "\n"
	}
	var grid [2][4]bool
	for _, p := range engine.Cells(s, 0) {
		// Spawn rotations occupy rows 0-1 except I, which sits on row 1.
		row := p.Row
		if s == engine.ShapeI {
			row--
		}
		grid[row][p.Col] = true
	}

	style := tileStyle(s.Tile())
	var b strings.Builder
	for _, row := range grid {
		for _, on := range row {
			if on {
				b.WriteString(style.Render(cellFilled))
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderPanel draws the score, upcoming shapes, the hold slot and the
// leaderboard.
func RenderPanel(s engine.Snapshot, board []leaderboard.Record, help string) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("BLOCKFALL") + "\n\n")

	stat := func(label string, v int) {
		fmt.Fprintf(&b, "%s %s\n", styleLabel.Render(fmt.Sprintf("%-6s", label)), styleValue.Render(fmt.Sprint(v)))
	}
	stat("Score", s.Score)
	stat("Lines", s.Lines)
	stat("Level", s.Level)

	b.WriteString("\n" + styleLabel.Render("Next") + "\n")
	for _, shape := range s.Preview {
		b.WriteString(renderShape(shape))
	}

	holdLabel := "Hold"
	if !s.CanHold {
		holdLabel += " (used)"
	}
	b.WriteString("\n" + styleLabel.Render(holdLabel) + "\n")
	b.WriteString(renderShape(s.Held))

	if s.GameOver {
		b.WriteString("\n" + styleOver.Render("GAME OVER") + "\n")
		b.WriteString(styleWarning.Render("r: play again  q: quit") + "\n")
	}

	if len(board) > 0 {
		b.WriteString("\n" + styleLabel.Render("High scores") + "\n")
		for i, r := range board {
			fmt.Fprintf(&b, "%2d. %-12s %s\n", i+1, truncate(r.Nickname, 12), styleValue.Render(fmt.Sprint(r.Score)))
		}
	}

	if help != "" {
		b.WriteString("\n" + styleDim.Render(help))
	}
	return stylePanel.Render(b.String())
}

// View joins the board and the side panel.
func View(s engine.Snapshot, board []leaderboard.Record, help string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, RenderBoard(s), RenderPanel(s, board, help))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
