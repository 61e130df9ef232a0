package term

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/plus3/blockfall/engine"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorRed    = lipgloss.Color("167")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// tileColors is indexed by tile id.
var tileColors = [...]lipgloss.Color{
	engine.Empty:               colorDim,
	engine.Tile(engine.ShapeI): lipgloss.Color("51"),
	engine.Tile(engine.ShapeJ): lipgloss.Color("33"),
	engine.Tile(engine.ShapeL): lipgloss.Color("208"),
	engine.Tile(engine.ShapeO): lipgloss.Color("226"),
	engine.Tile(engine.ShapeS): lipgloss.Color("46"),
	engine.Tile(engine.ShapeT): lipgloss.Color("129"),
	engine.Tile(engine.ShapeZ): lipgloss.Color("196"),
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray)
	styleValue   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleOver    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	styleBoard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	stylePanel = lipgloss.NewStyle().
			PaddingLeft(2)
)

const (
	cellFilled = "██"
	cellGhost  = "░░"
	cellEmpty  = " ·"
)

func tileStyle(t engine.Tile) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tileColors[t])
}
