package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the line output and the run summary
var (
	colorAccent  = lipgloss.Color("#00E5FF")
	colorHeader  = lipgloss.Color("#FF2BD6")
	colorGood    = lipgloss.Color("#39FF14")
	colorValue   = lipgloss.Color("#FFE600")
	colorCaution = lipgloss.Color("#FF8C00")
	colorBad     = lipgloss.Color("#FF3B3B")
	colorInk     = lipgloss.Color("#0A0E27")
	colorMuted   = lipgloss.Color("#9A9A9A")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHeader).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Background(colorHeader).
			Foreground(colorInk).
			Bold(true).
			Padding(0, 1)

	sectionStyle = fg(colorAccent).Bold(true).MarginTop(1)
	labelStyle   = fg(colorAccent)
	valueStyle   = fg(colorValue)
	dimStyle     = fg(colorMuted).Faint(true)
	successStyle = fg(colorGood).Bold(true)
	errorStyle   = fg(colorBad).Bold(true)
	warningStyle = fg(colorCaution).Bold(true)
)
