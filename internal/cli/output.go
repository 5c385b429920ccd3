package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daypoints/internal/constants"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Swatch renders a small block in the habit's colour.
func Swatch(tag constants.ColorTag) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(tag))).Render("■")
}

// Bar renders value/max as a bar of width cells in colour tag. Values past
// max fill the bar.
func Bar(value, max, width int, tag constants.ColorTag) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = value * width / max
		if filled == 0 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(string(tag))).Render(strings.Repeat("█", filled))
	off := MutedStyle.Render(strings.Repeat("░", width-filled))
	return on + off
}
