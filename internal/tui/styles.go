package tui

import "github.com/charmbracelet/lipgloss"

// palette colors list entries. An entry keeps its color for as long as the
// word stays in the list, whatever its rank.
var palette = []lipgloss.Color{"75", "114", "180", "176", "81", "216", "150", "141"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	ghostStyle  = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	hoverStyle  = lipgloss.NewStyle().Underline(true).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func wordColor(word string) lipgloss.Color {
	var h uint32
	for _, r := range word {
		h = h*31 + uint32(r)
	}
	return palette[h%uint32(len(palette))]
}
