package style

import (
	"github.com/charmbracelet/lipgloss"
)

// ErrorColor adapts to light and dark terminals
var ErrorColor = lipgloss.AdaptiveColor{
	Light: "#DC3545",
	Dark:  "#FF6B7D",
}

var (
	// ErrorTitleStyle heads the error block printed when a command fails
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorBoxStyle frames the error message and trace
	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1)
)
