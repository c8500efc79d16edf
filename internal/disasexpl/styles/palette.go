package styles

import "github.com/charmbracelet/lipgloss/v2"

// Listing colors, shared by the markdown style and the viewer.
const (
	Foreground = "#D4D4D4"
	Path       = "#4FC1FF"
	Label      = "#EACD53"
	Address    = "#4F4F4F"
	Selection  = "#264F78"
)

var (
	MenuBar = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	ActiveTab = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	InactiveTab = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// Highlight marks the lines generated from the selected source line.
	Highlight = lipgloss.NewStyle().
			Background(lipgloss.Color(Selection))

	LineNumber = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#858585"))

	SourceRef = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Path))
)
