package styles

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	Background = "#1E1F29"
	Foreground = "#F8F8F2"

	Red    = "#FF5555" // Errors
	Orange = "#FFB86C" // Warnings, skipped files
	Yellow = "#F1FA8C" // Keys, highlights
	Green  = "#50FA7B" // Success
	Cyan   = "#8BE9FD" // Extensions, paths
	Purple = "#BD93F9" // Titles, active tab

	Comment = "#6272A4" // Dim text, help
	Border  = "#44475A" // Borders, separators
)

// Common styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Purple))
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Key/value listings (file data, config, stacks)
	KeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))
	ExtStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan)).Bold(true)

	// Viewer tabs
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Purple)).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Comment)).
				Padding(0, 1)

	PaneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)
