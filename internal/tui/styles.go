package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	workingColor = lipgloss.Color("#10B981") // Green
	waitingColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light text
	borderColor  = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	workingStyle = lipgloss.NewStyle().
			Foreground(workingColor)

	idleStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	waitingStyle = lipgloss.NewStyle().
			Foreground(waitingColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)
