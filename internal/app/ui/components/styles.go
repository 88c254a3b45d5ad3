package components

import "github.com/charmbracelet/lipgloss"

// Common styles shared across UI components
var (
	HeaderStyle = lipgloss.NewStyle().
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(FgBorder)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(FgMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(FgBorder)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(FgStatusError).
			Bold(true)

	PausedStyle = lipgloss.NewStyle().
			Foreground(FgStatusConnecting).
			Bold(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			MarginTop(2)

	PanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FgBorder).
				Padding(0, 1)
)

// StatusStyle returns the style of a session status label
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "live":
		return lipgloss.NewStyle().Foreground(FgStatusLive).Bold(true)
	case "connecting":
		return lipgloss.NewStyle().Foreground(FgStatusConnecting)
	default:
		return lipgloss.NewStyle().Foreground(FgStatusClosed)
	}
}
