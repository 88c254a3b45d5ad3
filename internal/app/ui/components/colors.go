package components

import "github.com/charmbracelet/lipgloss"

// Color palette for the UI with semantic naming
const (
	// Foreground colors - text and elements
	FgPrimary = lipgloss.Color("#7D56F4") // Purple - primary/focus color
	FgMuted   = lipgloss.Color("7")       // Light gray - muted elements
	FgBorder  = lipgloss.Color("8")       // Gray - borders and help text

	// Status colors - session states
	FgStatusLive       = lipgloss.Color("10") // Green - live stream
	FgStatusConnecting = lipgloss.Color("11") // Yellow - waiting for acknowledgment
	FgStatusError      = lipgloss.Color("9")  // Red - server or validation error
	FgStatusClosed     = lipgloss.Color("8")  // Gray - closed or idle
)

// SeparatorColor is the adaptive color for the source | text separator
var SeparatorColor = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#a3a3a3"}

// HighlightColor marks lines matching the highlight pattern
var HighlightColor = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fcd34d"}

// SourceColorPalette provides distinct colors for source tags
var SourceColorPalette = []lipgloss.AdaptiveColor{
	{Light: "#0891b2", Dark: "#22d3ee"}, // Cyan
	{Light: "#059669", Dark: "#34d399"}, // Emerald
	{Light: "#7c3aed", Dark: "#a78bfa"}, // Violet
	{Light: "#2563eb", Dark: "#60a5fa"}, // Blue
	{Light: "#db2777", Dark: "#f472b6"}, // Pink
	{Light: "#d97706", Dark: "#fbbf24"}, // Amber
	{Light: "#0d9488", Dark: "#2dd4bf"}, // Teal
	{Light: "#4f46e5", Dark: "#818cf8"}, // Indigo
}

// SourceStyle returns a stable style for a source tag
func SourceStyle(source string) lipgloss.Style {
	h := 0
	for _, c := range source {
		h = 31*h + int(c)
	}

	if h < 0 {
		h = -h
	}

	color := SourceColorPalette[h%len(SourceColorPalette)]

	return lipgloss.NewStyle().Foreground(color).Bold(true)
}
