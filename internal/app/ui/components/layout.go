package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/ansi"

	"porter/internal/config"
)

// RenderLine renders a horizontal line of the specified width with separator style
func RenderLine(width int) string {
	if width < 0 {
		width = 0
	}

	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// RenderHeader renders the header with format: ─── <title> ─────── <info> ───
func RenderHeader(width int, title, info string) string {
	titleWidth := lipgloss.Width(title)
	infoWidth := lipgloss.Width(info)

	maxTitleWidth := width - infoWidth - HeaderSeparatorMinWidth - HeaderFixedChars
	if titleWidth > maxTitleWidth && maxTitleWidth > 0 {
		title = Truncate(title, maxTitleWidth)
		titleWidth = lipgloss.Width(title)
	}

	separatorWidth := max(width-titleWidth-infoWidth-HeaderFixedChars, HeaderSeparatorMinWidth)

	return HeaderStyle.Render(RenderLine(3) + " " + title + " " + RenderLine(separatorWidth) + " " + info + " " + RenderLine(3))
}

// RenderFooter renders the version line followed by help text
func RenderFooter(width int, helpText string) string {
	version := fmt.Sprintf("%s v%s", config.AppName, config.Version)
	versionWidth := lipgloss.Width(version)

	separatorWidth := max(width-versionWidth-FooterFixedChars, FooterSeparatorMinWidth)
	versionLine := RenderLine(separatorWidth) + " " + MutedStyle.Render(version) + " " + RenderLine(3)

	return FooterStyle.Render(lipgloss.JoinVertical(lipgloss.Left, versionLine, HelpStyle.Render(helpText)))
}

// Truncate cuts plain text to maxWidth printable cells, marking the cut with an ellipsis
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	if ansi.PrintableRuneWidth(s) <= maxWidth {
		return s
	}

	if maxWidth == 1 {
		return "…"
	}

	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		truncated := string(runes[:i]) + "…"
		if ansi.PrintableRuneWidth(truncated) <= maxWidth {
			return truncated
		}
	}

	return "…"
}
