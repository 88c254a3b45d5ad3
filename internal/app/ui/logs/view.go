package logs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"porter/internal/app/logview"
	"porter/internal/app/ui/components"
)

const (
	headerHeight  = 1
	footerHeight  = 2
	messageHeight = 1
)

// View returns the rendered viewer
func (m Model) View() string {
	if m.quitting {
		return components.MutedStyle.Render("closing stream…") + "\n"
	}

	sections := []string{m.renderHeader()}

	if m.snapshot.Err != "" {
		sections = append(sections, components.ErrorStyle.Render("error: "+m.snapshot.Err))
	}

	if len(m.rendered) == 0 {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections,
		components.MutedStyle.Render(m.message),
		components.RenderFooter(m.width, m.help.View(m.keys)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.session.MachineID + " · " + m.session.Kind.Label()
	if m.session.Target != "" {
		title += " · " + m.session.Target
	}

	status := string(m.snapshot.Status)
	if status == "" {
		status = string(logview.StatusIdle)
	}

	info := []string{}

	if m.pulse.IsActive() {
		info = append(info, m.pulse.Render(components.StatusStyle(status)))
	}

	info = append(info,
		components.StatusStyle(status).Render(status),
		components.MutedStyle.Render(humanize.Comma(int64(len(m.snapshot.Lines)))+" lines"),
	)

	if m.snapshot.Paused {
		paused := "paused"
		if m.snapshot.Buffered > 0 {
			paused = fmt.Sprintf("paused +%s", humanize.Comma(int64(m.snapshot.Buffered)))
		}

		info = append(info, components.PausedStyle.Render(paused))
	}

	if !m.autoscroll {
		info = append(info, components.MutedStyle.Render("scroll lock"))
	}

	return components.RenderHeader(m.width, components.TitleStyle.Render(title), strings.Join(info, " "))
}

func (m Model) renderEmpty() string {
	switch m.snapshot.Status {
	case logview.StatusConnecting:
		return components.EmptyStateStyle.Render("Connecting to " + m.session.MachineID + "…")
	case logview.StatusClosed:
		return components.EmptyStateStyle.Render("Stream closed. Press 'r' to restart.")
	default:
		return components.EmptyStateStyle.Render("No log lines yet.")
	}
}

// renderLine renders one buffered line wrapped to the viewport width
func (m Model) renderLine(line logview.Line) string {
	ts := components.MutedStyle.Render(line.Received.Format(timestampLayout))

	var row string

	if line.IsNotice() {
		row = ts + " " + components.NoticeStyle.Render("── "+line.Text)
	} else {
		text := line.Text
		if m.formatter != nil && m.formatter.Highlighted(text) {
			text = components.HighlightStyle.Render(text)
		}

		row = ts + " "
		if line.Source != "" {
			source := components.Truncate(line.Source, components.LogSourceMaxWidth)
			row += components.SourceStyle(line.Source).Render(source) + " " + components.SeparatorStyle.Render("|") + " "
		}

		row += text
	}

	width := m.width
	if width <= 0 {
		width = components.DefaultViewportWidth
	}

	return lipgloss.NewStyle().Width(width).Render(row)
}
