package logs

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"porter/internal/app/logview"
)

// Update handles Bubble Tea messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.sender.Ack()
		m.refresh()

		return m, nil
	case tickMsg:
		m.pulse.Update()

		if m.formatter != nil && m.formatter.Revision() != m.revision {
			m.revision = m.formatter.Revision()
			m.rendered = nil
			m.refresh()
		}

		return m, tickCmd()
	case startedMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Msg("Start failed")
		}

		m.refresh()

		return m, nil
	case exportedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("export failed: %v", msg.err)
			m.log.Error().Err(msg.err).Str("path", msg.path).Msg("Export failed")
		} else {
			m.message = "exported to " + msg.path
		}

		return m, nil
	case teardownDoneMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rendered = nil
		m.refresh()

		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) && m.quitting {
		return m, tea.Quit
	}

	if m.quitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit, m.keys.ForceQuit):
		m.quitting = true
		return m, teardownCmd(m.ctrl.Teardown())
	case key.Matches(msg, m.keys.Pause):
		m.ctrl.TogglePause()
		m.refresh()
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
		m.message = ""
		m.refresh()
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
		m.refresh()
	case key.Matches(msg, m.keys.Restart):
		m.message = ""
		return m, m.startCmd()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Autoscroll):
		m.autoscroll = !m.autoscroll
		if m.autoscroll {
			m.viewport.GotoBottom()
		}
	default:
		return m.scroll(msg)
	}

	return m, nil
}

// scroll forwards navigation keys to the viewport; scrolling up leaves autoscroll
func (m Model) scroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	oldYOffset := m.viewport.YOffset

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	if m.autoscroll && m.viewport.YOffset < oldYOffset {
		m.autoscroll = false
	}

	return m, cmd
}

// refresh redraws from a fresh snapshot, rendering only lines not yet cached
func (m *Model) refresh() {
	m.snapshot = m.ctrl.Snapshot()

	if m.snapshot.Status == logview.StatusLive {
		m.pulse.Start()
	} else {
		m.pulse.Stop()
	}

	lines := m.snapshot.Lines

	cached := len(m.rendered)
	if cached > len(lines) || (cached > 0 && lines[cached-1] != m.lastLine) {
		m.rendered = nil
		cached = 0
	}

	for _, line := range lines[cached:] {
		m.rendered = append(m.rendered, m.renderLine(line))
	}

	if len(lines) > 0 {
		m.lastLine = lines[len(lines)-1]
	}

	m.layout()
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, m.rendered...))

	if m.autoscroll {
		m.viewport.GotoBottom()
	}
}

func (m *Model) layout() {
	chrome := headerHeight + footerHeight + messageHeight
	if m.snapshot.Err != "" {
		chrome++
	}

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chrome, 1)
	m.help.Width = m.width
}

func (m Model) exportPath() string {
	return filepath.Join(m.exportDir, logview.ExportName(m.session, m.now()))
}
