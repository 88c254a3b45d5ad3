package logs

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"porter/internal/app/logview"
	"porter/internal/app/stream"
	"porter/internal/app/ui/components"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// timestampLayout is the short receipt time shown in front of each row
const timestampLayout = "15:04:05"

type (
	tickMsg         time.Time
	teardownDoneMsg struct{}
	startedMsg      struct{ err error }
	exportedMsg     struct {
		path string
		err  error
	}
)

// Model is the interactive log viewer hosting one controller session
type Model struct {
	ctx       context.Context
	ctrl      logview.Controller
	formatter *logview.Formatter
	sender    *Sender
	log       logger.Logger
	session   stream.Config
	exportDir string
	now       func() time.Time

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	pulse    *components.Pulse

	snapshot   logview.View
	rendered   []string
	lastLine   logview.Line
	revision   uint64
	autoscroll bool
	width      int
	height     int
	message    string
	quitting   bool
}

// NewModel creates the viewer for session; the stream starts when the program starts
func NewModel(ctx context.Context, cfg *config.Config, session stream.Config, ctrl logview.Controller, formatter *logview.Formatter, sender *Sender, log logger.Logger) Model {
	var revision uint64
	if formatter != nil {
		revision = formatter.Revision()
	}

	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		formatter:  formatter,
		sender:     sender,
		log:        log,
		session:    session,
		exportDir:  cfg.Stream.ExportDir,
		now:        time.Now,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(components.DefaultViewportWidth, 0),
		pulse:      components.NewPulse(),
		revision:   revision,
		autoscroll: true,
		width:      components.DefaultViewportWidth,
	}
}

// Init starts the session and the UI tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), tickCmd())
}

func (m Model) startCmd() tea.Cmd {
	ctx, ctrl, session := m.ctx, m.ctrl, m.session

	return func() tea.Msg {
		return startedMsg{err: ctrl.Start(ctx, session)}
	}
}

func (m Model) exportCmd() tea.Cmd {
	ctrl := m.ctrl
	path := m.exportPath()

	return func() tea.Msg {
		return exportedMsg{path: path, err: logview.ExportFile(ctrl, path)}
	}
}

func teardownCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return teardownDoneMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(components.UITickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
