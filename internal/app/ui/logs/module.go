package logs

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"

	"porter/internal/app/logview"
	"porter/internal/app/stream"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// UI creates a Bubble Tea program streaming session
type UI func(ctx context.Context, session stream.Config) *tea.Program

// Module provides the log viewer UI factory
var Module = fx.Options(
	fx.Provide(
		NewSender,
		NewUI,
	),
)

// UIParams contains dependencies for creating the UI factory
type UIParams struct {
	fx.In

	Config     *config.Config
	Controller logview.Controller
	Formatter  *logview.Formatter
	Sender     *Sender
	Logger     logger.Logger
}

// NewUI creates a factory function for constructing Bubble Tea programs
func NewUI(params UIParams) UI {
	return func(ctx context.Context, session stream.Config) *tea.Program {
		model := NewModel(ctx, params.Config, session, params.Controller, params.Formatter, params.Sender, params.Logger)

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		params.Sender.Set(p.Send)
		params.Controller.SetListener(params.Sender)

		params.Logger.Debug().Msg("TUI: Program created via factory")

		return p
	}
}
