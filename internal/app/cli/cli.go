//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"

	"porter/internal/app/errors"
	"porter/internal/app/generator"
	"porter/internal/app/logview"
	"porter/internal/app/stream"
	"porter/internal/app/ui/logs"
	"porter/internal/app/watcher"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// CLI defines the interface for cli operations
type CLI interface {
	Execute() (int, error)
}

// Params contains dependencies for creating the CLI
type Params struct {
	fx.In

	Config     *config.Config
	Controller logview.Controller
	Formatter  *logview.Formatter
	UI         logs.UI
	Generator  generator.Generator
	Watcher    watcher.Watcher
	Logger     logger.Logger
}

// cli represents the command-line interface for the application
type cli struct {
	cfg       *config.Config
	ctrl      logview.Controller
	formatter *logview.Formatter
	ui        logs.UI
	generator generator.Generator
	watcher   watcher.Watcher
	log       logger.Logger
	args      []string
	out       io.Writer
	errOut    io.Writer
	signals   []os.Signal
}

// NewCLI creates a new cli instance reading the process arguments
func NewCLI(params Params) CLI {
	return &cli{
		cfg:       params.Config,
		ctrl:      params.Controller,
		formatter: params.Formatter,
		ui:        params.UI,
		generator: params.Generator,
		watcher:   params.Watcher,
		log:       params.Logger.WithComponent("CLI"),
		args:      os.Args[1:],
		out:       os.Stdout,
		errOut:    os.Stderr,
		signals:   []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// Execute runs the command selected by the arguments and returns the process exit code
func (c *cli) Execute() (int, error) {
	opts, err := Parse(c.args)
	if err != nil {
		c.printError(err)
		return 1, err
	}

	switch opts.Type {
	case CommandVersion:
		fmt.Fprintln(c.out, renderVersion())
		return 0, nil
	case CommandInit:
		if err := c.generator.Generate(generator.DefaultOptions(), opts.Force, opts.DryRun); err != nil {
			c.printError(err)
			return 1, err
		}

		if !opts.DryRun {
			fmt.Fprintln(c.out, "Generated "+config.ConfigFile)
		}

		return 0, nil
	case CommandLogs:
		if err := c.handleLogs(opts); err != nil {
			c.printError(err)
			return 1, err
		}

		return 0, nil
	default:
		fmt.Fprint(c.out, renderHelp())
		return 0, nil
	}
}

func (c *cli) handleLogs(opts *Options) error {
	session, err := opts.Session(c.cfg)
	if err != nil {
		return err
	}

	if opts.Highlight != "" {
		if err := c.formatter.SetHighlight(opts.Highlight); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), c.signals...)
	defer stop()

	if opts.Highlight == "" {
		watchCtx, stopWatch := context.WithCancel(ctx)

		watchDone, err := c.watcher.Watch(watchCtx, c.applyReload)
		if err != nil {
			stopWatch()
			c.log.Warn().Err(err).Msg("Config changes will not be picked up")
		} else {
			defer func() {
				stopWatch()
				<-watchDone
			}()
		}
	}

	c.log.Debug().Str("machine", session.MachineID).Str("kind", string(session.Kind)).Bool("noUI", opts.NoUI).Msg("Streaming logs")

	if opts.NoUI {
		err = c.runHeadless(ctx, session)
	} else {
		err = c.runInteractive(ctx, session)
	}

	if opts.Export != "" {
		if exportErr := logview.ExportFile(c.ctrl, opts.Export); exportErr != nil {
			c.log.Error().Err(exportErr).Str("path", opts.Export).Msg("Export failed")

			if err == nil {
				err = exportErr
			}
		} else {
			c.log.Info().Str("path", opts.Export).Msg("Exported buffer")
		}
	}

	return err
}

// applyReload takes the highlight pattern from a reloaded config; other settings apply to the next run
func (c *cli) applyReload(cfg *config.Config) {
	if err := c.formatter.SetHighlight(cfg.Stream.Highlight); err != nil {
		c.log.Warn().Err(err).Msg("Keeping previous highlight pattern")
		return
	}

	c.log.Debug().Str("highlight", cfg.Stream.Highlight).Msg("Highlight pattern reloaded")
}

// runInteractive hosts the controller in the Bubble Tea viewer
func (c *cli) runInteractive(ctx context.Context, session stream.Config) error {
	p := c.ui(ctx, session)

	_, err := p.Run()

	<-c.ctrl.Teardown()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", errors.ErrFailedToRunInteractive, err)
	}

	return nil
}

func (c *cli) printError(err error) {
	fmt.Fprintln(c.errOut, renderError(err))
}
