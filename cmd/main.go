package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"porter/internal/app"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// main is the entry point for the application
func main() {
	os.Exit(runApp(os.Args[1:]))
}

// runApp loads config, runs the fx graph and returns the exit code requested by the app
func runApp(args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	noUI := hasNoUIFlag(args)

	log, closer, err := createLogger(cfg, noUI)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	application := createApp(cfg, log, noUI)

	startCtx, cancel := context.WithTimeout(context.Background(), application.StartTimeout())
	defer cancel()

	if err := application.Start(startCtx); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return 1
	}

	signal := <-application.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), application.StopTimeout())
	defer stopCancel()

	if err := application.Stop(stopCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to stop application cleanly")
	}

	return signal.ExitCode
}

// hasNoUIFlag checks if --no-ui flag is present in args
func hasNoUIFlag(args []string) bool {
	return slices.Contains(args, "--no-ui")
}

// loadConfig wraps config.Load for easier testing
func loadConfig() (*config.Config, error) {
	return config.Load()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createLogger keeps the terminal clean while the viewer owns it; logs then go to logging.file or nowhere
func createLogger(cfg *config.Config, noUI bool) (logger.Logger, io.Closer, error) {
	if noUI {
		return logger.NewLogger(cfg), nopCloser{}, nil
	}

	if cfg.Logging.File != "" {
		return logger.NewFileLogger(cfg, cfg.Logging.File)
	}

	return logger.NewLoggerWithOutput(cfg, io.Discard), nopCloser{}, nil
}

// createApp creates the FX application with the given config
func createApp(cfg *config.Config, log logger.Logger, noUI bool) *fx.App {
	return fx.New(
		fx.WithLogger(createFxLogger(cfg, noUI)),
		fx.Supply(cfg),
		fx.Provide(func() logger.Logger { return log }),
		app.Module,
	)
}

// createFxLogger returns an FX logger based on the config
func createFxLogger(cfg *config.Config, noUI bool) func() fxevent.Logger {
	return func() fxevent.Logger {
		if noUI && cfg.Logging.Level == logger.DebugLevel {
			return &fxevent.ConsoleLogger{W: os.Stderr}
		}

		return fxevent.NopLogger
	}
}
