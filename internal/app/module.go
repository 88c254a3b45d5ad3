package app

import (
	"go.uber.org/fx"

	"porter/internal/app/cli"
	"porter/internal/app/generator"
	"porter/internal/app/logview"
	"porter/internal/app/stream"
	"porter/internal/app/ui/logs"
	"porter/internal/app/watcher"
)

// Module wires the transport, controller, viewer and command line into one graph
var Module = fx.Options(
	stream.Module,
	logview.Module,
	logs.Module,
	generator.Module,
	watcher.Module,
	cli.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
