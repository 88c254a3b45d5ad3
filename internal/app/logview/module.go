package logview

import "go.uber.org/fx"

// Module provides the log stream controller and its plain-output formatter
var Module = fx.Options(
	fx.Provide(
		NewController,
		NewFormatter,
	),
)
