package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrFailedToLoadEnv     = errors.New("failed to load env file")
	ErrInvalidConfig       = errors.New("invalid configuration")

	ErrAPIURLRequired         = errors.New("api url is required")
	ErrInvalidAPIURL          = errors.New("invalid api url")
	ErrInvalidStreamLines     = errors.New("stream lines must be greater than zero")
	ErrInvalidTimeout         = errors.New("timeout must not be negative")
	ErrInvalidReleaseTimeout  = errors.New("release timeout must be greater than zero")
	ErrInvalidTimeFormat      = errors.New("time format must not be empty")
	ErrInvalidHighlight       = errors.New("invalid highlight pattern")
	ErrUnknownCommand         = errors.New("unknown command")
	ErrFailedToWriteExport    = errors.New("failed to write export")
	ErrFailedToCreateExport   = errors.New("failed to create export file")
	ErrFailedToRunInteractive = errors.New("failed to run interactive viewer")
	ErrConfigExists           = errors.New("config file already exists, use --force to overwrite")
	ErrFailedToRenderConfig   = errors.New("failed to render config template")
	ErrFailedToWriteConfig    = errors.New("failed to write config file")
	ErrFailedToWatchConfig    = errors.New("failed to watch config file")

	ErrMachineRequired   = errors.New("machine id is required")
	ErrInvalidSourceKind = errors.New("invalid log source kind")
	ErrTargetRequired    = errors.New("log source requires a target")

	ErrFailedToCreateRequest = errors.New("failed to create request")
	ErrFailedToConnect       = errors.New("failed to connect to log stream")
	ErrUnexpectedStatus      = errors.New("unexpected response status")
	ErrFailedToReadStream    = errors.New("failed to read log stream")
	ErrMalformedFrame        = errors.New("malformed frame")
	ErrUnknownFrame          = errors.New("unknown frame type")
	ErrFailedToRelease       = errors.New("failed to release log stream")
	ErrStreamFailed          = errors.New("log stream failed")
)

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
