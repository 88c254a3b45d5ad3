package config

import "time"

// app constants
const (
	AppName        = "porter"
	AppDescription = "Live log streaming client for Porter managed machines"
	Version        = "0.4.0"

	ConfigFile = "porter.yaml"
	EnvFile    = ".env"
	EnvPrefix  = "PORTER"
)

// logging constants
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// api constants
const (
	DefaultAPIURL     = "http://localhost:8080"
	DefaultAPITimeout = 10 * time.Second
)

// stream constants
const (
	DefaultStreamKind     = "journal"
	DefaultStreamLines    = 50
	DefaultTimeFormat     = "2006-01-02T15:04:05.000Z07:00"
	DefaultReleaseTimeout = 2 * time.Second
	DefaultExportDir      = "."
)

// ReloadDebounce is how long config file events settle before the file is reloaded
const ReloadDebounce = 250 * time.Millisecond
