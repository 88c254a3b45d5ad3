package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"porter/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	API     APIConfig     `yaml:"api"`
	Stream  StreamConfig  `yaml:"stream"`
	Version int           `yaml:"version"`
}

// LoggingConfig controls the application logger
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// APIConfig describes how to reach the backend
type APIConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// StreamConfig holds defaults for log streaming sessions
type StreamConfig struct {
	Kind           string        `yaml:"kind"`
	Lines          int           `yaml:"lines"`
	Highlight      string        `yaml:"highlight"`
	TimeFormat     string        `yaml:"time_format" mapstructure:"time_format"`
	ReleaseTimeout time.Duration `yaml:"release_timeout" mapstructure:"release_timeout"`
	ExportDir      string        `yaml:"export_dir" mapstructure:"export_dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}

	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat

	cfg.API.URL = DefaultAPIURL
	cfg.API.Timeout = DefaultAPITimeout

	cfg.Stream.Kind = DefaultStreamKind
	cfg.Stream.Lines = DefaultStreamLines
	cfg.Stream.TimeFormat = DefaultTimeFormat
	cfg.Stream.ReleaseTimeout = DefaultReleaseTimeout
	cfg.Stream.ExportDir = DefaultExportDir

	return cfg
}

// Load loads the configuration from porter.yaml and .env in the working directory
func Load() (*Config, error) {
	return LoadFile(ConfigFile, EnvFile)
}

// LoadFile loads the configuration from the given yaml and env files, both optional
func LoadFile(path, envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToLoadEnv, err)
	}

	cfg := DefaultConfig()
	v := newViper(cfg)

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, errors.ErrFailedToParseConfig
		}
	case !os.IsNotExist(err):
		return nil, errors.ErrFailedToReadConfig
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ErrFailedToParseConfig
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// newViper registers every key with its default so PORTER_* variables can override it
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("version", cfg.Version)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("api.url", cfg.API.URL)
	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("stream.kind", cfg.Stream.Kind)
	v.SetDefault("stream.lines", cfg.Stream.Lines)
	v.SetDefault("stream.highlight", cfg.Stream.Highlight)
	v.SetDefault("stream.time_format", cfg.Stream.TimeFormat)
	v.SetDefault("stream.release_timeout", cfg.Stream.ReleaseTimeout)
	v.SetDefault("stream.export_dir", cfg.Stream.ExportDir)

	return v
}

// normalize trims user supplied values
func (c *Config) normalize() {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	c.API.Token = strings.TrimSpace(c.API.Token)
	c.Stream.Kind = strings.ToLower(strings.TrimSpace(c.Stream.Kind))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateStream()
}

// validateAPI validates backend settings
func (c *Config) validateAPI() error {
	if c.API.URL == "" {
		return errors.ErrAPIURLRequired
	}

	u, err := url.Parse(c.API.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: '%s'", errors.ErrInvalidAPIURL, c.API.URL)
	}

	if c.API.Timeout < 0 {
		return errors.ErrInvalidTimeout
	}

	return nil
}

// validateStream validates streaming defaults
func (c *Config) validateStream() error {
	if c.Stream.Lines <= 0 {
		return errors.ErrInvalidStreamLines
	}

	if c.Stream.ReleaseTimeout <= 0 {
		return errors.ErrInvalidReleaseTimeout
	}

	if c.Stream.TimeFormat == "" {
		return errors.ErrInvalidTimeFormat
	}

	return nil
}
