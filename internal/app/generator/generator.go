//go:generate mockgen -source=generator.go -destination=generator_mock.go -package=generator
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"go.yaml.in/yaml/v3"

	"porter/internal/app/errors"
	"porter/internal/config"
	"porter/internal/config/logger"
)

const templatePath = "templates/porter.yaml.tmpl"

//go:embed templates/porter.yaml.tmpl
var templateFS embed.FS

// Options contains the values written into a generated porter.yaml
type Options struct {
	LogLevel       string
	LogFormat      string
	APIURL         string
	APITimeout     string
	Kind           string
	Lines          int
	TimeFormat     string
	ReleaseTimeout string
	ExportDir      string
}

// DefaultOptions returns options mirroring the built-in defaults
func DefaultOptions() Options {
	cfg := config.DefaultConfig()

	return Options{
		LogLevel:       cfg.Logging.Level,
		LogFormat:      cfg.Logging.Format,
		APIURL:         cfg.API.URL,
		APITimeout:     cfg.API.Timeout.String(),
		Kind:           cfg.Stream.Kind,
		Lines:          cfg.Stream.Lines,
		TimeFormat:     cfg.Stream.TimeFormat,
		ReleaseTimeout: cfg.Stream.ReleaseTimeout.String(),
		ExportDir:      cfg.Stream.ExportDir,
	}
}

// Generator defines the interface for generating porter.yaml
type Generator interface {
	Generate(opts Options, force bool, dryRun bool) error
}

type generator struct {
	dir string
	out io.Writer
	log logger.Logger
}

// NewGenerator creates a generator writing into the working directory
func NewGenerator(log logger.Logger) Generator {
	return &generator{
		dir: ".",
		out: os.Stdout,
		log: log,
	}
}

// Generate renders porter.yaml, checks it loads as a valid config, then writes or prints it
func (g *generator) Generate(opts Options, force bool, dryRun bool) error {
	path := filepath.Join(g.dir, config.ConfigFile)

	if !dryRun && !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", errors.ErrConfigExists, path)
		}
	}

	data, err := render(opts)
	if err != nil {
		return err
	}

	if dryRun {
		_, err := g.out.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteConfig, err)
	}

	g.log.Info().Msgf("Generated %s", path)

	return nil
}

func render(opts Options) ([]byte, error) {
	content, err := templateFS.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToRenderConfig, err)
	}

	tmpl, err := template.New(config.ConfigFile).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToRenderConfig, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToRenderConfig, err)
	}

	cfg := config.DefaultConfig()
	if err := yaml.Unmarshal(buf.Bytes(), cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToRenderConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return buf.Bytes(), nil
}
