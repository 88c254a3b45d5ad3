package logview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"porter/internal/app/errors"
	"porter/internal/app/stream"
)

// ExportName builds a file name for an export of the given session
func ExportName(cfg stream.Config, now time.Time) string {
	parts := []string{cfg.MachineID, string(cfg.Kind)}
	if cfg.Target != "" {
		parts = append(parts, cfg.Target)
	}

	name := strings.Join(parts, "-")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}

		return r
	}, name)

	return fmt.Sprintf("%s-%s.log", name, now.Format("20060102-150405"))
}

// ExportFile writes the visible buffer of c to path, creating parent directories
func ExportFile(c Controller, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrFailedToCreateExport, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToCreateExport, err)
	}

	if err := c.Export(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteExport, err)
	}

	return nil
}
