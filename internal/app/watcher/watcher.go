//go:generate mockgen -source=watcher.go -destination=watcher_mock.go -package=watcher
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"porter/internal/app/errors"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// Reloader receives every configuration that loaded and validated after a file change
type Reloader func(cfg *config.Config)

// Watcher reloads porter.yaml when it changes on disk
type Watcher interface {
	// Watch returns a channel closed once watching has ended after ctx is done and no reload is running
	Watch(ctx context.Context, reload Reloader) (<-chan struct{}, error)
}

type watcher struct {
	path    string
	envPath string
	delay   time.Duration
	load    func(path, envPath string) (*config.Config, error)
	log     logger.Logger
}

// NewWatcher creates a Watcher for the config file in the working directory
func NewWatcher(log logger.Logger) Watcher {
	return &watcher{
		path:    config.ConfigFile,
		envPath: config.EnvFile,
		delay:   config.ReloadDebounce,
		load:    config.LoadFile,
		log:     log.WithComponent("WATCHER"),
	}
}

// Watch starts watching until ctx is done. The parent directory is watched so editors that replace the file are seen.
func (w *watcher) Watch(ctx context.Context, reload Reloader) (<-chan struct{}, error) {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToWatchConfig, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToWatchConfig, err)
	}

	if err := fsw.Add(filepath.Dir(target)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToWatchConfig, err)
	}

	timer := newReloadTimer(w.delay, func(path string) {
		w.reload(path, reload)
	})

	w.log.Debug().Str("path", target).Msg("Watching config file")

	done := make(chan struct{})

	go func() {
		defer close(done)
		w.run(ctx, fsw, timer, target)
	}()

	return done, nil
}

func (w *watcher) run(ctx context.Context, fsw *fsnotify.Watcher, timer *reloadTimer, target string) {
	defer fsw.Close()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			if isRelevantEvent(event) && filepath.Clean(event.Name) == target {
				timer.Reset(target)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}

			w.log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

func (w *watcher) reload(path string, reload Reloader) {
	cfg, err := w.load(path, w.envPath)
	if err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("Ignoring config change")
		return
	}

	w.log.Info().Str("path", path).Msg("Config reloaded")

	reload(cfg)
}

// isRelevantEvent reports events that can change the file content; removal is left to the next write
func isRelevantEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
