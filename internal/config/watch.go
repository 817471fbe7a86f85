package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// Watch calls onChange with the freshly loaded config each time the file at
// path is written, created or renamed into place. The parent directory is
// watched so editors that save by rename are seen. Files that fail to load
// or validate are logged and skipped. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}

	reload := func() {
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("config reload failed", "path", path, "err", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			logger.Warn("config reload rejected", "path", path, "err", err)
			return
		}
		logger.Debug("config reloaded", "path", path)
		onChange(cfg)
	}

	debounced := debounce.New(reloadDelay)
	// drop a pending reload on return
	defer debounced(func() {})

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounced(reload)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "err", err)
		}
	}
}
