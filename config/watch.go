package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the reparsed definition each time the file at path
// changes and still validates. Invalid edits are logged and skipped. Bursts
// of events are coalesced (WithDebounce, 200ms by default). The parent
// directory is watched so that editors replacing the file are seen.
//
// Watch blocks until ctx is done and then returns nil.
func Watch(ctx context.Context, path string, fn func(*Definition), opts ...Option) error {
	o := newOptions(opts)
	logger := o.logger.With().Str("component", "config-watch").Str("path", path).Logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(o.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(o.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			def, err := Load(abs)
			if err != nil {
				logger.Warn().Err(err).Msg("Ignoring invalid definition")
				continue
			}
			logger.Info().Str("id", def.ID).Str("fingerprint", Fingerprint(def)).Msg("Definition reloaded")
			fn(def)
		}
	}
}
