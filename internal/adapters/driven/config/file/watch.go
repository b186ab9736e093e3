package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notesmith/internal/logger"
)

// Watch reloads the configuration whenever the config file changes on disk.
// The directory is watched rather than the file, since editors commonly
// replace files by renaming a new copy over them.
//
// The returned channel receives the result of every reload (nil on success)
// and is closed once ctx is done. Receivers that fall behind miss results;
// reloads still happen.
func (s *ConfigStore) Watch(ctx context.Context) (<-chan error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(s.filePath), err)
	}

	reloads := make(chan error, 1)
	go func() {
		defer close(reloads)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldReload(event) {
					continue
				}
				logger.Debug("config: %s changed (%s), reloading", event.Name, event.Op)
				err := s.Load()
				if err != nil {
					logger.Warn("config: reload failed: %v", err)
				}
				select {
				case reloads <- err:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config: watcher error: %v", err)
			}
		}
	}()

	return reloads, nil
}

// shouldReload reports whether event affects the config file contents.
func (s *ConfigStore) shouldReload(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
