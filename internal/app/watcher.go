package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hypr-windowlist/pkg/core"
)

const reloadDebounce = 250 * time.Millisecond

// watchConfig signals changed whenever the file at path is written or
// replaced. Bursts of events are collapsed into one signal.
func watchConfig(ctx context.Context, path string, changed chan<- struct{}, log core.Logger) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer fsWatcher.Close()

	// Watch the directory: editors replace the file by renaming over it.
	path = filepath.Clean(path)
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}
	log.Debug("Watching configuration", "path", path)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Config watcher error", "error", err.Error())
		case <-timer.C:
			select {
			case changed <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
