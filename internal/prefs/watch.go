package prefs

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the preferences file and calls onChange with the newly
// loaded Prefs each time it is written. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: editors and
// Save both replace the file atomically, which would drop a file-level watch.
func Watch(ctx context.Context, path string, onChange func(Prefs)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(resolved)); err != nil {
		return err
	}

	slog.Info("prefs: watching for changes", "path", resolved)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != resolved {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			slog.Info("prefs: reloaded", "path", resolved)
			onChange(Load(resolved))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("prefs: watcher error", "err", err)
		}
	}
}
