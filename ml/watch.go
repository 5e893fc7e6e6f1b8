package ml

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchArtifact reports changes to the artifact file at path until ctx is done.
// The loaded model is never swapped; onChange is only a notification hook and
// may be nil. The parent directory is watched so editor renames are seen too.
func WatchArtifact(ctx context.Context, path string, logger *zap.Logger, onChange func(fsnotify.Event)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Warn("model artifact changed on disk, restart to apply",
					zap.String("path", target),
					zap.String("op", event.Op.String()))
				if onChange != nil {
					onChange(event)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("artifact watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
