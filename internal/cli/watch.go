package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/brickingsoft/errors"
	"github.com/fsnotify/fsnotify"
)

// watch re-stats files on every change until ctx is done. Parent directories are watched so
// that files replaced by rename are still followed.
func watch(ctx context.Context, p *printer, files []string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("watch failed", errors.WithMeta("pkg", "cli"), errors.WithWrap(err))
	}
	defer w.Close()

	targets := make(map[string]string, len(files))
	for _, name := range files {
		abs, absErr := filepath.Abs(name)
		if absErr != nil {
			return absErr
		}
		targets[abs] = name
		dir := filepath.Dir(abs)
		if addErr := w.Add(dir); addErr != nil {
			return errors.New("watch failed", errors.WithMeta("pkg", "cli"), errors.WithMeta("dir", dir), errors.WithWrap(addErr))
		}
	}
	logger.Debug("watching", "files", len(targets))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, tracked := targets[ev.Name]
			if !tracked || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) {
				continue
			}
			if statErr := statFile(ctx, p, name); statErr != nil {
				logger.Warn("stat failed", "file", name, "err", statErr)
			}
		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", watchErr)
		}
	}
}
