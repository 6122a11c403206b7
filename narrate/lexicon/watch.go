package lexicon

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the store's snapshot whenever the file-backed lexicon
// source changes on disk, so the next Get picks up the edit without
// waiting for the TTL. It blocks until the context is canceled. Only
// meaningful for file sources; URL sources rely on the TTL alone.
func Watch(ctx context.Context, store *Store, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("lexicon watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	// Watch the directory rather than the file so editors that replace the
	// file (rename + create) keep being observed.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("lexicon watcher: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("lexicon source changed", "path", path, "op", event.Op)
			store.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("lexicon watcher error", "error", err)
		}
	}
}
