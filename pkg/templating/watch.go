package templating

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch refreshes the template set whenever a page or partial under the
// template directory is created, written, renamed or removed. Bursts of events
// are coalesced using TemplateConfig.ReloadDebounceMs.
//
// The template directory is created if it does not exist yet. Watch blocks
// until ctx is cancelled and then returns nil. It returns an error only if the
// watcher cannot be set up. A failed refresh is logged and
// the previous template set stays active.
func (tm *TemplateManager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer func(watcher *fsnotify.Watcher) {
		_ = watcher.Close()
	}(watcher)

	root := tm.GetTemplateDir()
	// A missing directory is an empty set for the manager, so create it
	// here to catch templates added to it later.
	if err = os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create template directory %s: %w", root, err)
	}
	if err = addRecursive(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	debounce := time.Duration(tm.GetConfig().ReloadDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	tm.logger.Info("Watching templates for changes", "dir", root)
	for {
		select {
		case <-ctx.Done():
			tm.logger.Info("Template watcher stopped", "dir", root)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New subdirectories have to be watched explicitly.
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						tm.logger.Warn("Failed to watch new template directory", "dir", event.Name, "error", err)
					}
					timer.Reset(debounce)
					continue
				}
			}
			if !isTemplateFile(event.Name) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			tm.logger.Debug("Template change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			if err := tm.Refresh(); err != nil {
				tm.logger.Error("Hot reload failed, keeping previous templates", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tm.logger.Warn("Template watcher error", "error", err)
		}
	}
}

// addRecursive adds dir and every directory below it to watcher.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
