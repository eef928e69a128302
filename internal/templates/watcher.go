package templates

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-driven registry reload.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, file string)

// Watch starts an fsnotify watcher on the template directories and
// invalidates the registry whenever a CSV file changes, until ctx is
// cancelled. Events are debounced so an editor's save dance (write, rename,
// chmod) produces a single reload.
func Watch(ctx context.Context, reg *Registry, dirs []string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := w.Add(dir); err != nil {
			logger.Warn("watcher: cannot watch dir",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			continue
		}
		watched++
	}
	if watched == 0 {
		logger.Warn("watcher: no template directories to watch")
		<-ctx.Done()
		return nil
	}

	logger.Info("watcher: started", slog.Int("dirs", watched))

	var flushTimer *time.Timer
	var flushCh <-chan time.Time
	var pendingKind, pendingFile string

	schedule := func(kind, file string) {
		pendingKind, pendingFile = kind, file
		if flushTimer == nil {
			flushTimer = time.NewTimer(200 * time.Millisecond)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			reg.Invalidate()
			logger.Debug("watcher: templates reloaded",
				slog.String("file", pendingFile),
				slog.String("op", pendingKind))
			if cb != nil {
				cb(pendingKind, pendingFile)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".csv") {
				continue
			}
			name := filepath.Base(ev.Name)
			switch {
			case ev.Op&fsnotify.Create != 0:
				schedule("created", name)
			case ev.Op&fsnotify.Write != 0:
				schedule("updated", name)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				schedule("deleted", name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
