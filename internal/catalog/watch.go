package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"cmdconsole/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a catalog file when it changes.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *log.Logger
}

// NewWatcher watches the catalog at path. The parent directory is watched
// so that editors replacing the file by rename are noticed.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: abs, fs: fw, debounce: debounce, log: logger.NewStyledLogger("catalog")}, nil
}

// Run loads the catalog after each settled change and hands it to onLoad,
// until ctx is done. A catalog that fails to load is logged and skipped, so
// the previous one stays in effect. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onLoad func(*Catalog)) error {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			c, err := Load(w.path)
			if err != nil {
				w.log.Warn("Reload failed", "path", w.path, "error", err)
				continue
			}
			logger.CatalogEvent("reloaded", w.path, "commands", c.CommandCount())
			onLoad(c)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error", "path", w.path, "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
