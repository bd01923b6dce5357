package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 250 * time.Millisecond

// Watcher reloads a catalog file into a Source whenever it changes on disk.
// A file that fails to parse leaves the previous catalog in place.
type Watcher struct {
	path      string
	source    *Source
	debouncer *Debouncer
	onReload  func(*Catalog, error)
}

// NewWatcher creates a watcher for path. onReload, if non-nil, is called
// after every reload attempt with the new catalog or the error.
func NewWatcher(path string, source *Source, onReload func(*Catalog, error)) *Watcher {
	if onReload == nil {
		onReload = func(*Catalog, error) {}
	}
	return &Watcher{
		path:      filepath.Clean(path),
		source:    source,
		debouncer: NewDebouncer(reloadDelay),
		onReload:  onReload,
	}
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file so that atomic saves (write to temp, rename over) are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()
	defer w.debouncer.Stop()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	slog.Info("Watching catalog", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Catalog changed", "path", event.Name, "op", event.Op.String())
			w.debouncer.Trigger(w.reload)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	c, err := LoadFile(w.path)
	if err != nil {
		slog.Warn("Catalog reload failed, keeping previous catalog", "path", w.path, "error", err)
		w.onReload(nil, err)
		return
	}
	w.source.Replace(c)
	slog.Info("Catalog reloaded", "path", w.path, "products", len(c.Products))
	w.onReload(c, nil)
}
