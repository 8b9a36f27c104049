// Package watch reloads campus data when its file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher calls a function after a file has been written. A burst of
// events inside one debounce interval produces a single call, and calls never
// overlap.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	done chan struct{}
}

// NewFileWatcher creates a watcher for path. Nothing is watched until Start.
func NewFileWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FileWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  fsw,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The file's directory is watched rather than the file
// itself so that editors which replace the file on save keep triggering.
// A failed Start releases the watcher; Stop is then a no-op.
func (w *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher and waits for an in-progress callback to return.
func (w *FileWatcher) Stop() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

// processEvents handles fsnotify events with debouncing.
func (w *FileWatcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *FileWatcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Data file change detected", "path", w.path, "op", event.Op.String())
}

func (w *FileWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	fire := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if fire {
		w.onChange(ctx)
	}
}
