package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned when Run is called twice on one Watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// ReindexFunc is called after every debounced reindex.
type ReindexFunc func(count int, err error)

// Watcher reindexes the dataset whenever the file is written or replaced.
type Watcher struct {
	path     string
	index    driving.IndexService
	debounce time.Duration
	onIndex  ReindexFunc

	mu      sync.Mutex
	running bool
}

// New creates a watcher for the dataset at path.
func New(path string, index driving.IndexService) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		index:    index,
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the settle delay.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// OnReindex registers a callback for reindex results.
func (w *Watcher) OnReindex(fn ReindexFunc) *Watcher {
	w.onIndex = fn
	return w
}

// Path returns the watched dataset path.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled. The parent directory is watched so
// editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("watching %s", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("dataset event %s on %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("dataset watcher: %v", err)

		case <-timer.C:
			w.reindex(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reindex(ctx context.Context) {
	n, err := w.index.IndexBooks(ctx)
	if err != nil {
		logger.Warn("reindex %s: %v", w.path, err)
	} else {
		logger.Info("reindexed %d books from %s", n, w.path)
	}
	if w.onIndex != nil {
		w.onIndex(n, err)
	}
}
