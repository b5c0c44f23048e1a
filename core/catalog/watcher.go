package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// Catalog Watcher
// =============================================================================
//
// The watcher monitors the skills directory and reloads the catalog when
// skill files change. Reloads swap the catalog contents atomically; snapshots
// handed out before the reload keep the old view.

// DefaultDebounce is the interval changes are coalesced over before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog from disk on file changes.
type Watcher struct {
	catalog *Catalog
	cfg     LoaderConfig
	logger  *slog.Logger

	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatcher creates a watcher for the loader's skills directory.
func NewWatcher(catalog *Catalog, cfg LoaderConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
		debounce: DefaultDebounce,
		fsw:      fsw,
	}, nil
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.scheduleReload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !isSkillFile(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	skills, err := LoadDir(w.cfg)
	if err != nil {
		w.logger.Error("catalog reload failed", "error", err)
		return
	}
	if err := w.catalog.Replace(skills); err != nil {
		w.logger.Error("catalog replace failed", "error", err)
		return
	}
	w.logger.Info("catalog reloaded", "skills", len(skills))
}
