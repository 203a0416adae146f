// Package watcher reports batches of changed files in a data directory,
// debounced so one editor save triggers one callback.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher watches a single directory. Files whose base name matches an
// ignore pattern never trigger a callback.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	ignore     []glob.Glob
	onChange   func([]string)
	callbackMu sync.Mutex
	closed     atomic.Bool

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New creates a watcher. onChange receives the sorted paths changed since
// the previous call; calls never overlap.
func New(debounce time.Duration, ignore []string, onChange func([]string)) (*Watcher, error) {
	w := &Watcher{
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}

	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		w.ignore = append(w.ignore, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsWatcher = fsw
	return w, nil
}

// Run watches dir until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	slog.Debug("watching", "dir", dir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			// editors often save by writing a temp file and renaming it over the original
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	if w.closed.Load() {
		return
	}
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	if w.closed.Load() {
		return
	}
	w.onChange(paths)
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.ignore {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Close stops the watcher. A pending batch is dropped, and a callback that
// is already running finishes before Close returns. No callback starts
// after that.
func (w *Watcher) Close() error {
	w.closed.Store(true)
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	// held until a running callback returns
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	return w.fsWatcher.Close()
}
