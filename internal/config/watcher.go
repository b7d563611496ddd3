// ABOUTME: File watcher for config and keybinding hot-reload: fsnotify events plus an mtime poll
// ABOUTME: The poll covers directories created after start and platforms without fsnotify

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	pilog "github.com/mauromedda/richinput/internal/log"
)

// DefaultWatchInterval is how often Run polls when no interval is set.
const DefaultWatchInterval = 2 * time.Second

// Watcher monitors files for changes. Every notification is confirmed
// against the recorded mtimes, so onChange runs once per real change.
type Watcher struct {
	paths    []string
	onChange func()
	interval time.Duration

	mu     sync.Mutex
	mtimes map[string]time.Time
}

// NewWatcher creates a watcher that calls onChange when any monitored file
// appears, changes, or disappears.
func NewWatcher(paths []string, onChange func()) *Watcher {
	w := &Watcher{
		paths:    paths,
		onChange: onChange,
		interval: DefaultWatchInterval,
		mtimes:   make(map[string]time.Time),
	}
	w.snapshot()
	return w
}

// SetInterval overrides the polling interval. Call before Run.
func (w *Watcher) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Run watches until ctx is done and returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if fsw := w.notifier(); fsw != nil {
		defer fsw.Close()
		events, errs = fsw.Events, fsw.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if w.watches(ev.Name) {
				w.Check()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			pilog.Debug("config watcher: %v", err)
		}
	}
}

// notifier watches the directories holding the files. It returns nil when
// fsnotify is unavailable or none of the directories exist yet.
func (w *Watcher) notifier() *fsnotify.Watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		pilog.Debug("config watcher: fsnotify unavailable, polling only: %v", err)
		return nil
	}
	added := 0
	seen := make(map[string]bool)
	for _, path := range w.paths {
		dir := filepath.Dir(path)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fsw.Add(dir); err == nil {
			added++
		}
	}
	if added == 0 {
		fsw.Close()
		return nil
	}
	return fsw
}

func (w *Watcher) watches(name string) bool {
	for _, path := range w.paths {
		if filepath.Clean(name) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

// Check compares the files against the last snapshot and calls onChange
// synchronously when something changed. It reports whether it did.
func (w *Watcher) Check() bool {
	w.mu.Lock()
	changed := w.changedLocked()
	if changed {
		w.snapshotLocked()
	}
	w.mu.Unlock()

	if changed {
		w.onChange()
	}
	return changed
}

func (w *Watcher) snapshot() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshotLocked()
}

// changedLocked compares current mtimes with stored snapshots. Must hold mu.
func (w *Watcher) changedLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := w.mtimes[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			return true
		}
	}
	return false
}

// snapshotLocked records current mtimes. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
