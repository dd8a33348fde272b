// Package watch reports changes to the selected submission file on disk.
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

// EventType classifies a change to the tracked file.
type EventType string

const (
	EventChanged EventType = "changed"
	EventRemoved EventType = "removed"
)

// Event is a debounced change to the tracked file.
type Event struct {
	Path string
	Type EventType
	Time time.Time
}

// DefaultDebounce coalesces the bursts of writes editors and copy tools emit.
const DefaultDebounce = 250 * time.Millisecond

// Watcher tracks a single file. It watches the parent directory so that
// atomic replace-by-rename saves are seen as changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	mu   sync.Mutex
	path string
	dir  string
}

// New creates a watcher with nothing tracked.
func New(debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		watcher:  fsw,
		debounce: debounce,
		log:      log.With("component", "watch"),
	}, nil
}

// Track switches the watcher to path. Events for the previously tracked file
// stop being reported.
func (w *Watcher) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if abs == w.path {
		return nil
	}
	if dir != w.dir {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
		if w.dir != "" {
			_ = w.watcher.Remove(w.dir)
		}
		w.dir = dir
	}
	w.path = abs
	w.log.Debug("tracking file", "path", abs)
	return nil
}

// Tracked returns the absolute path currently tracked, or "".
func (w *Watcher) Tracked() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Watch starts watching and returns a channel of debounced events.
// Cancelling the context stops watching and closes the channel.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	out := make(chan Event, 8)

	go func() {
		defer close(out)

		var (
			pending *Event
			timer   = time.NewTimer(0)
		)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				tracked := w.Tracked()
				if tracked == "" || filepath.Clean(ev.Name) != tracked {
					continue
				}
				pending = &Event{Path: tracked, Type: classify(ev), Time: time.Now()}
				timer.Reset(w.debounce)

			case <-timer.C:
				if pending == nil {
					continue
				}
				w.log.Info("file changed", "path", pending.Path, "type", pending.Type)
				select {
				case out <- *pending:
				case <-ctx.Done():
					return
				}
				pending = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "error", err)
			}
		}
	}()

	return out
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// classify maps an fsnotify event to an EventType. A rename or remove
// followed by a create within the debounce window ends up as changed, since
// only the last event is kept.
func classify(ev fsnotify.Event) EventType {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		return EventRemoved
	}
	return EventChanged
}
