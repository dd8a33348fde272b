package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(30*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatchReportsWritesToTrackedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	other := filepath.Join(dir, "other.pdf")
	os.WriteFile(path, []byte("%PDF-1.4"), 0644)

	w := newTestWatcher(t)
	if err := w.Track(path); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Watch(ctx)

	// Untracked siblings are ignored; a burst on the tracked file coalesces.
	os.WriteFile(other, []byte("x"), 0644)
	for i := 0; i < 5; i++ {
		os.WriteFile(path, []byte("%PDF-1.4 rev"), 0644)
	}

	ev := waitEvent(t, events)
	if ev.Path != path || ev.Type != EventChanged {
		t.Errorf("event = %+v", ev)
	}
	select {
	case extra := <-events:
		t.Errorf("unexpected extra event %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatchReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	os.WriteFile(path, []byte("%PDF-1.4"), 0644)

	w := newTestWatcher(t)
	w.Track(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Watch(ctx)

	os.Remove(path)
	if ev := waitEvent(t, events); ev.Type != EventRemoved {
		t.Errorf("Type = %v, want removed", ev.Type)
	}
}

func TestTrackSwitchesFiles(t *testing.T) {
	first := filepath.Join(t.TempDir(), "a.pdf")
	second := filepath.Join(t.TempDir(), "b.pdf")
	os.WriteFile(first, []byte("a"), 0644)
	os.WriteFile(second, []byte("b"), 0644)

	w := newTestWatcher(t)
	w.Track(first)
	if err := w.Track(second); err != nil {
		t.Fatal(err)
	}
	if w.Tracked() != second {
		t.Fatalf("Tracked() = %q", w.Tracked())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Watch(ctx)

	os.WriteFile(first, []byte("a2"), 0644)
	os.WriteFile(second, []byte("b2"), 0644)
	if ev := waitEvent(t, events); ev.Path != second {
		t.Errorf("event for %q, want %q", ev.Path, second)
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	events := w.Watch(ctx)
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Error("received event after cancel")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after cancel")
	}
}

func TestTrackMissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Track(filepath.Join(t.TempDir(), "nope", "p.pdf")); err == nil {
		t.Error("Track() in a missing directory succeeded")
	}
}
