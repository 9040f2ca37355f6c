package watchfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Programie/ScreenshotManager/internal/watchfs"
)

// startTree runs WatchTree on root and returns its event channel.
func startTree(t *testing.T, root string) <-chan watchfs.Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	events, err := watchfs.WatchTree(ctx, root)
	if err != nil {
		t.Fatalf("WatchTree: %v", err)
	}
	return events
}

// startFile runs WatchFile on target and returns its event channel.
func startFile(t *testing.T, target string) <-chan watchfs.Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	events, err := watchfs.WatchFile(ctx, target)
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	return events
}

// waitFor drains events until pred is satisfied or a deadline passes,
// returning everything seen so far.
func waitFor(t *testing.T, events <-chan watchfs.Event, pred func([]watchfs.Event) bool) []watchfs.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	var seen []watchfs.Event
	for {
		if pred(seen) {
			return seen
		}
		select {
		case ev := <-events:
			seen = append(seen, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, saw %v", seen)
		}
	}
}

func hasEvent(seen []watchfs.Event, op watchfs.Op, path string) bool {
	for _, ev := range seen {
		if ev.Op == op && ev.Path == path {
			return true
		}
	}
	return false
}

func TestWatchTreeReportsFileLifecycle(t *testing.T) {
	root := t.TempDir()
	events := startTree(t, root)

	path := filepath.Join(root, "shot.png")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Created, path)
	})

	if err := os.WriteFile(path, []byte("v2 longer"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Modified, path)
	})

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Deleted, path)
	})
}

func TestWatchTreePicksUpNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	events := startTree(t, root)

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	// The watch on a new directory is added when its create event is
	// handled; give that a moment before writing into it.
	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(sub, "nested.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	seen := waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Created, path)
	})

	// The directory itself must not appear as an event.
	for _, ev := range seen {
		if ev.Path == sub {
			t.Errorf("directory %q produced event %v", sub, ev.Op)
		}
	}
}

func TestWatchTreeRenameIsDeleteThenCreate(t *testing.T) {
	root := t.TempDir()

	oldPath := filepath.Join(root, "old.png")
	if err := os.WriteFile(oldPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	events := startTree(t, root)

	newPath := filepath.Join(root, "new.png")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Deleted, oldPath) && hasEvent(seen, watchfs.Created, newPath)
	})
}

func TestWatchTreeMissingRoot(t *testing.T) {
	_, err := watchfs.WatchTree(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing root, got nil")
	}
}

func TestWatchTreeChannelClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events, err := watchfs.WatchTree(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("WatchTree: %v", err)
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "list.txt")
	sibling := filepath.Join(dir, "other.txt")

	events := startFile(t, target)

	if err := os.WriteFile(sibling, []byte("noise"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(target, []byte("a.png\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	seen := waitFor(t, events, func(seen []watchfs.Event) bool {
		return len(seen) > 0
	})
	for _, ev := range seen {
		if ev.Path != target {
			t.Errorf("event for sibling path %q leaked through", ev.Path)
		}
	}
}

func TestWatchFileReportsDeletion(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(target, []byte("a.png\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	events := startFile(t, target)

	if err := os.Remove(target); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	waitFor(t, events, func(seen []watchfs.Event) bool {
		return hasEvent(seen, watchfs.Deleted, target)
	})
}
