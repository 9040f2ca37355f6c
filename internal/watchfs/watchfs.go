// Package watchfs turns fsnotify notifications into a minimal stream of
// file events: a path was created, modified, or deleted. A rename arrives
// as a deletion of the old path; the create for the new name follows as an
// ordinary create event. Directories never produce events.
package watchfs

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Op identifies what happened to a path.
type Op uint8

const (
	Created Op = iota
	Modified
	Deleted
)

func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Event is a single change to a regular file.
type Event struct {
	Op   Op
	Path string
}

// WatchTree watches root and every directory below it, streaming an Event
// for each regular file that is created, written, or removed. Watches are
// registered before WatchTree returns, so nothing that happens afterwards
// is missed; directories created later are picked up and watched as well.
// The channel closes when ctx is cancelled. A root that cannot be watched
// is an immediate error.
func WatchTree(ctx context.Context, root string) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Walk the tree and add a watch for every subdirectory.
	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err // root missing or unreadable
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	}); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan Event, 64)
	go treeLoop(ctx, watcher, events)
	return events, nil
}

func treeLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- Event) {
	defer watcher.Close()
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			switch {
			case ev.Has(fsnotify.Create):
				info, err := os.Stat(ev.Name)
				if err != nil {
					continue // gone already; the Remove will follow
				}
				if info.IsDir() {
					_ = watcher.Add(ev.Name) // watch new subdirectories too
					continue
				}
				if !send(ctx, events, Event{Op: Created, Path: ev.Name}) {
					return
				}

			case ev.Has(fsnotify.Write):
				if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
					continue
				}
				if !send(ctx, events, Event{Op: Modified, Path: ev.Name}) {
					return
				}

			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				// The path is gone and cannot be stat-ed to tell files from
				// directories. Consumers drop deletions of unknown paths.
				if !send(ctx, events, Event{Op: Deleted, Path: ev.Name}) {
					return
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watchfs: %v", err) // non-fatal; keep watching
		}
	}
}

// WatchFile watches a single file by watching its parent directory, so the
// stream survives editors that replace the file via rename. Only events for
// exactly path are forwarded; the file itself may not exist yet. The watch
// is registered before WatchFile returns and the channel closes when ctx
// is cancelled.
func WatchFile(ctx context.Context, path string) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan Event, 64)
	go fileLoop(ctx, watcher, target, events)
	return events, nil
}

func fileLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, events chan<- Event) {
	defer watcher.Close()
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			var op Op
			switch {
			case ev.Has(fsnotify.Create):
				op = Created
			case ev.Has(fsnotify.Write):
				op = Modified
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				op = Deleted
			default:
				continue // chmod and friends
			}
			if !send(ctx, events, Event{Op: op, Path: target}) {
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watchfs: %v", err)
		}
	}
}

// send delivers ev unless ctx is cancelled first.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
