package screenshot

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Collection is the ordered, deduplicated set of known screenshots.
// Entries are kept newest first at all times; every mutation that changes
// the contents wakes the change subscribers.
type Collection struct {
	mu      sync.RWMutex
	entries []Entry
	subs    []chan struct{}
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Upsert probes path and inserts or replaces its entry, keeping the
// collection ordered. A path that can no longer be probed is treated as
// absent: any existing entry for it is removed. Reports whether the path
// is present afterwards.
func (c *Collection) Upsert(path string) bool {
	e, err := NewEntry(path)
	if err != nil {
		c.Remove(path)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOfLocked(path); i >= 0 {
		if c.entries[i].equal(e) {
			return true // nothing changed, nobody to wake
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
	}
	c.insertLocked(e)
	c.notifyLocked()
	return true
}

// Remove deletes the entry for path if present. Removing an unknown path
// is a silent no-op: no order change, no notification.
func (c *Collection) Remove(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOfLocked(path)
	if i < 0 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.notifyLocked()
	return true
}

// Install replaces the whole collection with the given entries, sorted and
// deduplicated by path (first occurrence wins). One notification covers the
// swap; replacing empty with empty stays silent.
func (c *Collection) Install(entries []Entry) {
	sorted := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool { return entryLess(sorted[i], sorted[j]) })

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 && len(sorted) == 0 {
		return
	}
	c.entries = sorted
	c.notifyLocked()
}

// BulkLoad replaces the collection with a fresh scan of the given sources
// and returns the number of entries loaded. Folder files older than
// freshness are skipped; list entries are exempt from the window.
func (c *Collection) BulkLoad(src Sources, freshness time.Duration) int {
	entries, _ := scanSources(src, freshness)
	c.Install(entries)
	return len(entries)
}

// Snapshot returns a copy of the entries in display order.
func (c *Collection) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Watch returns a channel that ticks after collection changes until ctx is
// cancelled. The channel is buffered and coalescing: a tick that has not
// been consumed yet already covers any further changes, so slow consumers
// only ever miss intermediate states, never the final one.
func (c *Collection) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		for i, s := range c.subs {
			if s == ch {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

// notifyLocked wakes every subscriber without ever blocking: a full buffer
// means a tick is already pending. Callers hold c.mu.
func (c *Collection) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// indexOfLocked returns the position of path or -1. Callers hold c.mu.
func (c *Collection) indexOfLocked(path string) int {
	for i := range c.entries {
		if c.entries[i].Path == path {
			return i
		}
	}
	return -1
}

// insertLocked places e at its ordered position. Callers hold c.mu and
// guarantee no entry for e.Path exists.
func (c *Collection) insertLocked(e Entry) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return entryLess(e, c.entries[i])
	})
	c.entries = append(c.entries, Entry{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = e
}
