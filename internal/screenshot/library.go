package screenshot

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Programie/ScreenshotManager/internal/watchfs"
)

// Library glues the sources to a Collection: it owns the watchers, the
// reconciler and the single goroutine allowed to mutate the collection in
// response to events. Everything else only ever reads snapshots.
type Library struct {
	col *Collection
	rec *Reconciler

	msgs    chan message
	loopCtx context.Context
	quit    context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	gen    uuid.UUID          // active watcher generation
	cancel context.CancelFunc // stops the active generation
	src    Sources

	freshness time.Duration
}

type msgKind uint8

const (
	msgScanStart msgKind = iota // a bulk scan began; start coalescing
	msgScanDone                 // the scan result, ready to install
	msgFolder                   // live event from the folder tree
	msgList                     // live event on the list file
)

// message is one unit of work for the consumer loop, stamped with the
// watcher generation that produced it so leftovers from a replaced
// configuration can be fenced out.
type message struct {
	gen     uuid.UUID
	kind    msgKind
	ev      watchfs.Event // msgFolder, msgList
	entries []Entry       // msgScanDone
	listed  []string      // msgScanDone
}

// NewLibrary returns a library with an empty collection and no sources.
// Call Reconfigure to start discovery and Close to tear everything down.
func NewLibrary() *Library {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Library{
		col:       NewCollection(),
		msgs:      make(chan message, 64),
		loopCtx:   ctx,
		quit:      cancel,
		done:      make(chan struct{}),
		freshness: DefaultFreshness,
	}
	l.rec = NewReconciler(l.col)
	go l.loop(ctx)
	return l
}

// Collection returns the live collection for snapshots and subscriptions.
func (l *Library) Collection() *Collection {
	return l.col
}

// Sources returns the currently configured sources.
func (l *Library) Sources() Sources {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src
}

// Reconfigure replaces the active sources. Running watchers are stopped,
// new ones start for every enabled source, and an asynchronous bulk scan
// rebuilds the collection. Live events arriving while the scan runs are
// coalesced and applied on top of its result, so nothing observed is lost.
// A source whose path is missing is logged and skipped; the library keeps
// running with whatever sources remain.
func (l *Library) Reconfigure(src Sources) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	gen := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	l.gen = gen
	l.cancel = cancel
	l.src = src
	l.mu.Unlock()

	l.post(message{gen: gen, kind: msgScanStart})

	// Watches are registered before the scan starts, so a file appearing
	// mid-scan is seen by the walk or by its event (or both; upserts absorb
	// the overlap).
	if src.FolderEnabled && src.FolderPath != "" {
		events, err := watchfs.WatchTree(ctx, src.FolderPath)
		if err != nil {
			log.Printf("library: folder watch %s: %v", src.FolderPath, err)
		} else {
			go l.forward(ctx, gen, msgFolder, events)
		}
	}
	if src.ListEnabled && src.ListPath != "" {
		events, err := watchfs.WatchFile(ctx, src.ListPath)
		if err != nil {
			log.Printf("library: list watch %s: %v", src.ListPath, err)
		} else {
			go l.forward(ctx, gen, msgList, events)
		}
	}

	// The scan walks and probes on its own goroutine so event intake never
	// waits on disk IO.
	go func() {
		entries, listed := scanSources(src, l.freshness)
		l.post(message{gen: gen, kind: msgScanDone, entries: entries, listed: listed})
	}()
}

// Close stops the watchers and the consumer loop. Safe to call repeatedly.
func (l *Library) Close() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	l.quit()
	<-l.done
}

// post delivers m to the consumer loop unless the library is closed.
func (l *Library) post(m message) {
	select {
	case l.msgs <- m:
	case <-l.loopCtx.Done():
	}
}

// forward stamps watcher events with their generation and feeds the loop.
func (l *Library) forward(ctx context.Context, gen uuid.UUID, kind msgKind, events <-chan watchfs.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case l.msgs <- message{gen: gen, kind: kind, ev: ev}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// loop is the single consumer of msgs. All collection mutation happens
// here, one message at a time.
func (l *Library) loop(ctx context.Context) {
	defer close(l.done)

	var (
		scanning  bool                  // a bulk scan is in flight
		pending   map[string]watchfs.Op // latest folder op per path, held back until the scan lands
		listDirty bool                  // the list file changed while scanning
	)

	for {
		select {
		case <-ctx.Done():
			return

		case m := <-l.msgs:
			if m.gen != l.generation() {
				continue // leftover from a replaced configuration
			}

			switch m.kind {
			case msgScanStart:
				scanning = true
				pending = make(map[string]watchfs.Op)
				listDirty = false

			case msgScanDone:
				l.col.Install(m.entries)
				l.rec.setKnown(m.listed)
				log.Printf("library: loaded %d screenshots", len(m.entries))
				scanning = false

				// Whatever happened during the scan is applied on top, in
				// sorted path order for reproducibility. Per path only the
				// latest op matters.
				paths := make([]string, 0, len(pending))
				for p := range pending {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					l.applyFolder(watchfs.Event{Op: pending[p], Path: p})
				}
				pending = nil
				if listDirty {
					l.reconcile()
					listDirty = false
				}

			case msgFolder:
				if scanning {
					pending[m.ev.Path] = m.ev.Op
					continue
				}
				l.applyFolder(m.ev)

			case msgList:
				if scanning {
					listDirty = true
					continue
				}
				l.reconcile()
			}
		}
	}
}

// applyFolder maps one live folder event onto the collection.
func (l *Library) applyFolder(ev watchfs.Event) {
	switch ev.Op {
	case watchfs.Created, watchfs.Modified:
		l.col.Upsert(ev.Path)
	case watchfs.Deleted:
		l.col.Remove(ev.Path)
	}
}

// reconcile re-reads the configured list file. Any list event funnels
// through here, including deletion: a vanished list reads as empty and
// drops everything it used to name.
func (l *Library) reconcile() {
	src := l.Sources()
	if src.ListEnabled && src.ListPath != "" {
		l.rec.Reconcile(src.ListPath)
	}
}

func (l *Library) generation() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}
