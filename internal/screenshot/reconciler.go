package screenshot

import (
	"sort"
	"sync"
)

// Reconciler keeps the collection in step with the plain-text list file by
// diffing each fresh reading of the file against the previous one. Only the
// difference is applied, so untouched entries are never churned.
type Reconciler struct {
	mu    sync.Mutex
	known map[string]struct{}
	col   *Collection
}

// NewReconciler returns a reconciler that applies list membership changes
// to col. The known set starts empty, so the first reconcile adds every
// listed path.
func NewReconciler(col *Collection) *Reconciler {
	return &Reconciler{known: make(map[string]struct{}), col: col}
}

// Reconcile re-reads the list file and applies the membership difference:
// newly listed paths are upserted, paths no longer listed are removed. A
// missing or unreadable list file reads as empty, removing everything that
// was previously listed. Overlapping calls serialize; the last one wins.
func (r *Reconciler) Reconcile(listPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]struct{})
	for _, p := range readList(listPath) {
		next[p] = struct{}{}
	}

	var added, removed []string
	for p := range next {
		if _, ok := r.known[p]; !ok {
			added = append(added, p)
		}
	}
	for p := range r.known {
		if _, ok := next[p]; !ok {
			removed = append(removed, p)
		}
	}

	// Sorted apply order keeps repeated runs byte-for-byte reproducible.
	sort.Strings(added)
	sort.Strings(removed)

	for _, p := range added {
		r.col.Upsert(p)
	}
	for _, p := range removed {
		r.col.Remove(p)
	}
	r.known = next
}

// setKnown seeds the membership set after a bulk load so the next reconcile
// diffs against what the scan actually saw.
func (r *Reconciler) setKnown(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known = make(map[string]struct{}, len(paths))
	for _, p := range paths {
		r.known[p] = struct{}{}
	}
}
