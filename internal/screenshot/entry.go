// Package screenshot maintains a live, deduplicated, newest-first collection
// of screenshot files discovered from two optional sources: a watched folder
// tree and a watched plain-text list file.
package screenshot

import (
	"time"

	"github.com/Programie/ScreenshotManager/internal/imagemeta"
)

// Entry is one screenshot in the collection, keyed by its absolute path.
type Entry struct {
	Path       string    `json:"path"`
	ModifiedAt time.Time `json:"modified_at"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
}

// NewEntry probes path and builds its collection entry.
// Paths that cannot be probed as images have no entry.
func NewEntry(path string) (Entry, error) {
	info, err := imagemeta.Probe(path)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Path:       path,
		ModifiedAt: info.ModTime,
		Width:      info.Width,
		Height:     info.Height,
	}, nil
}

// equal reports whether two entries hold identical metadata.
func (e Entry) equal(other Entry) bool {
	return e.Path == other.Path &&
		e.ModifiedAt.Equal(other.ModifiedAt) &&
		e.Width == other.Width &&
		e.Height == other.Height
}

// entryLess orders entries newest first; equal timestamps fall back to the
// path so the order is total and two identically-stocked collections always
// agree.
func entryLess(a, b Entry) bool {
	if !a.ModifiedAt.Equal(b.ModifiedAt) {
		return a.ModifiedAt.After(b.ModifiedAt)
	}
	return a.Path < b.Path
}
