package screenshot

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFreshness bounds how old a file may be to enter the collection
// during a bulk folder scan. Live events and list entries are exempt: a
// file the user just touched or listed is wanted regardless of its age.
const DefaultFreshness = 24 * time.Hour

// Sources selects where screenshots are discovered.
type Sources struct {
	FolderEnabled bool   `json:"folder_enabled"`
	FolderPath    string `json:"folder_path"`
	ListEnabled   bool   `json:"list_enabled"`
	ListPath      string `json:"list_path"`
}

// ScanFolder walks root and returns an entry for every probeable image file
// modified within the freshness window. A freshness of 0 disables the
// window. Unreadable entries are skipped, never fatal.
func ScanFolder(root string, freshness time.Duration) []Entry {
	var entries []Entry
	cutoff := time.Now().Add(-freshness)
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if freshness > 0 && info.ModTime().Before(cutoff) {
			return nil // too old for a bulk scan
		}
		if e, err := NewEntry(path); err == nil {
			entries = append(entries, e)
		}
		return nil
	})
	return entries
}

// readList returns the paths named in the list file: one per line,
// surrounding whitespace trimmed, blank lines and paths that are not
// existing regular files dropped. A missing or unreadable list reads as
// empty.
func readList(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if st, err := os.Stat(line); err != nil || st.IsDir() {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}

// scanSources reads both enabled sources and returns the merged,
// deduplicated entry set, plus the paths the list file currently names
// (used to seed reconciliation).
func scanSources(src Sources, freshness time.Duration) ([]Entry, []string) {
	var entries []Entry
	seen := make(map[string]struct{})

	if src.FolderEnabled && src.FolderPath != "" {
		for _, e := range ScanFolder(src.FolderPath, freshness) {
			if _, dup := seen[e.Path]; dup {
				continue
			}
			seen[e.Path] = struct{}{}
			entries = append(entries, e)
		}
	}

	var listed []string
	if src.ListEnabled && src.ListPath != "" {
		listed = readList(src.ListPath)
		for _, p := range listed {
			if _, dup := seen[p]; dup {
				continue
			}
			if e, err := NewEntry(p); err == nil {
				seen[p] = struct{}{}
				entries = append(entries, e)
			}
		}
	}
	return entries, listed
}
