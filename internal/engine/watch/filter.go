package watch

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

type fingerprint struct {
	sum    uint64
	exists bool
}

// ContentFilter remembers the last seen content of each file by xxhash so
// that events which leave a file byte-identical are dropped.
type ContentFilter struct {
	mu   sync.Mutex
	seen map[string]fingerprint
}

// NewContentFilter creates an empty filter.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{seen: make(map[string]fingerprint)}
}

// Record stores the current content of path. exists is false for a missing file.
func (f *ContentFilter) Record(path string, data []byte, exists bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seen[path] = newFingerprint(data, exists)
}

// Changed reports whether the content differs from the last recorded one and records it.
// A path seen for the first time counts as changed.
func (f *ContentFilter) Changed(path string, data []byte, exists bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := newFingerprint(data, exists)
	prev, ok := f.seen[path]
	f.seen[path] = next
	return !ok || prev != next
}

func newFingerprint(data []byte, exists bool) fingerprint {
	if !exists {
		return fingerprint{}
	}
	return fingerprint{sum: xxhash.Sum64(data), exists: true}
}
