// Package history keeps a bounded, de-duplicated, most-recent-first log of
// accepted search queries.
package history

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxEntries caps the history length.
	DefaultMaxEntries = 20

	// MinQueryLength is the shortest query (in characters, after trimming)
	// worth remembering.
	MinQueryLength = 2
)

// History is an in-memory query log. It is owned by one search session and
// is not safe for concurrent use.
type History struct {
	entries []string
	max     int
}

// New returns an empty history holding at most maxEntries queries. A
// non-positive value selects DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{max: maxEntries}
}

// Add records query as the most recent entry. Queries shorter than
// MinQueryLength are ignored; an existing equal entry moves to the front.
// It reports whether the query was recorded.
func (h *History) Add(query string) bool {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return false
	}

	if i := slices.Index(h.entries, query); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = slices.Insert(h.entries, 0, query)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
	return true
}

// List returns a copy of the entries, most recent first.
func (h *History) List() []string {
	return slices.Clone(h.entries)
}

// Recent returns at most n entries, most recent first.
func (h *History) Recent(n int) []string {
	if n <= 0 || n >= len(h.entries) {
		return h.List()
	}
	return slices.Clone(h.entries[:n])
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear removes every entry.
func (h *History) Clear() {
	h.entries = nil
}
