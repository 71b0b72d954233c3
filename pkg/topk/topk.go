// Package topk maintains the K largest records seen across a corpus scan.
package topk

import "sort"

// Entry identifies one record by size. SourceFile is the batch file the
// record was read from; the removal stage keys on its base name plus URL.
type Entry struct {
	ContentLength int    `json:"content_length"`
	Language      string `json:"language"`
	URL           string `json:"url"`
	SourceFile    string `json:"source_file"`
}

// Selector keeps at most K entries sorted descending by ContentLength.
// Once full, the smallest retained length is the admission threshold and
// candidates at or below it are rejected without any insertion work. The
// zero capacity selector admits nothing.
type Selector struct {
	k       int
	entries []Entry
}

// New returns a Selector with capacity k. Negative k behaves like zero.
func New(k int) *Selector {
	if k < 0 {
		k = 0
	}
	return &Selector{k: k}
}

// Admit offers a candidate. It returns true when the candidate was retained.
func (s *Selector) Admit(e Entry) bool {
	if s.k == 0 {
		return false
	}
	if len(s.entries) == s.k && e.ContentLength <= s.Threshold() {
		return false
	}

	// Insert at the sorted position (descending).
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].ContentLength < e.ContentLength
	})
	s.entries = append(s.entries, Entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e

	if len(s.entries) > s.k {
		s.entries = s.entries[:s.k]
	}
	return true
}

// Merge admits every entry of other into s. Merging partial selectors from
// parallel workers yields the same set as scanning the union directly,
// whatever the completion order.
func (s *Selector) Merge(other *Selector) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		s.Admit(e)
	}
}

// Threshold returns the current admission threshold: the smallest retained
// length once the selector is full, otherwise -1 (everything admissible).
func (s *Selector) Threshold() int {
	if len(s.entries) < s.k || s.k == 0 {
		return -1
	}
	return s.entries[len(s.entries)-1].ContentLength
}

// Len returns the number of retained entries.
func (s *Selector) Len() int {
	return len(s.entries)
}

// Entries returns the retained entries, largest first. The slice is a copy;
// mutating it does not affect the selector.
func (s *Selector) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
