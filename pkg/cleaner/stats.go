package cleaner

// Stats accumulates byte reductions for one file, or for a whole run after
// merging. Merge is element-wise addition, so results from parallel workers
// combine to the same totals in any order.
type Stats struct {
	SizeBefore int64
	SizeAfter  int64
	ByRule     map[string]int64
	Processed  int
	Skipped    int
}

// NewStats returns an empty Stats with the per-rule map allocated.
func NewStats() Stats {
	return Stats{ByRule: make(map[string]int64)}
}

// Merge adds other into s key-wise.
func (s *Stats) Merge(other Stats) {
	s.SizeBefore += other.SizeBefore
	s.SizeAfter += other.SizeAfter
	s.Processed += other.Processed
	s.Skipped += other.Skipped
	if s.ByRule == nil {
		s.ByRule = make(map[string]int64)
	}
	for name, n := range other.ByRule {
		s.ByRule[name] += n
	}
}

// Reduction returns the percentage of content bytes removed, 0 when nothing
// was read.
func (s *Stats) Reduction() float64 {
	if s.SizeBefore == 0 {
		return 0
	}
	return float64(s.SizeBefore-s.SizeAfter) / float64(s.SizeBefore) * 100
}
