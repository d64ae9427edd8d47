package arena

// Stats is a snapshot of arena usage.
type Stats struct {
	Chunks      int // chunks in the chain
	Len         int // committed bytes across the chain
	Cap         int // capacity across the chain
	Allocations int // chunks allocated over the arena's lifetime
	Reuses      int // times a dropped chunk was reused instead of allocating
	PeakLen     int // high-water mark of committed bytes
}

// Utilization returns the ratio of committed bytes to capacity (0.0 to 1.0).
func (s Stats) Utilization() float64 {
	if s.Cap == 0 {
		return 0
	}
	return float64(s.Len) / float64(s.Cap)
}

// Stats returns a snapshot of arena statistics.
func (a *Arena) Stats() Stats {
	a.panicIfReleased()
	s := Stats{
		Chunks:      len(a.chain),
		Len:         a.used,
		Allocations: a.allocations,
		Reuses:      a.reuses,
		PeakLen:     a.peak,
	}
	for _, c := range a.chain {
		s.Cap += len(c.buf)
	}
	return s
}
