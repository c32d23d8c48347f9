package trace

import "sync"

// Trace collects best-trigger decisions during a grid scan.
// Safe for concurrent recording.
type Trace struct {
	mu      sync.Mutex
	Records []BestRecord
}

// New creates a Trace ready for recording.
func New() *Trace {
	return &Trace{Records: make([]BestRecord, 0)}
}

// Record appends a decision.
func (t *Trace) Record(r BestRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Records = append(t.Records, r)
}

// Snapshot returns a copy of the recorded decisions.
func (t *Trace) Snapshot() []BestRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]BestRecord, len(t.Records))
	copy(out, t.Records)
	return out
}
