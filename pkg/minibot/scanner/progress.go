package scanner

import (
	"sync/atomic"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// Tracker counts finished directory units against the enumerated total. It
// is written by scan workers and polled by whoever renders progress.
type Tracker struct {
	completed atomic.Int64
	total     atomic.Int64
}

// NewTracker returns a tracker at 0/0.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetTotal fixes the denominator once enumeration has finished.
func (t *Tracker) SetTotal(n int64) {
	t.total.Store(n)
}

// Done records one finished unit and returns the new completed count.
func (t *Tracker) Done() int64 {
	return t.completed.Add(1)
}

// Get returns the completed and total counts.
func (t *Tracker) Get() (completed, total int64) {
	return t.completed.Load(), t.total.Load()
}

// Snapshot returns the counters as a ScanProgress.
func (t *Tracker) Snapshot() types.ScanProgress {
	c, n := t.Get()
	return types.ScanProgress{Completed: c, Total: n}
}

// Percent returns completed/total*100, or 0 while the total is unknown.
func (t *Tracker) Percent() float64 {
	return t.Snapshot().Percent()
}
