package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how many manufacturing estimates a batch has completed.
// It is safe for concurrent reads while the driver updates it.
type Progress struct {
	total     int
	processed int
	external  int
	startTime time.Time
	mu        sync.RWMutex
}

// NewProgress creates a progress tracker for total items.
func NewProgress(total int) *Progress {
	return &Progress{total: total, startTime: time.Now()}
}

// Add records one processed item; external reports whether its estimate
// came from the external estimator.
func (p *Progress) Add(external bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	if external {
		p.external++
	}
}

// Snapshot returns an immutable copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	snap := ProgressSnapshot{
		Total:     p.total,
		Processed: p.processed,
		External:  p.external,
		Elapsed:   elapsed,
	}
	if p.total > 0 {
		snap.PercentComplete = float64(p.processed) / float64(p.total) * percentMultiplier
	}
	if secs := elapsed.Seconds(); secs > 0 {
		snap.ItemsPerSecond = float64(p.processed) / secs
	}
	return snap
}

// ProgressSnapshot is a point-in-time view of a Progress.
type ProgressSnapshot struct {
	Total           int
	Processed       int
	External        int
	PercentComplete float64
	Elapsed         time.Duration
	ItemsPerSecond  float64
}
