package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks a batch run. It is safe for concurrent use.
type Progress struct {
	totalItems       int
	processedItems   int
	totalBatches     int
	processedBatches int
	batchSize        int
	startTime        time.Time

	mu sync.RWMutex
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	return &Progress{
		totalItems:   totalItems,
		totalBatches: totalBatches,
		batchSize:    batchSize,
		startTime:    time.Now(),
	}
}

// AddProcessed records one finished batch of n items.
func (p *Progress) AddProcessed(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedItems += n
	p.processedBatches++
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	snap := ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		BatchSize:        p.batchSize,
		Elapsed:          elapsed,
	}
	if p.totalItems > 0 {
		snap.PercentComplete = float64(p.processedItems) / float64(p.totalItems) * percentMultiplier
	}
	if secs := elapsed.Seconds(); secs > 0 {
		snap.ItemsPerSecond = float64(p.processedItems) / secs
	}
	return snap
}

// ProgressSnapshot is an immutable view of Progress.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	PercentComplete  float64
	ItemsPerSecond   float64
	Elapsed          time.Duration
}

// Complete reports whether every item has been processed.
func (s ProgressSnapshot) Complete() bool {
	return s.ProcessedItems >= s.TotalItems
}
