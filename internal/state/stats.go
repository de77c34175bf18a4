package state

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stats accumulates platform activity counters and derives dashboard
// snapshots from them. Producers (transaction pipeline, block builder)
// record events as they happen; Snapshot computes rates over the window
// since the previous snapshot.
type Stats struct {
	clock       clockwork.Clock
	connections func() int

	mu           sync.Mutex
	startedAt    time.Time
	transactions uint64
	blockHeight  uint64
	lastSampleAt time.Time
	lastTxCount  uint64
}

// NewStats creates an accumulator. connections reports the current
// registry size and may be nil.
func NewStats(clock clockwork.Clock, connections func() int) *Stats {
	now := clock.Now()
	return &Stats{
		clock:        clock,
		connections:  connections,
		startedAt:    now,
		lastSampleAt: now,
	}
}

// RecordTransactions adds n processed transactions to the running total.
func (s *Stats) RecordTransactions(n uint64) {
	s.mu.Lock()
	s.transactions += n
	s.mu.Unlock()
}

// RecordBlock advances the chain height by one.
func (s *Stats) RecordBlock() {
	s.mu.Lock()
	s.blockHeight++
	s.mu.Unlock()
}

// Snapshot returns the current platform state as a broadcast payload. The
// tps figure covers the window since the previous Snapshot call.
func (s *Stats) Snapshot(_ context.Context) (map[string]any, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	window := now.Sub(s.lastSampleAt)
	var tps float64
	if window > 0 {
		tps = float64(s.transactions-s.lastTxCount) / window.Seconds()
	}
	s.lastSampleAt = now
	s.lastTxCount = s.transactions

	snap := map[string]any{
		"tps":                tps,
		"total_transactions": s.transactions,
		"block_height":       s.blockHeight,
		"uptime_seconds":     now.Sub(s.startedAt).Seconds(),
	}
	if s.connections != nil {
		snap["connections"] = s.connections()
	}
	return snap, nil
}
