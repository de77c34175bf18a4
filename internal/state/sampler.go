package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/metrics"
)

const defaultSampleInterval = 5 * time.Second

// Source supplies point-in-time platform snapshots.
type Source interface {
	Snapshot(ctx context.Context) (map[string]any, error)
}

// Publisher pushes snapshots and alerts to connected dashboard clients.
type Publisher interface {
	BroadcastState(data map[string]any) error
	BroadcastAlert(data map[string]any) error
}

// Sampler periodically pulls a snapshot from the Source and publishes it.
// A failed iteration is logged and skipped; the loop keeps its cadence.
type Sampler struct {
	source    Source
	publisher Publisher
	monitor   *Monitor
	clock     clockwork.Clock
	interval  time.Duration
}

// NewSampler creates a sampler. monitor may be nil to disable alerting.
func NewSampler(source Source, publisher Publisher, monitor *Monitor, clock clockwork.Clock, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &Sampler{
		source:    source,
		publisher: publisher,
		monitor:   monitor,
		clock:     clock,
		interval:  interval,
	}
}

// Run starts the periodic publish loop. It blocks until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.sample(ctx)
		}
	}
}

func (s *Sampler) sample(ctx context.Context) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		slog.Warn("Sampler: snapshot failed", "error", err)
		metrics.SamplerErrorsTotal.Inc()
		return
	}

	if err := s.publisher.BroadcastState(snapshot); err != nil {
		slog.Error("Sampler: publish failed", "error", err)
		metrics.SamplerErrorsTotal.Inc()
		return
	}
	metrics.SamplerSnapshotsTotal.Inc()

	if s.monitor == nil {
		return
	}
	for _, alert := range s.monitor.Evaluate(snapshot) {
		rule, _ := alert["rule"].(string)
		if err := s.publisher.BroadcastAlert(alert); err != nil {
			slog.Error("Sampler: alert publish failed", "rule", rule, "error", err)
			continue
		}
		metrics.AlertsFiredTotal.WithLabelValues(rule).Inc()
		slog.Warn("Alert fired", "rule", rule, "value", alert["value"], "threshold", alert["threshold"])
	}
}
