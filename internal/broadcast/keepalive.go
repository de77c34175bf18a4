package broadcast

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/metrics"
)

const (
	// DefaultKeepAliveInterval matches the cadence expected by the
	// dashboard frontends. Configurable, not normative.
	DefaultKeepAliveInterval = 30 * time.Second
	// DefaultKeepAliveRetryDelay is the shortened wait after a failed
	// iteration, to avoid a tight error loop.
	DefaultKeepAliveRetryDelay = 5 * time.Second
)

// Broadcaster is the slice of the Manager the keep-alive loop needs.
type Broadcaster interface {
	Count() int
	Broadcast(msg Message) error
}

// KeepAlive periodically pings every registered client so dead peers are
// detected and pruned even when no state updates are flowing. Two states:
// stopped (initial) and running. A failed iteration is logged and retried
// after a shorter delay; the loop never dies from a transient error.
type KeepAlive struct {
	manager    Broadcaster
	clock      clockwork.Clock
	interval   time.Duration
	retryDelay time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewKeepAlive creates a stopped loop. Non-positive durations fall back to
// the defaults; the retry delay is clamped below the interval.
func NewKeepAlive(manager Broadcaster, clock clockwork.Clock, interval, retryDelay time.Duration) *KeepAlive {
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}
	if retryDelay <= 0 || retryDelay >= interval {
		retryDelay = interval / 2
	}
	return &KeepAlive{
		manager:    manager,
		clock:      clock,
		interval:   interval,
		retryDelay: retryDelay,
	}
}

// Start transitions stopped to running. No-op if already running.
func (k *KeepAlive) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stop != nil {
		return
	}
	k.stop = make(chan struct{})
	k.done = make(chan struct{})
	go k.run(k.stop, k.done)
	slog.Info("Keep-alive loop started", "interval", k.interval)
}

// Stop transitions running to stopped and blocks until the loop exits. The
// wait is cancellable: the loop observes the stop within one interval, not
// after a full sleep elapses. Idempotent.
func (k *KeepAlive) Stop() {
	k.mu.Lock()
	stop, done := k.stop, k.done
	k.stop, k.done = nil, nil
	k.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	slog.Info("Keep-alive loop stopped")
}

// Running reports whether the loop is in the running state.
func (k *KeepAlive) Running() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.stop != nil
}

func (k *KeepAlive) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	delay := k.interval
	for {
		timer := k.clock.NewTimer(delay)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.Chan():
		}

		if err := k.ping(); err != nil {
			slog.Warn("Keep-alive iteration failed, retrying", "error", err, "retry_delay", k.retryDelay)
			metrics.KeepAliveErrorsTotal.Inc()
			delay = k.retryDelay
			continue
		}
		delay = k.interval
	}
}

// ping broadcasts one liveness probe. The connection count is captured at
// construction time, before the broadcast mutates the registry. Panics are
// converted to errors so one bad iteration cannot kill the loop.
func (k *KeepAlive) ping() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("keep-alive panic: %v", r)
		}
	}()

	msg := NewPing(k.clock.Now(), k.manager.Count())
	if err := k.manager.Broadcast(msg); err != nil {
		return err
	}
	metrics.KeepAlivePingsTotal.Inc()
	return nil
}
