package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/metrics"
)

// Conn is one live bidirectional channel to a connected client. The
// transport adapter owns the raw socket; the Manager owns membership.
type Conn interface {
	ID() uuid.UUID
	Send(payload []byte) error
	Close() error
}

// Handshake completes the server side of a connection upgrade and returns
// the accepted connection.
type Handshake func() (Conn, error)

// HandshakeError wraps an upgrade failure. It is the only steady-state
// error Connect lets cross the component boundary; a connection whose
// handshake failed is never registered.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string { return fmt.Sprintf("handshake failed: %v", e.Err) }
func (e *HandshakeError) Unwrap() error { return e.Err }

// ErrRegistryFull is returned by Connect when the registry is at capacity.
// The accepted connection has already been closed.
var ErrRegistryFull = errors.New("connection registry at capacity")

// Manager is the connection registry and broadcast dispatcher. It is the
// sole mutator of the connection set; broadcasts iterate a snapshot taken
// under the mutex, so concurrent connects and disconnects never corrupt a
// pass in flight.
type Manager struct {
	clock    clockwork.Clock
	maxConns int

	mu    sync.Mutex
	conns []Conn
}

// NewManager creates an empty registry. maxConns <= 0 disables the
// capacity limit.
func NewManager(clock clockwork.Clock, maxConns int) *Manager {
	return &Manager{clock: clock, maxConns: maxConns}
}

// Connect runs the handshake and, on success, registers the accepted
// connection. A handshake failure is returned as *HandshakeError and the
// connection is never registered. A connection already registered under the
// same ID is not added twice.
func (m *Manager) Connect(hs Handshake) (Conn, error) {
	conn, err := hs()
	if err != nil {
		return nil, &HandshakeError{Err: err}
	}

	m.mu.Lock()
	if m.maxConns > 0 && len(m.conns) >= m.maxConns {
		m.mu.Unlock()
		slog.Warn("Rejecting client: registry at capacity", "conn_id", conn.ID().String(), "max_connections", m.maxConns)
		_ = conn.Close()
		return nil, ErrRegistryFull
	}
	if m.indexLocked(conn.ID()) < 0 {
		m.conns = append(m.conns, conn)
	}
	total := len(m.conns)
	m.mu.Unlock()

	metrics.ConnectedClients.Set(float64(total))
	slog.Debug("Client registered", "conn_id", conn.ID().String(), "total_clients", total)
	return conn, nil
}

// Disconnect removes the connection from the registry if present. Absence
// is not an error: failure cleanup and read-pump cleanup can race.
func (m *Manager) Disconnect(conn Conn) {
	m.mu.Lock()
	idx := m.indexLocked(conn.ID())
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.conns = append(m.conns[:idx], m.conns[idx+1:]...)
	total := len(m.conns)
	m.mu.Unlock()

	metrics.ConnectedClients.Set(float64(total))
	metrics.DisconnectsTotal.WithLabelValues("client").Inc()
	slog.Debug("Client unregistered", "conn_id", conn.ID().String(), "remaining_clients", total)
}

// Count returns the number of registered connections.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

// DisconnectAll closes every connection best-effort and clears the
// registry. Used only at process shutdown; a connection that fails to close
// cleanly is still removed.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	conns := m.conns
	m.conns = nil
	m.mu.Unlock()

	for _, c := range conns {
		if err := c.Close(); err != nil {
			slog.Warn("Close failed during shutdown", "conn_id", c.ID().String(), "error", err)
		}
		metrics.DisconnectsTotal.WithLabelValues("shutdown").Inc()
	}

	metrics.ConnectedClients.Set(0)
	slog.Info("All clients disconnected", "closed", len(conns))
}

// SendTo attempts delivery to a single connection. A send failure is logged
// with the connection identity and the connection is deregistered and
// closed; it is never surfaced to the caller. The returned error reports
// only an encoding failure of the message itself.
func (m *Manager) SendTo(conn Conn, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	m.deliver(conn, msg.Type, payload)
	return nil
}

// Broadcast delivers the message to every connection in a snapshot of the
// current registry. Connections that fail mid-pass are collected and
// removed after the iteration completes. Never returns an error for an
// individual send failure; only a malformed message aborts the call.
func (m *Manager) Broadcast(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	start := m.clock.Now()
	snapshot := m.snapshot()

	var failed []Conn
	for _, c := range snapshot {
		if err := c.Send(payload); err != nil {
			slog.Warn("Send failed, dropping client", "conn_id", c.ID().String(), "type", string(msg.Type), "error", err)
			metrics.SendFailuresTotal.Inc()
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		m.Disconnect(c)
		_ = c.Close()
	}

	metrics.BroadcastsTotal.WithLabelValues(string(msg.Type)).Inc()
	metrics.BroadcastDuration.Observe(m.clock.Since(start).Seconds())
	return nil
}

// BroadcastState pushes a state_update snapshot with the timestamp captured
// at call time.
func (m *Manager) BroadcastState(data map[string]any) error {
	return m.Broadcast(NewStateUpdate(m.clock.Now(), data))
}

// BroadcastAlert pushes an alert with the timestamp captured at call time.
func (m *Manager) BroadcastAlert(data map[string]any) error {
	return m.Broadcast(NewAlert(m.clock.Now(), data))
}

// deliver sends pre-encoded bytes to one connection, pruning it on failure.
func (m *Manager) deliver(conn Conn, kind Kind, payload []byte) {
	if err := conn.Send(payload); err != nil {
		slog.Warn("Send failed, dropping client", "conn_id", conn.ID().String(), "type", string(kind), "error", err)
		metrics.SendFailuresTotal.Inc()
		m.Disconnect(conn)
		_ = conn.Close()
	}
}

// snapshot returns a point-in-time copy of the membership. Callers iterate
// the copy, never the live slice.
func (m *Manager) snapshot() []Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Conn, len(m.conns))
	copy(out, m.conns)
	return out
}

// indexLocked returns the position of id in the set, or -1. Caller holds mu.
func (m *Manager) indexLocked(id uuid.UUID) int {
	for i, c := range m.conns {
		if c.ID() == id {
			return i
		}
	}
	return -1
}
