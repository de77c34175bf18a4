// Package websocket adapts gorilla/websocket connections to the
// broadcast.Conn interface: write deadlines on every send, a close frame on
// shutdown, and a UUID identity for logging and deregistration.
package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

// DefaultWriteTimeout bounds how long a single send may block on a slow or
// dead peer before the connection is treated as failed.
const DefaultWriteTimeout = 5 * time.Second

// Conn wraps one upgraded gorilla connection. Safe for concurrent sends;
// gorilla supports at most one concurrent writer, so writes are serialized
// by a mutex.
type Conn struct {
	id           uuid.UUID
	raw          *gws.Conn
	clock        clockwork.Clock
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Accept performs the server-side upgrade handshake and wraps the result.
// The caller sees the raw upgrade error; Upgrade has already written the
// HTTP error response on failure.
func Accept(upgrader *gws.Upgrader, w http.ResponseWriter, r *http.Request, clock clockwork.Clock, writeTimeout time.Duration) (*Conn, error) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return Wrap(raw, clock, writeTimeout), nil
}

// Wrap adapts an already-upgraded connection.
func Wrap(raw *gws.Conn, clock clockwork.Clock, writeTimeout time.Duration) *Conn {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Conn{
		id:           uuid.New(),
		raw:          raw,
		clock:        clock,
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection's runtime identity.
func (c *Conn) ID() uuid.UUID { return c.id }

// RemoteAddr reports the peer address for logging.
func (c *Conn) RemoteAddr() string { return c.raw.RemoteAddr().String() }

// Send writes one text frame under a write deadline. A timed-out or broken
// peer surfaces here as an error, which the Manager turns into
// deregistration.
func (c *Conn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.raw.SetWriteDeadline(c.clock.Now().Add(c.writeTimeout))
	if err := c.raw.WriteMessage(gws.TextMessage, payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Close sends a normal-closure frame best-effort, then closes the
// underlying socket. Idempotent; repeated calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		frame := gws.FormatCloseMessage(gws.CloseNormalClosure, "")
		_ = c.raw.SetWriteDeadline(c.clock.Now().Add(c.writeTimeout))
		_ = c.raw.WriteMessage(gws.CloseMessage, frame)
		c.writeMu.Unlock()

		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

// ReadUntilClose drains inbound frames until the peer disconnects. The
// dashboard protocol is push-only; inbound payloads are discarded, but the
// read pump is what detects the client going away.
func (c *Conn) ReadUntilClose() {
	for {
		if _, _, err := c.raw.ReadMessage(); err != nil {
			return
		}
	}
}
