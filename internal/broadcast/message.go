package broadcast

import "time"

// Kind tags the three recognized message types on the wire.
type Kind string

const (
	KindStateUpdate Kind = "state_update"
	KindAlert       Kind = "alert"
	KindPing        Kind = "ping"
)

// Message is one tagged payload pushed to dashboard clients. Immutable once
// constructed; the timestamp is captured by the caller at construction time.
//
// Wire shape:
//
//	{"type": "state_update"|"alert", "timestamp": <RFC3339>, "data": {...}}
//	{"type": "ping", "timestamp": <RFC3339>, "connections": <int>}
type Message struct {
	Type        Kind           `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	Data        map[string]any `json:"data,omitempty"`
	Connections *int           `json:"connections,omitempty"`
}

// NewStateUpdate builds a state_update message carrying a platform snapshot.
func NewStateUpdate(ts time.Time, data map[string]any) Message {
	return Message{Type: KindStateUpdate, Timestamp: ts, Data: data}
}

// NewAlert builds an alert message.
func NewAlert(ts time.Time, data map[string]any) Message {
	return Message{Type: KindAlert, Timestamp: ts, Data: data}
}

// NewPing builds a liveness probe carrying the registry size at the instant
// of construction.
func NewPing(ts time.Time, connections int) Message {
	n := connections
	return Message{Type: KindPing, Timestamp: ts, Connections: &n}
}
