package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast Metrics
var (
	// ConnectedClients tracks the number of currently registered WebSocket clients
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_connected_clients",
			Help: "Number of currently registered WebSocket clients",
		},
	)

	// BroadcastsTotal tracks broadcasts by message type
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Total broadcast passes by message type",
		},
		[]string{"type"},
	)

	// BroadcastDuration tracks how long one full broadcast pass takes
	BroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_duration_seconds",
			Help:    "Duration of one broadcast pass over all clients",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// SendFailuresTotal tracks per-connection send failures
	SendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_send_failures_total",
			Help: "Total send failures that caused a client to be dropped",
		},
	)

	// DisconnectsTotal tracks deregistrations by cause
	DisconnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_disconnects_total",
			Help: "Total client deregistrations by cause",
		},
		[]string{"cause"},
	)
)

// Keep-Alive Metrics
var (
	// KeepAlivePingsTotal tracks pings emitted by the keep-alive loop
	KeepAlivePingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keepalive_pings_total",
			Help: "Total ping messages emitted by the keep-alive loop",
		},
	)

	// KeepAliveErrorsTotal tracks failed keep-alive iterations
	KeepAliveErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keepalive_errors_total",
			Help: "Total keep-alive iterations that failed and were retried",
		},
	)
)

// WebSocket Endpoint Metrics
var (
	// WebSocketConnectionsTotal tracks accepted upgrade handshakes
	WebSocketConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total accepted WebSocket upgrade handshakes",
		},
	)

	// WebSocketRejectionsTotal tracks rejected connection attempts by reason
	WebSocketRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_rejections_total",
			Help: "Total rejected WebSocket connection attempts by reason",
		},
		[]string{"reason"},
	)
)

// State Sampler Metrics
var (
	// SamplerSnapshotsTotal tracks published platform-state snapshots
	SamplerSnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sampler_snapshots_total",
			Help: "Total platform-state snapshots published to clients",
		},
	)

	// SamplerErrorsTotal tracks failed sampler iterations
	SamplerErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sampler_errors_total",
			Help: "Total sampler iterations that failed",
		},
	)

	// AlertsFiredTotal tracks alerts published by the threshold monitor
	AlertsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Total alerts published by the threshold monitor",
		},
		[]string{"rule"},
	)
)
