package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	// Verify all metrics are registered without conflicts
	// This test ensures no duplicate metric names

	metrics := []prometheus.Collector{
		// Broadcast metrics
		ConnectedClients,
		BroadcastsTotal,
		BroadcastDuration,
		SendFailuresTotal,
		DisconnectsTotal,

		// Keep-alive metrics
		KeepAlivePingsTotal,
		KeepAliveErrorsTotal,

		// WebSocket endpoint metrics
		WebSocketConnectionsTotal,
		WebSocketRejectionsTotal,

		// Sampler metrics
		SamplerSnapshotsTotal,
		SamplerErrorsTotal,
		AlertsFiredTotal,
	}

	// Verify each metric is registered
	for _, metric := range metrics {
		desc := make(chan *prometheus.Desc, 1)
		metric.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestCounterVecMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metric  *prometheus.CounterVec
		labels  prometheus.Labels
		incBy   float64
		wantVal float64
	}{
		{
			name:    "broadcasts by type",
			metric:  BroadcastsTotal,
			labels:  prometheus.Labels{"type": "state_update"},
			incBy:   5,
			wantVal: 5,
		},
		{
			name:    "disconnects by cause",
			metric:  DisconnectsTotal,
			labels:  prometheus.Labels{"cause": "client"},
			incBy:   10,
			wantVal: 10,
		},
		{
			name:    "rejections by reason",
			metric:  WebSocketRejectionsTotal,
			labels:  prometheus.Labels{"reason": "rate_limit"},
			incBy:   3,
			wantVal: 3,
		},
		{
			name:    "alerts by rule",
			metric:  AlertsFiredTotal,
			labels:  prometheus.Labels{"rule": "connection_capacity"},
			incBy:   2,
			wantVal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset metric
			tt.metric.Reset()

			// Increment counter
			for i := 0; i < int(tt.incBy); i++ {
				tt.metric.With(tt.labels).Inc()
			}

			// Verify value
			val := testutil.ToFloat64(tt.metric.With(tt.labels))
			assert.Equal(t, tt.wantVal, val)
		})
	}
}

func TestConnectedClientsGauge(t *testing.T) {
	ConnectedClients.Set(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(ConnectedClients))

	ConnectedClients.Set(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(ConnectedClients))
}
