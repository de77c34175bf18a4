package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_FiresAboveThreshold(t *testing.T) {
	m := NewMonitor(Rule{Name: "connection_capacity", Field: "connections", Op: Above, Threshold: 90, Severity: "warning"})

	alerts := m.Evaluate(map[string]any{"connections": 95})
	require.Len(t, alerts, 1)
	assert.Equal(t, "connection_capacity", alerts[0]["rule"])
	assert.Equal(t, 95.0, alerts[0]["value"])
	assert.Equal(t, 90.0, alerts[0]["threshold"])
	assert.Equal(t, "warning", alerts[0]["severity"])
}

func TestMonitor_FiresBelowThreshold(t *testing.T) {
	m := NewMonitor(Rule{Name: "low_throughput", Field: "tps", Op: Below, Threshold: 1, Severity: "info"})

	assert.Len(t, m.Evaluate(map[string]any{"tps": 0.0}), 1)
	assert.Empty(t, m.Evaluate(map[string]any{"tps": 500.0}))
}

func TestMonitor_ThresholdItselfDoesNotFire(t *testing.T) {
	m := NewMonitor(Rule{Name: "cap", Field: "connections", Op: Above, Threshold: 90})
	assert.Empty(t, m.Evaluate(map[string]any{"connections": 90}))
}

func TestMonitor_MissingOrNonNumericFieldNeverFires(t *testing.T) {
	m := NewMonitor(Rule{Name: "cap", Field: "connections", Op: Above, Threshold: 0})

	assert.Empty(t, m.Evaluate(map[string]any{}))
	assert.Empty(t, m.Evaluate(map[string]any{"connections": "many"}))
}

func TestMonitor_MultipleRules(t *testing.T) {
	m := NewMonitor(
		Rule{Name: "high_tps", Field: "tps", Op: Above, Threshold: 1000, Severity: "info"},
		Rule{Name: "stalled_chain", Field: "block_height", Op: Below, Threshold: 1, Severity: "critical"},
	)

	alerts := m.Evaluate(map[string]any{"tps": 2000.0, "block_height": uint64(0)})
	require.Len(t, alerts, 2)
	assert.Equal(t, "high_tps", alerts[0]["rule"])
	assert.Equal(t, "stalled_chain", alerts[1]["rule"])
}
