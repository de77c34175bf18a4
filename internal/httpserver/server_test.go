package httpserver

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/broadcast"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/platform/config"
)

type testServerOption func(*testServerParams)

type testServerParams struct {
	cfg          *config.Config
	healthChecks []HealthCheck
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(p *testServerParams) {
		p.healthChecks = checks
	}
}

func withConfig(mutate func(*config.Config)) testServerOption {
	return func(p *testServerParams) {
		mutate(p.cfg)
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		AppEnv:               "development",
		Port:                 "0",
		AppURL:               "http://localhost:8080",
		LogLevel:             "info",
		LogFormat:            "text",
		KeepAliveInterval:    30 * time.Second,
		KeepAliveRetryDelay:  5 * time.Second,
		SampleInterval:       5 * time.Second,
		WriteTimeout:         time.Second,
		MaxConnections:       100,
		ConnectionsPerSecond: 100,
		ConnectionBurst:      100,
	}
}

func newTestServer(t *testing.T, opts ...testServerOption) (*Server, *broadcast.Manager) {
	t.Helper()

	params := &testServerParams{cfg: newTestConfig()}
	for _, opt := range opts {
		opt(params)
	}

	clock := clockwork.NewRealClock()
	manager := broadcast.NewManager(clock, params.cfg.MaxConnections)
	t.Cleanup(manager.DisconnectAll)

	return NewServer(params.cfg, manager, clock, params.healthChecks), manager
}
