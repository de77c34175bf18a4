package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/broadcast"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/httpserver"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/platform/config"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/platform/logging"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/state"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func registryHealthCheck(manager *broadcast.Manager, maxConnections int) httpserver.HealthCheck {
	return httpserver.HealthCheck{
		Name: "registry",
		Check: func(_ context.Context) error {
			if count := manager.Count(); count >= maxConnections {
				return fmt.Errorf("registry at capacity: %d connections", count)
			}
			return nil
		},
	}
}

func runGracefulShutdown(srv *httpserver.Server, keepAlive *broadcast.KeepAlive, manager *broadcast.Manager, stopSampler context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		keepAlive.Stop()
		stopSampler()
		manager.DisconnectAll()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	manager := broadcast.NewManager(clock, cfg.MaxConnections)

	keepAlive := broadcast.NewKeepAlive(manager, clock, cfg.KeepAliveInterval, cfg.KeepAliveRetryDelay)
	keepAlive.Start()

	stats := state.NewStats(clock, manager.Count)
	monitor := state.NewMonitor(state.Rule{
		Name:      "connection_capacity",
		Field:     "connections",
		Op:        state.Above,
		Threshold: 0.9 * float64(cfg.MaxConnections),
		Severity:  "warning",
	})
	sampler := state.NewSampler(stats, manager, monitor, clock, cfg.SampleInterval)

	samplerCtx, stopSampler := context.WithCancel(context.Background())
	go sampler.Run(samplerCtx)

	healthChecks := []httpserver.HealthCheck{
		registryHealthCheck(manager, cfg.MaxConnections),
	}
	srv := httpserver.NewServer(cfg, manager, clock, healthChecks)

	done := runGracefulShutdown(srv, keepAlive, manager, stopSampler)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
