// Package httpserver exposes the dashboard-facing HTTP surface: the
// WebSocket upgrade endpoint, health probes, stats, version, and metrics.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	wsadapter "github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/adapter/websocket"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/broadcast"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/platform/config"
)

type Server struct {
	echo    *echo.Echo
	config  *config.Config
	manager *broadcast.Manager
	clock   clockwork.Clock

	limiter  *ConnectionRateLimiter
	upgrader gws.Upgrader

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, manager *broadcast.Manager, clock clockwork.Clock, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:    e,
		config:  cfg,
		manager: manager,
		clock:   clock,
		limiter: NewConnectionRateLimiter(cfg.ConnectionsPerSecond, cfg.ConnectionBurst),
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     wsadapter.NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment()),
		},
		healthChecks: healthChecks,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
