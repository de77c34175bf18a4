package httpserver

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	wsadapter "github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/adapter/websocket"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/broadcast"
	apperrors "github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/errors"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/metrics"
	"github.com/Aurigraph-DLT-Corp/Aurigraph-Developer-Toolkit-and-SDK-sub003/internal/platform/logging"
)

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()
	if !s.limiter.Allow(ip) {
		metrics.WebSocketRejectionsTotal.WithLabelValues("rate_limit").Inc()
		return apperrors.RateLimitedError("too many connection attempts").WithField("ip", ip)
	}

	var wc *wsadapter.Conn
	_, err := s.manager.Connect(func() (broadcast.Conn, error) {
		var acceptErr error
		wc, acceptErr = wsadapter.Accept(&s.upgrader, c.Response(), c.Request(), s.clock, s.config.WriteTimeout)
		if acceptErr != nil {
			return nil, acceptErr
		}
		return wc, nil
	})

	var hsErr *broadcast.HandshakeError
	switch {
	case errors.As(err, &hsErr):
		// Upgrade already wrote the handshake error response.
		metrics.WebSocketRejectionsTotal.WithLabelValues("handshake").Inc()
		return nil
	case errors.Is(err, broadcast.ErrRegistryFull):
		// The socket is already upgraded; the registry closed it. Nothing
		// left to write on this response.
		metrics.WebSocketRejectionsTotal.WithLabelValues("capacity").Inc()
		return nil
	case err != nil:
		return apperrors.InternalError("failed to accept connection", err)
	}

	metrics.WebSocketConnectionsTotal.Inc()
	ctx := logging.WithConnID(c.Request().Context(), wc.ID())
	slog.InfoContext(ctx, "Dashboard client connected", "remote_addr", ip)

	// Read pump — blocks until the client goes away.
	wc.ReadUntilClose()

	s.manager.Disconnect(wc)
	_ = wc.Close()
	slog.InfoContext(ctx, "Dashboard client disconnected")
	return nil
}

func (s *Server) handleStats(c echo.Context) error {
	stats := map[string]any{
		"connections":    s.manager.Count(),
		"uptime_seconds": s.clock.Since(s.startTime).Seconds(),
	}
	return c.JSON(200, stats)
}
