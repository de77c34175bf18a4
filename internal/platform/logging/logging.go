// Package logging initializes the application-wide structured logger and
// carries connection identity through context so every log line produced on
// behalf of a client names the connection it belongs to.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type connIDKey struct{}

// WithConnID returns a context carrying the given connection identity.
func WithConnID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, connIDKey{}, id)
}

// ConnID extracts the connection identity from ctx.
func ConnID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(connIDKey{}).(uuid.UUID)
	return id, ok
}

// Init initializes the global logger with the specified level and format.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func Init(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(NewHandler(handler)))
}

// Handler wraps an existing slog.Handler to automatically inject a
// "conn_id" attribute when the context carries a connection identity.
type Handler struct {
	inner slog.Handler
}

// NewHandler creates a connection-aware handler wrapping the given handler.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ConnID(ctx); ok {
		r.AddAttrs(slog.String("conn_id", id.String()))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("logging handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
