// Package config loads and validates the service configuration from the
// environment, with optional .env support for local development.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	AppURL    string `env:"APP_URL" default:"http://localhost:8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	KeepAliveInterval   time.Duration `env:"KEEPALIVE_INTERVAL" default:"30s"`
	KeepAliveRetryDelay time.Duration `env:"KEEPALIVE_RETRY_DELAY" default:"5s"`
	SampleInterval      time.Duration `env:"SAMPLE_INTERVAL" default:"5s"`
	WriteTimeout        time.Duration `env:"WRITE_TIMEOUT" default:"5s"`

	MaxConnections       int     `env:"MAX_CONNECTIONS" default:"10000"`
	ConnectionsPerSecond float64 `env:"CONNECTIONS_PER_SECOND" default:"10"`
	ConnectionBurst      int     `env:"CONNECTION_BURST" default:"20"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if cfg.KeepAliveInterval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive, got %v", cfg.KeepAliveInterval)
	}
	if cfg.KeepAliveRetryDelay <= 0 {
		return fmt.Errorf("KEEPALIVE_RETRY_DELAY must be positive, got %v", cfg.KeepAliveRetryDelay)
	}
	if cfg.KeepAliveRetryDelay >= cfg.KeepAliveInterval {
		return fmt.Errorf("KEEPALIVE_RETRY_DELAY (%v) must be shorter than KEEPALIVE_INTERVAL (%v)", cfg.KeepAliveRetryDelay, cfg.KeepAliveInterval)
	}
	if cfg.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive, got %v", cfg.SampleInterval)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.MaxConnections < 1 {
		return fmt.Errorf("MAX_CONNECTIONS must be at least 1, got %d", cfg.MaxConnections)
	}
	if cfg.ConnectionsPerSecond <= 0 {
		return fmt.Errorf("CONNECTIONS_PER_SECOND must be positive, got %v", cfg.ConnectionsPerSecond)
	}
	if cfg.ConnectionBurst < 1 {
		return fmt.Errorf("CONNECTION_BURST must be at least 1, got %d", cfg.ConnectionBurst)
	}
	return nil
}
