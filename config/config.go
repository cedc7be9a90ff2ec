// Package config loads client settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client configuration loaded from environment variables.
type Config struct {
	APIURL         string        `env:"BOOKVERSE_API_URL" envDefault:"http://localhost:8001/api"`
	DBPath         string        `env:"BOOKVERSE_DB_PATH"` // defaults to ~/.bookverse/session.db
	LogLevel       string        `env:"BOOKVERSE_LOG_LEVEL" envDefault:"warn"`
	RequestTimeout time.Duration `env:"BOOKVERSE_REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables and fills in derived defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("BOOKVERSE_REQUEST_TIMEOUT must not be negative, got %s", cfg.RequestTimeout)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultDBPath is the session database under the user's home directory, or
// the working directory when there is no home.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookverse.db"
	}
	return filepath.Join(home, ".bookverse", "session.db")
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns a text logger on stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
