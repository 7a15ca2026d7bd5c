package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are process-wide settings read from the environment
type Settings struct {
	Dir              string        `env:"CALYPSO_DIR"`
	TemplatesFile    string        `env:"CALYPSO_TEMPLATES" envDefault:"templates.yaml"`
	TracksURL        string        `env:"CALYPSO_TRACKS_URL"`
	TracksSecret     string        `env:"CALYPSO_TRACKS_SECRET"`
	AssetConcurrency int           `env:"CALYPSO_ASSET_CONCURRENCY" envDefault:"4"`
	AssetTimeout     time.Duration `env:"CALYPSO_ASSET_TIMEOUT" envDefault:"0s"`
	FetchTimeout     time.Duration `env:"CALYPSO_FETCH_TIMEOUT" envDefault:"30s"`
	LogLevel         string        `env:"CALYPSO_LOG_LEVEL" envDefault:"warn"`
}

// LoadSettings parses Settings from the environment
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if s.AssetConcurrency < 1 {
		return nil, &ValidationError{Field: "CALYPSO_ASSET_CONCURRENCY", Reason: "must be at least 1"}
	}
	return &s, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to warn
func (s *Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
