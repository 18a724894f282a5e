package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON when LOG_FORMAT=json, text
// otherwise. Source locations are recorded in production only.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: cfg.IsProduction(),
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
