package server

import (
	"log/slog"
	"os"

	"github.com/fittogether/fittogether/internal/config"
)

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
