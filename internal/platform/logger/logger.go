package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/flashlists/internal/config"
)

// Setup initializes the application's logger from the server configuration
// and installs it as the slog default. An unknown level falls back to info
// with a warning.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return New(cfg.LogLevel, os.Stdout), nil
}

// New builds a redacting JSON logger writing to out and sets it as default.
func New(level string, out io.Writer) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}

	handler := NewRedactingHandler(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}))
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// It returns info and false for unknown names.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
