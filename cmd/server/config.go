package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashlists/internal/config"
	"github.com/phrazzld/flashlists/internal/platform/logger"
)

// loadConfig reads configuration from path (or the default locations when
// path is empty) and installs the configured logger as the slog default.
func loadConfig(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("mail_enabled", cfg.Mail.Enabled),
		slog.Int("workers", cfg.Workers.Count))
	log.Debug("auth configuration",
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""),
		slog.Int("bcrypt_cost", cfg.Auth.BCryptCost))

	return cfg, log, nil
}
