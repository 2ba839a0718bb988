package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FLASHLISTS_SERVER_PORT.
const EnvPrefix = "FLASHLISTS"

var defaults = map[string]any{
	"server.port":                          8080,
	"server.log_level":                     "info",
	"server.public_url":                    "http://localhost:8080",
	"auth.token_lifetime_minutes":          60 * 24 * 7,
	"auth.verify_token_lifetime_minutes":   60 * 24,
	"auth.reset_token_lifetime_minutes":    60,
	"auth.bcrypt_cost":                     10,
	"mail.enabled":                         false,
	"mail.port":                            587,
	"mail.from_name":                       "Flashlists",
	"workers.count":                        2,
	"workers.queue_size":                   100,
	"maintenance.unverified_max_age_hours": 72,
	"maintenance.purge_schedule":           "@every 1h",
	"ratelimit.auth_capacity":              20,
	"ratelimit.auth_refill_per_second":     1,
}

// keys without a default still need binding so AutomaticEnv reaches Unmarshal
var envOnlyKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"mail.host",
	"mail.username",
	"mail.password",
	"mail.from_address",
}

// Load configuration from environment variables and optionally config files.
// A config.yaml in the working directory or ./config is read when present.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is like Load but reads the given YAML file instead of searching
// the default locations. An empty path searches the default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
