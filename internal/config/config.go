package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	Mail        MailConfig        `mapstructure:"mail"`
	Workers     WorkersConfig     `mapstructure:"workers" validate:"required"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance" validate:"required"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicURL prefixes the links sent in verification and reset emails.
	PublicURL string `mapstructure:"public_url" validate:"required,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                  string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes       int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	VerifyTokenLifetimeMinutes int    `mapstructure:"verify_token_lifetime_minutes" validate:"required,gt=0"`
	ResetTokenLifetimeMinutes  int    `mapstructure:"reset_token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost                 int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// MailConfig configures outgoing email. When Enabled is false mails are only logged.
type MailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port        int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address" validate:"required_if=Enabled true"`
	FromName    string `mapstructure:"from_name"`
}

// WorkersConfig sizes the background task pool.
type WorkersConfig struct {
	Count     int `mapstructure:"count" validate:"required,gt=0"`
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// MaintenanceConfig controls the periodic purge of unverified accounts.
type MaintenanceConfig struct {
	UnverifiedMaxAgeHours int    `mapstructure:"unverified_max_age_hours" validate:"required,gt=0"`
	PurgeSchedule         string `mapstructure:"purge_schedule" validate:"required"`
}

// RateLimitConfig configures the token bucket in front of the auth endpoints.
type RateLimitConfig struct {
	AuthCapacity        int64 `mapstructure:"auth_capacity" validate:"required,gt=0"`
	AuthRefillPerSecond int64 `mapstructure:"auth_refill_per_second" validate:"required,gt=0"`
}

// TokenLifetime returns the access token lifetime.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMinutes) * time.Minute
}

// VerifyTokenLifetime returns the lifetime of email verification tokens.
func (a AuthConfig) VerifyTokenLifetime() time.Duration {
	return time.Duration(a.VerifyTokenLifetimeMinutes) * time.Minute
}

// ResetTokenLifetime returns the lifetime of password reset tokens.
func (a AuthConfig) ResetTokenLifetime() time.Duration {
	return time.Duration(a.ResetTokenLifetimeMinutes) * time.Minute
}

// UnverifiedMaxAge returns how long an unverified account is kept.
func (m MaintenanceConfig) UnverifiedMaxAge() time.Duration {
	return time.Duration(m.UnverifiedMaxAgeHours) * time.Hour
}
