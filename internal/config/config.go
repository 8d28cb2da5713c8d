// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN used by the account and session stores.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL is the Redis connection URL for the Redis session store; empty disables it.
	RedisURL string `mapstructure:"REDIS_URL"`
	// TokenSecret is the symmetric secret the token codec signs with (HS256).
	TokenSecret string `mapstructure:"TOKEN_SECRET"`
	// CryptoSecret is the credential cipher key; must be exactly 32 bytes (AES-256).
	CryptoSecret string `mapstructure:"CRYPTO_SECRET"`
	// TokenTTL is the signed token lifetime (e.g. "48h").
	TokenTTL string `mapstructure:"TOKEN_TTL"`
	// SessionFreshness is the window during which an existing session contests a new login (e.g. "30m").
	SessionFreshness string `mapstructure:"SESSION_FRESHNESS"`
	// AppName is the calling application name stamped into issued claims.
	AppName string `mapstructure:"APP_NAME"`
	// OTLPEndpoint is the OTLP gRPC endpoint for metrics; empty means no-op telemetry.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TOKEN_SECRET", "")
	v.SetDefault("CRYPTO_SECRET", "")
	v.SetDefault("TOKEN_TTL", "48h")
	v.SetDefault("SESSION_FRESHNESS", "30m")
	v.SetDefault("APP_NAME", "single-session-auth")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.TokenSecret == "" {
		return nil, errors.New("config: TOKEN_SECRET must be set")
	}
	if len(cfg.CryptoSecret) != 32 {
		return nil, errors.New("config: CRYPTO_SECRET must be exactly 32 bytes")
	}
	if cfg.AppName == "" {
		return nil, errors.New("config: APP_NAME must be set")
	}

	return &cfg, nil
}

// TokenLifetime parses TokenTTL as a time.Duration. Returns 48h if unset or invalid.
func (c *Config) TokenLifetime() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 48 * time.Hour
	}
	return d
}

// FreshnessWindow parses SessionFreshness as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) FreshnessWindow() time.Duration {
	d, err := time.ParseDuration(c.SessionFreshness)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
