package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Database configuration
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Redis configuration (dashboard cache)
	RedisURL      string `envconfig:"REDIS_URL" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	// AMQP configuration (mutation event feed; disabled when empty)
	AMQPURL      string `envconfig:"AMQP_URL" default:""`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"walletbook.events"`

	// JWT configuration
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Wallet deletion policy: when true, deleting a wallet soft-deletes its
	// remaining expenses first instead of refusing.
	WalletDeleteCascade bool `envconfig:"WALLET_DELETE_CASCADE" default:"false"`

	// CORS
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// Load loads configuration from the environment, reading a .env file first
// when one is present (development convenience; real environments set vars
// directly).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
