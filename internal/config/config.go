package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Cart snapshot storage backends.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Cart   CartConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds configuration of the catalog database.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"restaurant_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// RedisConfig holds configuration of the cart snapshot cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CartConfig holds cart persistence configuration.
type CartConfig struct {
	Storage     string `envconfig:"CART_STORAGE" default:"redis"` // "redis" or "memory"
	KeyPrefix   string `envconfig:"CART_KEY_PREFIX" default:"cart:"`
	SnapshotTTL int    `envconfig:"CART_SNAPSHOT_TTL" default:"604800"` // seconds, 0 keeps snapshots forever
	SessionIdle int    `envconfig:"CART_SESSION_IDLE" default:"1800"`   // seconds, 0 keeps sessions in memory forever
}

// TTL returns the snapshot TTL as a duration.
func (c CartConfig) TTL() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Second
}

// IdleTimeout returns how long an unused session stays in memory.
func (c CartConfig) IdleTimeout() time.Duration {
	return time.Duration(c.SessionIdle) * time.Second
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.Cart.Storage {
	case StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid CART_STORAGE %q: must be %q or %q", cfg.Cart.Storage, StorageRedis, StorageMemory)
	}
	if cfg.Cart.SnapshotTTL < 0 {
		return nil, fmt.Errorf("invalid CART_SNAPSHOT_TTL %d: must not be negative", cfg.Cart.SnapshotTTL)
	}
	if cfg.Cart.SessionIdle < 0 {
		return nil, fmt.Errorf("invalid CART_SESSION_IDLE %d: must not be negative", cfg.Cart.SessionIdle)
	}
	return &cfg, nil
}
