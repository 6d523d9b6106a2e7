package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the driver. "postgres" uses the Host..SSLMode
// fields; "sqlite3" uses Path.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AdminConfig is the account seeded into an empty users table.
type AdminConfig struct {
	Email    string
	Username string
	Password string
}

// SessionConfig is the idle policy published to the portal. The server
// does not enforce it.
type SessionConfig struct {
	IdleTimeout time.Duration
	IdleWarning time.Duration
}

type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

// CacheConfig enables the Redis dashboard cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsTTL      time.Duration
}

// Load reads configuration from the environment. JWT_SECRET is required
// unless APP_ENV is "development".
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("APP_PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite3"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "vwds"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Path:     getEnv("DB_PATH", "vwds.db"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@vwds.local"),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Session: SessionConfig{
			IdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			IdleWarning: getEnvAsDuration("SESSION_IDLE_WARNING", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: getEnvAsInt("LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:     getEnvAsInt("LOGIN_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			StatsTTL:      getEnvAsDuration("STATS_CACHE_TTL", 30*time.Second),
		},
	}

	if cfg.JWT.Secret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.Server.Env)
		}
		cfg.JWT.Secret = devJWTSecret
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", cfg.Database.Driver)
	}
	if cfg.JWT.Expiration <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if cfg.Session.IdleWarning >= cfg.Session.IdleTimeout {
		return nil, fmt.Errorf("SESSION_IDLE_WARNING must be shorter than SESSION_IDLE_TIMEOUT")
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// UsesDevSecret reports whether the built-in development secret is in use.
func (c *Config) UsesDevSecret() bool {
	return c.JWT.Secret == devJWTSecret
}

// DSN returns the driver-specific data source name.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
	sep := "?"
	if strings.Contains(d.Path, "?") {
		sep = "&"
	}
	return "file:" + d.Path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// String masks secrets.
func (c *Config) String() string {
	db := c.Database.Path
	if c.Database.Driver == "postgres" {
		db = fmt.Sprintf("%s@%s:%s/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	}
	return fmt.Sprintf("Config{Env: %s, Port: %s, DB: %s %s, JWT: *** (ttl %s), Redis: %q}",
		c.Server.Env, c.Server.Port, c.Database.Driver, db, c.JWT.Expiration, c.Cache.RedisAddr)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
