package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	AdminToken string `env:"ADMIN_TOKEN"`
	DBURL      string `env:"DB_URL"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"cinevibe"`
	JWTDuration time.Duration `env:"JWT_DURATION" envDefault:"24h"`

	MediaDir      string `env:"MEDIA_DIR" envDefault:"./media"`
	MediaMaxBytes int64  `env:"MEDIA_MAX_BYTES" envDefault:"5242880"`

	ReadTimeoutSecs  int `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs int `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs  int `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`

	DBMaxConns        int `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns        int `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxIdleSecs     int `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs     int `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs int `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTDuration <= 0 {
		return Config{}, fmt.Errorf("JWT_DURATION must be positive")
	}
	if cfg.MediaMaxBytes <= 0 {
		return Config{}, fmt.Errorf("MEDIA_MAX_BYTES must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	return cfg, nil
}
