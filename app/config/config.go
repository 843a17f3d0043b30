package config

import (
	"fmt"
	"os"
)

// Config holds all server configuration, loaded from environment variables.
// A .env file in the working directory is honored when present (see main).
type Config struct {
	HTTPAddr string
	Database DatabaseConfig
	MDNS     bool
}

// DatabaseConfig holds database connection settings. Driver is "postgres"
// or "sqlite"; sqlite uses Path, postgres uses the remaining fields unless
// DATABASE_URL overrides everything.
type DatabaseConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// Load reads configuration from the environment, applying development
// defaults for anything unset.
func Load() *Config {
	cfg := &Config{
		HTTPAddr: ":" + envOr("PORT", "3333"),
		MDNS:     envOr("MDNS_ENABLED", "true") == "true",
		Database: DatabaseConfig{
			Driver:   envOr("DB_DRIVER", "postgres"),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "postgres"),
			Password: envOr("DB_PASSWORD", "postgres"),
			Name:     envOr("DB_NAME", "posserver"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
			Path:     envOr("DB_PATH", "posserver.db"),
		},
	}
	return cfg
}

// DSN builds the connection string for the postgres driver.
// DATABASE_URL takes priority over the individual variables.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
