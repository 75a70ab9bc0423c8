package postgres

import (
	"fmt"
	"time"
)

// Config holds PostgreSQL connection settings for the driver.
// Prefer providing a DSN via ConnString. When empty, a DSN will be
// synthesized from the individual fields.
type Config struct {
	ConnString     string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	AutoMigrate    bool
	MaxConns       int
	MinConns       int
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// dsn returns the connection string, synthesizing one from the individual
// fields when ConnString is empty.
func dsn(cfg *Config) string {
	if cfg.ConnString != "" {
		return cfg.ConnString
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode,
	)
}
