package config

import "time"

// Config is the process-wide configuration snapshot. It is loaded once and
// injected into components; nothing below this package reads the environment
// directly.
type Config struct {
	Store StoreConfig    `koanf:"store"`
	DB    DatabaseConfig `koanf:"db"`
	Redis RedisConfig    `koanf:"redis"`
	Log   LogConfig      `koanf:"log"`
}

// StoreConfig selects the storage backend. Driver is deliberately not
// validated here: an unrecognized value degrades to the default backend at
// resolution time instead of failing the load.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// DatabaseConfig holds PostgreSQL connection settings. Prefer providing a
// DSN via ConnString; when empty, a DSN is synthesized from the individual
// fields.
type DatabaseConfig struct {
	ConnString     string        `koanf:"conn_string"`
	Host           string        `koanf:"host"`
	Port           string        `koanf:"port"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	SSLMode        string        `koanf:"ssl_mode"        validate:"omitempty,oneof=disable require verify-ca verify-full"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
	MaxConns       int           `koanf:"max_conns"       validate:"gte=0"`
	MinConns       int           `koanf:"min_conns"       validate:"gte=0"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RedisConfig holds Redis connection settings. URL takes precedence over the
// individual fields when set.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	Host         string        `koanf:"host"`
	Port         string        `koanf:"port"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"            validate:"gte=0"`
	PoolSize     int           `koanf:"pool_size"     validate:"gte=0"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PingTimeout  time.Duration `koanf:"ping_timeout"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration defaults. Environment values
// are layered on top by Load.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "",
		},
		DB: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Name:           "acmecrm",
			SSLMode:        "disable",
			MaxConns:       20,
			ConnectTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Host:        "localhost",
			Port:        "6379",
			DB:          0,
			PoolSize:    10,
			DialTimeout: 5 * time.Second,
			PingTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
