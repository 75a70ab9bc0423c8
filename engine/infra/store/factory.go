package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/contact"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/infra/postgres"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/engine/infra/redis"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/config"
	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/logger"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

// DefaultDriver is used when no backend is selected or the selection is not
// recognized.
const DefaultDriver = DriverPostgres

// ResolveDriver picks the backend for a new store. An explicit selector wins
// over configuration, which wins over the default. Matching is
// case-insensitive and ignores surrounding whitespace. An unrecognized value
// never fails resolution: it logs a warning and falls back to the default so
// a misconfigured deployment still comes up on a working backend.
func ResolveDriver(ctx context.Context, explicit string, cfg *config.Config) Driver {
	selector := explicit
	if strings.TrimSpace(selector) == "" && cfg != nil {
		selector = cfg.Store.Driver
	}
	normalized := strings.ToLower(strings.TrimSpace(selector))
	switch normalized {
	case "":
		return DefaultDriver
	case string(DriverPostgres):
		return DriverPostgres
	case string(DriverRedis):
		return DriverRedis
	default:
		logger.FromContext(ctx).Warn(
			"unknown store driver, falling back to default",
			"driver", selector,
			"default", string(DefaultDriver),
		)
		return DefaultDriver
	}
}

// New builds a contact store for the resolved driver. The returned store owns
// its backend connection; callers release it with Close.
func New(ctx context.Context, explicit string, cfg *config.Config) (contact.Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	driver := ResolveDriver(ctx, explicit, cfg)
	logger.FromContext(ctx).Debug("creating contact store", "driver", string(driver))
	switch driver {
	case DriverRedis:
		store, err := redis.NewContactStore(ctx, redisConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("creating redis contact store: %w", err)
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.NewContactStore(ctx, postgresConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("creating postgres contact store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

func postgresConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		ConnString:     cfg.DB.ConnString,
		Host:           cfg.DB.Host,
		Port:           cfg.DB.Port,
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		DBName:         cfg.DB.Name,
		SSLMode:        cfg.DB.SSLMode,
		AutoMigrate:    cfg.DB.AutoMigrate,
		MaxConns:       cfg.DB.MaxConns,
		MinConns:       cfg.DB.MinConns,
		ConnectTimeout: cfg.DB.ConnectTimeout,
	}
}

func redisConfig(cfg *config.Config) *redis.Config {
	return &redis.Config{
		URL:          cfg.Redis.URL,
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PingTimeout:  cfg.Redis.PingTimeout,
	}
}
