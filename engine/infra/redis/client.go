package redis

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Siddartha-Kodaboina/acme-crm-integration-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings for the driver. URL takes
// precedence over the individual fields when set.
type Config struct {
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
}

// Interface defines the minimal Redis surface the contact store needs.
// This allows both the real client and test doubles to be used.
type Interface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	TxPipeline() redis.Pipeliner
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

const fallbackPingTimeout = 10 * time.Second

// Client wraps the go-redis client with connection verification and an
// idempotent close.
type Client struct {
	client redis.UniversalClient
	once   sync.Once // guarantees idempotent, race-free Close
}

// NewClient creates a new Redis client with the provided configuration and
// verifies connectivity before returning.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis: config is required")
	}
	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = fallbackPingTimeout
	}
	if err := pingClient(ctx, client, timeout); err != nil {
		client.Close()
		return nil, err
	}
	logConnection(ctx, cfg)
	return &Client{client: client}, nil
}

// buildClient configures the Redis client from the provided config.
func buildClient(cfg *Config) (redis.UniversalClient, error) {
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		applyConfigToOptions(opt, cfg)
		return redis.NewClient(opt), nil
	}
	opt := &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	applyConfigToOptions(opt, cfg)
	return redis.NewClient(opt), nil
}

// pingClient validates connectivity within the configured timeout.
func pingClient(ctx context.Context, client redis.UniversalClient, timeout time.Duration) error {
	pingCtx, pingCancel := context.WithTimeout(ctx, timeout)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("pinging Redis server (timeout=%s): %w", timeout, err)
	}
	return nil
}

// logConnection emits a diagnostic message after successful connection.
func logConnection(ctx context.Context, cfg *Config) {
	logger.FromContext(ctx).With(
		"store_driver", "redis",
		"host", cfg.Host,
		"port", cfg.Port,
		"db", cfg.DB,
		"pool_size", cfg.PoolSize,
	).Info("Redis connection established")
}

// Close shuts down the Redis connection exactly once. Failures are logged,
// never propagated: Close runs on shutdown paths where an error would mask
// the original shutdown reason.
func (c *Client) Close(ctx context.Context) {
	c.once.Do(func() {
		if err := c.client.Close(); err != nil {
			logger.FromContext(ctx).Error("Redis connection close failed", "error", err)
			return
		}
		logger.FromContext(ctx).Debug("Redis connection closed")
	})
}

// Ping checks if the Redis server is reachable
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	return c.client.Ping(ctx)
}

// Get retrieves a value by key
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	return c.client.Get(ctx, key)
}

// Set stores a key-value pair with optional expiration
func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	return c.client.Set(ctx, key, value, expiration)
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return c.client.Del(ctx, keys...)
}

// TxPipeline returns a transactional pipeline
func (c *Client) TxPipeline() redis.Pipeliner {
	return c.client.TxPipeline()
}

// Watch runs fn inside an optimistic transaction on the given keys.
func (c *Client) Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	return c.client.Watch(ctx, fn, keys...)
}

// applyConfigToOptions applies configuration to Redis options
func applyConfigToOptions(opt *redis.Options, cfg *Config) {
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
}
