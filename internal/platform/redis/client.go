package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"eventreg/internal/platform/config"
)

// Client is the shared connection used by the registration cache and the
// rate limiter.
type Client struct {
	*redis.Client
}

// Open connects to cfg.URL and verifies the connection within DialTimeout.
// A blank URL means Redis is not configured and yields (nil, nil).
func Open(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	c := &Client{Client: redis.NewClient(opts)}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := c.Health(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Health pings the server; it backs the /health check.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		stats := c.PoolStats()
		return fmt.Errorf("redis ping (pool total=%d idle=%d): %w", stats.TotalConns, stats.IdleConns, err)
	}
	return nil
}
