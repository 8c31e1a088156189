// Package redis wraps the go-redis client with configuration and health
// checking for the deposit reference store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"treasury/internal/platform/config"
)

// Client is a go-redis client verified reachable at construction.
type Client struct {
	*redis.Client
}

// New dials redis using the URL and pool settings from cfg and pings it
// before handing the client out. An empty URL means redis is not configured
// and New returns (nil, nil); callers fall back to the in-memory reference
// store in that case.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
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

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers pings. Wired into the
// HTTP health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
