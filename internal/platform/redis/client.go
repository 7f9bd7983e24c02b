// Package redis builds the go-redis client the grant projection writes to.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"verifi/internal/platform/config"
)

// Client wraps the go-redis client so callers get a liveness probe without
// importing the driver.
type Client struct {
	*redis.Client
}

// New dials Redis from the projection cache configuration and verifies the
// connection before handing the client out. An empty URL means the cache is
// disabled; callers get (nil, nil) and must skip the projection worker.
func New(cfg config.RedisConfig) (*Client, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
