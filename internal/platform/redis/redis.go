package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"twitch-giveaway-backend/internal/common/config"
)

// Client wraps the go-redis client backing the profile store.
type Client struct {
	*redis.Client
}

// Open creates a client from the orchestrator config and pings it.
func Open(ctx context.Context, cfg *config.OrchestratorConfig) (*Client, error) {
	addr := cfg.RedisAddr()
	if cfg.Redis.Host == "" {
		return nil, fmt.Errorf("empty redis addr")
	}

	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Client{Client: c}, nil
}

// Ready pings the server; used by the /ready endpoint.
func (c *Client) Ready(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
