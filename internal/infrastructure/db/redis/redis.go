// Package redis backs the auth rate limiter and the logout revocation list.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int
	// OpTimeout bounds each read and write; zero keeps the client defaults.
	OpTimeout time.Duration
}

func (c Config) options() *redis.Options {
	opts := &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
	if c.OpTimeout > 0 {
		opts.ReadTimeout = c.OpTimeout
		opts.WriteTimeout = c.OpTimeout
	}
	return opts
}

// Connect returns a client only after the server answered a ping, so callers
// can fall back to in-process behaviour on error.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
