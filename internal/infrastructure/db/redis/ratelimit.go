package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowCounter is the subset of *redis.Client the limiter uses.
type windowCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter counts requests per key in fixed windows.
// Key format: ratelimit:<key>:<window_start_unix>
type RateLimiter struct {
	client windowCounter
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// Allow records one hit for key and reports whether it is within limit for
// the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	k := l.key(key, window)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	// The key embeds the window start, so the first hit owns the expiry.
	if n == 1 {
		if err := l.client.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(limit), nil
}

func (l *RateLimiter) key(key string, window time.Duration) string {
	start := l.now().Truncate(window).Unix()
	return fmt.Sprintf("ratelimit:%s:%d", key, start)
}
