package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter for expensive operations, shared
// across replicas through Redis. Used to bound remote function invocations.
type RateLimiter struct {
	client *redis.Client
	key    string
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit calls per window for the
// given key.
func NewRateLimiter(client *redis.Client, key string, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		client: client,
		key:    "outreach:ratelimit:" + key,
		limit:  int64(limit),
		window: window,
	}
}

// Allow consumes one slot in the current window. Returns false when the
// window's budget is exhausted.
func (rl *RateLimiter) Allow(ctx context.Context) (bool, error) {
	windowKey := fmt.Sprintf("%s:%d", rl.key, time.Now().Unix()/int64(rl.window.Seconds()))

	pipe := rl.client.Pipeline()
	countCmd := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, rl.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	return countCmd.Val() <= rl.limit, nil
}
