package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCooldown = time.Minute

// Cooldown admits one action per key per window, backed by Redis.
// Key format: cooldown:<key>
type Cooldown struct {
	client *redis.Client
	window time.Duration
}

// NewCooldown creates a Cooldown wrapping the given Redis client.
func NewCooldown(client *redis.Client, window time.Duration) *Cooldown {
	if window <= 0 {
		window = defaultCooldown
	}
	return &Cooldown{client: client, window: window}
}

// Allow reports whether the action may run now, and starts a new window when
// it may.
func (c *Cooldown) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, "cooldown:"+key, "1", c.window).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown check: %w", err)
	}
	return ok, nil
}
