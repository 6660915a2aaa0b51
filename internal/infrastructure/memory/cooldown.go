package memory

import (
	"context"
	"sync"
	"time"
)

// Cooldown implements ports.Throttle in memory.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	until  map[string]time.Time
	now    func() time.Time
}

func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = time.Minute
	}
	return &Cooldown{window: window, until: make(map[string]time.Time), now: time.Now}
}

func (c *Cooldown) Allow(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if t, ok := c.until[key]; ok && now.Before(t) {
		return false, nil
	}
	c.until[key] = now.Add(c.window)

	for k, t := range c.until {
		if !now.Before(t) {
			delete(c.until, k)
		}
	}
	return true, nil
}
