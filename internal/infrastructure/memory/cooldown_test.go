package memory

import (
	"context"
	"testing"
	"time"
)

func TestCooldown_AllowsOncePerWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewCooldown(time.Minute)
	c.now = func() time.Time { return now }

	if ok, _ := c.Allow(ctx, "otp:a@poing.com"); !ok {
		t.Fatalf("first call should be allowed")
	}
	if ok, _ := c.Allow(ctx, "otp:a@poing.com"); ok {
		t.Fatalf("second call inside window should be refused")
	}
	if ok, _ := c.Allow(ctx, "otp:b@poing.com"); !ok {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Minute)
	if ok, _ := c.Allow(ctx, "otp:a@poing.com"); !ok {
		t.Fatalf("call after window should be allowed")
	}
}
