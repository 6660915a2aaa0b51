package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected a ping failure")
	}
}

func TestSessionArea_WriteRead(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	area := NewSessionArea(client, time.Hour)

	if err := area.Write(ctx, "b1", "tok", []byte(`{"role":"admin"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	token, user, err := area.Read(ctx, "b1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if token != "tok" || string(user) != `{"role":"admin"}` {
		t.Fatalf("unexpected slots %q %q", token, user)
	}
	if ttl := mr.TTL("session:b1"); ttl != time.Hour {
		t.Fatalf("expected 1h expiry, got %s", ttl)
	}
}

func TestSessionArea_WriteReplacesBothSlots(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	area := NewSessionArea(client, time.Hour)

	_ = area.Write(ctx, "b1", "old", []byte(`{"role":"admin"}`))
	if err := area.Write(ctx, "b1", "new", nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	token, user, _ := area.Read(ctx, "b1")
	if token != "new" || user != nil {
		t.Fatalf("stale profile survived the rewrite: %q %q", token, user)
	}
}

func TestSessionArea_MissingKey(t *testing.T) {
	_, client := newTestClient(t)
	area := NewSessionArea(client, 0)

	token, user, err := area.Read(context.Background(), "nobody")
	if err != nil || token != "" || user != nil {
		t.Fatalf("missing key must read as empty, got %q %q %v", token, user, err)
	}
}

func TestSessionArea_RemoveAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	area := NewSessionArea(client, time.Minute)

	_ = area.Write(ctx, "b1", "tok", nil)
	if err := area.Remove(ctx, "b1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if mr.Exists("session:b1") {
		t.Fatalf("key must be gone after remove")
	}

	_ = area.Write(ctx, "b2", "tok", nil)
	mr.FastForward(time.Minute + time.Second)
	if token, _, _ := area.Read(ctx, "b2"); token != "" {
		t.Fatalf("session must expire")
	}
}

func TestSessionArea_ServerDown(t *testing.T) {
	mr, client := newTestClient(t)
	area := NewSessionArea(client, time.Hour)
	mr.Close()

	if _, _, err := area.Read(context.Background(), "b1"); err == nil {
		t.Fatalf("expected read error")
	}
	if err := area.Write(context.Background(), "b1", "t", nil); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestCooldown(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	c := NewCooldown(client, time.Minute)

	if ok, err := c.Allow(ctx, "otp:a@poing.com"); err != nil || !ok {
		t.Fatalf("first call should be allowed, got %v %v", ok, err)
	}
	if ok, _ := c.Allow(ctx, "otp:a@poing.com"); ok {
		t.Fatalf("second call inside window should be refused")
	}
	if ok, _ := c.Allow(ctx, "otp:b@poing.com"); !ok {
		t.Fatalf("other keys are independent")
	}

	mr.FastForward(time.Minute)
	if ok, _ := c.Allow(ctx, "otp:a@poing.com"); !ok {
		t.Fatalf("call after window should be allowed")
	}

	mr.Close()
	if _, err := c.Allow(ctx, "otp:c@poing.com"); err == nil {
		t.Fatalf("expected an error with the server down")
	}
}
