package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultSessionTTL = 7 * 24 * time.Hour

	fieldToken = "token"
	fieldUser  = "user"
)

// SessionArea stores each browser's session as a hash with a token field and
// a user field. Key format: session:<browser_id>
type SessionArea struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionArea creates a SessionArea. Keys expire ttl after the last write.
func NewSessionArea(client *redis.Client, ttl time.Duration) *SessionArea {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionArea{client: client, ttl: ttl}
}

func (a *SessionArea) Read(ctx context.Context, browserID string) (string, []byte, error) {
	vals, err := a.client.HMGet(ctx, a.key(browserID), fieldToken, fieldUser).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", nil, fmt.Errorf("session read: %w", err)
	}

	var token string
	var user []byte
	if len(vals) == 2 {
		if s, ok := vals[0].(string); ok {
			token = s
		}
		if s, ok := vals[1].(string); ok && s != "" {
			user = []byte(s)
		}
	}
	return token, user, nil
}

// Write replaces both fields and refreshes the expiry in one transaction.
func (a *SessionArea) Write(ctx context.Context, browserID, token string, rawUser []byte) error {
	key := a.key(browserID)
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldToken, token, fieldUser, string(rawUser))
		pipe.Expire(ctx, key, a.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

func (a *SessionArea) Remove(ctx context.Context, browserID string) error {
	if err := a.client.Del(ctx, a.key(browserID)).Err(); err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

func (a *SessionArea) key(browserID string) string {
	return "session:" + browserID
}
