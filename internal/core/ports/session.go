package ports

import "context"

// SessionArea is the per-browser key-value area holding the token slot and
// the user-profile slot. Both slots are written and removed together.
type SessionArea interface {
	// Read returns the stored token and raw profile. Missing slots come back
	// empty without an error.
	Read(ctx context.Context, browserID string) (token string, rawUser []byte, err error)
	Write(ctx context.Context, browserID, token string, rawUser []byte) error
	Remove(ctx context.Context, browserID string) error
}

// Throttle admits one action per key per cooldown window.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
