// Package memory provides process-local stand-ins for the Redis stores, used
// when SESSION_BACKEND=memory and in tests.
package memory

import (
	"context"
	"slices"
	"sync"
)

type slots struct {
	token string
	user  []byte
}

// SessionArea implements ports.SessionArea with a guarded map.
type SessionArea struct {
	mu        sync.RWMutex
	byBrowser map[string]slots
}

func NewSessionArea() *SessionArea {
	return &SessionArea{byBrowser: make(map[string]slots)}
}

func (a *SessionArea) Read(_ context.Context, browserID string) (string, []byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.byBrowser[browserID]
	return s.token, slices.Clone(s.user), nil
}

func (a *SessionArea) Write(_ context.Context, browserID, token string, rawUser []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byBrowser[browserID] = slots{token: token, user: slices.Clone(rawUser)}
	return nil
}

func (a *SessionArea) Remove(_ context.Context, browserID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.byBrowser, browserID)
	return nil
}

// Put stores raw slot contents as given.
func (a *SessionArea) Put(browserID, token string, rawUser []byte) {
	_ = a.Write(context.Background(), browserID, token, rawUser)
}
