// Package session persists the per-browser (token, user) pair and restores it
// on every request.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

// Store reads and writes sessions through a SessionArea.
type Store struct {
	area ports.SessionArea
	log  zerolog.Logger
}

func NewStore(area ports.SessionArea, log zerolog.Logger) *Store {
	return &Store{area: area, log: log}
}

// Load restores the session of a browser. It never fails: an unreadable area
// yields an empty session, and an undecodable profile yields the token alone.
func (s *Store) Load(ctx context.Context, browserID string) domain.Session {
	if browserID == "" {
		return domain.Session{}
	}

	token, raw, err := s.area.Read(ctx, browserID)
	if err != nil {
		metrics.SessionStoreErrorsTotal.WithLabelValues("read").Inc()
		s.log.Error().Err(err).Str("browser", browserID).Msg("session area read failed")
		return domain.Session{}
	}

	if len(raw) == 0 {
		return domain.Session{Token: token}
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		metrics.SessionParseFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("browser", browserID).Msg("stored user profile is malformed")
		return domain.Session{Token: token}
	}

	return domain.Session{Token: token, User: &user}
}

// Save writes token and user as a single unit. Neither is validated.
func (s *Store) Save(ctx context.Context, browserID, token string, user *domain.User) error {
	var raw []byte
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		raw = b
	}

	if err := s.area.Write(ctx, browserID, token, raw); err != nil {
		metrics.SessionStoreErrorsTotal.WithLabelValues("write").Inc()
		return fmt.Errorf("%w: %w", domain.ErrSessionNotPersisted, err)
	}
	return nil
}

// Clear removes both slots of a browser.
func (s *Store) Clear(ctx context.Context, browserID string) error {
	if err := s.area.Remove(ctx, browserID); err != nil {
		metrics.SessionStoreErrorsTotal.WithLabelValues("remove").Inc()
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
