package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

// auditor writes audit entries on behalf of the services. A failed write is
// logged and counted but never returned.
type auditor struct {
	rec ports.AuditRecorder
	log zerolog.Logger
}

func (a auditor) record(ctx context.Context, s domain.Session, action domain.AuditAction, target string, details map[string]string) {
	if a.rec == nil {
		return
	}
	entry := domain.AuditEntry{
		Action:  action,
		Target:  target,
		Details: details,
		At:      time.Now().UTC(),
	}
	if s.User != nil {
		entry.ActorID = s.User.ID
		entry.ActorRole = s.User.Role
	}
	if err := a.rec.Record(ctx, entry); err != nil {
		metrics.AuditWriteFailuresTotal.WithLabelValues(string(action)).Inc()
		a.log.Warn().Err(err).Str("action", string(action)).Str("target", target).Msg("failed to record audit entry")
	}
}
