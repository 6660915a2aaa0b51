package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/ids"
)

const auditCollection = "console_audit"

// AuditRepository implements ports.AuditRecorder using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Record appends an entry to the console_audit collection. Entries are keyed
// by a ULID so _id order follows time order.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	entry.At = entry.At.UTC()
	if entry.ID == "" {
		entry.ID = ids.At(entry.At)
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// NopAuditRecorder discards every entry.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Record(context.Context, domain.AuditEntry) error { return nil }
