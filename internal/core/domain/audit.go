package domain

import "time"

// AuditAction names a staff action recorded in the audit trail.
type AuditAction string

const (
	AuditSignIn         AuditAction = "sign_in"
	AuditSignOut        AuditAction = "sign_out"
	AuditAccountCreate  AuditAction = "account_create"
	AuditAccountUpdate  AuditAction = "account_update"
	AuditAccountBlock   AuditAction = "account_block"
	AuditAccountSuspend AuditAction = "account_suspend"
	AuditReportStatus   AuditAction = "report_status"
	AuditInboxSend      AuditAction = "inbox_send"
	AuditCategoryCreate AuditAction = "category_create"
	AuditCategoryUpdate AuditAction = "category_update"
	AuditCategoryDelete AuditAction = "category_delete"
	AuditLegalPublish   AuditAction = "legal_publish"
)

// AuditEntry records who did what to which resource.
type AuditEntry struct {
	ID        string            `json:"id" bson:"_id"`
	Action    AuditAction       `json:"action" bson:"action"`
	ActorID   string            `json:"actor_id" bson:"actor_id"`
	ActorRole Role              `json:"actor_role" bson:"actor_role"`
	Target    string            `json:"target,omitempty" bson:"target,omitempty"`
	Details   map[string]string `json:"details,omitempty" bson:"details,omitempty"`
	At        time.Time         `json:"at" bson:"at"`
}
