package ports

import (
	"context"

	"github.com/poing/admin-console/internal/core/domain"
)

// AuthGateway covers the backend's public authentication endpoints.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// DashboardGateway returns the raw dashboard aggregates.
type DashboardGateway interface {
	Stats(ctx context.Context, token string) (*domain.DashboardStats, error)
}

// AccountGateway manages marketplace accounts.
type AccountGateway interface {
	ListAccounts(ctx context.Context, token string) ([]domain.Account, error)
	CreateAccount(ctx context.Context, token, email, password string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, token, id string, p domain.AccountProfile) (*domain.Account, error)
	BlockAccount(ctx context.Context, token, id string) error
	SuspendAccount(ctx context.Context, token, id string, days int) error
}

// ReportGateway manages user reports.
type ReportGateway interface {
	ListReports(ctx context.Context, token string) ([]domain.Report, error)
	UpdateReportStatus(ctx context.Context, token, id string, status domain.ReportStatus) error
}

// InboxGateway reads and sends customer-service email. ListMessages returns
// the undecoded body because the backend has used more than one envelope.
type InboxGateway interface {
	ListMessages(ctx context.Context, token string, page, limit int) ([]byte, error)
	Reply(ctx context.Context, token string, mail domain.OutgoingEmail) error
	Send(ctx context.Context, token string, mail domain.OutgoingEmail) error
}

// CategoryGateway manages listing categories.
type CategoryGateway interface {
	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token string, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token, id string, u domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
}

// LegalGateway reads and publishes legal documents.
type LegalGateway interface {
	GetLegal(ctx context.Context, token string, kind domain.LegalKind) (*domain.LegalDocument, error)
	UpdateLegal(ctx context.Context, token string, kind domain.LegalKind, content string) (*domain.LegalDocument, error)
}

// Backend is the full set of endpoints the console consumes.
type Backend interface {
	AuthGateway
	DashboardGateway
	AccountGateway
	ReportGateway
	InboxGateway
	CategoryGateway
	LegalGateway
	Ping(ctx context.Context) error
}

// AuditRecorder persists staff actions.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}
