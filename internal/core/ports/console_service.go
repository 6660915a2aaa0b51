package ports

import (
	"context"

	"github.com/poing/admin-console/internal/core/domain"
)

// StatCard is one headline figure on the dashboard.
type StatCard struct {
	Label string
	Value string
}

// CategoryCard is the dashboard view of one category.
type CategoryCard struct {
	Name     string
	Listings string
	Sales    string
}

// CountryShare is a country's listings and its share of all listings.
type CountryShare struct {
	Name     string
	Listings string
	Percent  float64
}

// DashboardOverview is the aggregated dashboard shown to every role.
type DashboardOverview struct {
	Totals          []StatCard
	Categories      []CategoryCard
	TopCountries    []CountryShare
	StorageUsed     string
	StorageCapacity string
	StoragePercent  float64
	Uptime          string
	AvgResponse     string
}

type DashboardService interface {
	Overview(ctx context.Context, s domain.Session) (*DashboardOverview, error)
}

// AccountQuery filters and pages the account table.
type AccountQuery struct {
	Search string
	Page   int // 1-based
}

// AccountPage is one page of accounts after local filtering.
type AccountPage struct {
	Items      []domain.Account
	Total      int
	Page       int
	TotalPages int
}

type UserService interface {
	List(ctx context.Context, s domain.Session, q AccountQuery) (*AccountPage, error)
	Create(ctx context.Context, s domain.Session, email, password string) (*domain.Account, error)
	Update(ctx context.Context, s domain.Session, id string, p domain.AccountProfile) (*domain.Account, error)
	Block(ctx context.Context, s domain.Session, id string) error
	Suspend(ctx context.Context, s domain.Session, id string, days int) error
}

// ReportQuery filters and pages the reports table. Status is one of
// all, pending, underreview, resolved.
type ReportQuery struct {
	Search string
	Status string
	Page   int
}

// ReportPage is one page of reports plus counters over the whole set.
type ReportPage struct {
	Items      []domain.Report
	Total      int
	Page       int
	TotalPages int
	Pending    int
	Urgent     int
	Resolved   int
}

type ReportService interface {
	List(ctx context.Context, s domain.Session, q ReportQuery) (*ReportPage, error)
	UpdateStatus(ctx context.Context, s domain.Session, id, status string) error
}

// InboxPage is one page of normalised inbox messages. TotalKnown is false
// when the backend did not report a total.
type InboxPage struct {
	Messages   []domain.InboxMessage
	Page       int
	Total      int
	TotalKnown bool
	HasNext    bool
}

// ReplyInput answers a message; From is the original sender as received.
type ReplyInput struct {
	From    string
	Subject string
	Body    string
}

type ComposeInput struct {
	To      string
	Subject string
	Body    string
}

type InboxService interface {
	List(ctx context.Context, s domain.Session, page int) (*InboxPage, error)
	Reply(ctx context.Context, s domain.Session, in ReplyInput) error
	Compose(ctx context.Context, s domain.Session, in ComposeInput) error
}

// CategoryOverview is the category table with its totals.
type CategoryOverview struct {
	Categories        []domain.Category
	TotalRevenueCents int64
	TotalEvents       int
	AverageFee        float64
}

// NewCategoryInput describes a category to add.
type NewCategoryInput struct {
	Name       string
	Fee        float64
	ExpiryDays int
}

type ConfigService interface {
	List(ctx context.Context, s domain.Session) (*CategoryOverview, error)
	Create(ctx context.Context, s domain.Session, in NewCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, s domain.Session, id string, u domain.CategoryUpdate) (*domain.Category, error)
	Delete(ctx context.Context, s domain.Session, id string) error
}

// LegalView is a legal document with its rendered preview.
type LegalView struct {
	Document domain.LegalDocument
	HTML     string
}

type LegalService interface {
	Get(ctx context.Context, s domain.Session, kind domain.LegalKind) (*LegalView, error)
	Publish(ctx context.Context, s domain.Session, kind domain.LegalKind, content string) (*LegalView, error)
}
