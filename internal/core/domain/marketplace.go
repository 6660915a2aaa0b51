package domain

import "time"

// AccountStatus is the moderation state of a marketplace account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "Active"
	AccountSuspended AccountStatus = "Suspended"
	AccountBlocked   AccountStatus = "Blocked"
)

// Account is a marketplace user as returned by the backend's user endpoints.
type Account struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Country   string        `json:"country"`
	Address   string        `json:"address,omitempty"`
	Status    AccountStatus `json:"status"`
}

// FullName joins first and last name.
func (a Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// AccountProfile carries the editable profile fields of an account.
type AccountProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Address   string `json:"address"`
}

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportPending     ReportStatus = "Pending"
	ReportUnderReview ReportStatus = "Under Review"
	ReportResolved    ReportStatus = "Resolved"
)

// ParseReportStatus accepts the display form of a report status.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case ReportPending, ReportUnderReview, ReportResolved:
		return ReportStatus(s), true
	}
	return "", false
}

// Party is the reporter or accused side of a report.
type Party struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Report is a complaint filed by one marketplace user against another.
type Report struct {
	ID          string       `json:"id"`
	Reporter    Party        `json:"reporter"`
	Accused     Party        `json:"accused"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Status      ReportStatus `json:"status"`
	ReportDate  string       `json:"reportDate"`
	Priority    string       `json:"priority"`
}

// InboxMessage is a customer-service email after normalisation.
type InboxMessage struct {
	ID        string
	From      string
	Name      string
	Subject   string
	Preview   string
	HTML      string
	Timestamp string
	Status    string
	Priority  string
	Category  string
	IsRead    bool
	IsStarred bool
}

// OutgoingEmail is a reply or a freshly composed message.
type OutgoingEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Category is a listing category with its platform fee configuration.
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Fee          float64 `json:"fee"`
	ExpiryDays   int     `json:"expiry"`
	Events       int     `json:"events"`
	RevenueCents int64   `json:"revenueCents"`
}

// CategoryUpdate changes fee and/or expiry; nil fields are left untouched.
type CategoryUpdate struct {
	Fee        *float64 `json:"fee,omitempty"`
	ExpiryDays *int     `json:"expiry,omitempty"`
}

// LegalKind selects one of the legal documents.
type LegalKind string

const (
	LegalTerms   LegalKind = "terms"
	LegalPrivacy LegalKind = "privacy"
)

// LegalDocument is a markdown legal text as stored by the backend.
type LegalDocument struct {
	Kind      LegalKind `json:"kind"`
	Content   string    `json:"content"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DashboardStats is the raw aggregate payload of the dashboard endpoint.
type DashboardStats struct {
	TotalCountries       int            `json:"totalCountries"`
	TotalCategories      int            `json:"totalCategories"`
	TotalListings        int            `json:"totalListings"`
	StorageUsedBytes     int64          `json:"storageUsedBytes"`
	StorageCapacityBytes int64          `json:"storageCapacityBytes"`
	UptimePercent        float64        `json:"uptimePercent"`
	AvgResponseMs        int            `json:"avgResponseMs"`
	Categories           []CategoryStat `json:"categories"`
	Countries            []CountryStat  `json:"countries"`
}

// CategoryStat is the listings and sales volume of one category.
type CategoryStat struct {
	Name       string `json:"name"`
	Listings   int    `json:"listings"`
	SalesCents int64  `json:"salesCents"`
}

// CountryStat is the listings volume of one country.
type CountryStat struct {
	Name     string `json:"name"`
	Listings int    `json:"listings"`
}
