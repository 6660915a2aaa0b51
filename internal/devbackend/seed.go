package devbackend

import (
	"embed"
	"fmt"
	"time"

	"github.com/poing/admin-console/internal/core/domain"
)

//go:embed seed/*.md
var seedFS embed.FS

// SeedPassword is the password of every seeded staff account.
const SeedPassword = "Poing123!"

type staffSeed struct {
	id    string
	email string
	role  domain.Role
}

var seedStaff = []staffSeed{
	{id: "1", email: "admin@poing.com", role: domain.RoleAdmin},
	{id: "2", email: "ops@poing.com", role: domain.RoleUser},
	{id: "3", email: "reports@poing.com", role: domain.RoleReportManager},
}

func seedAccounts() []domain.Account {
	return []domain.Account{
		{ID: "1", FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Country: "United States", Status: domain.AccountActive},
		{ID: "2", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Country: "Canada", Status: domain.AccountActive},
		{ID: "3", FirstName: "Mike", LastName: "Johnson", Email: "mike.johnson@example.com", Country: "United Kingdom", Status: domain.AccountSuspended},
		{ID: "4", FirstName: "Sarah", LastName: "Wilson", Email: "sarah.wilson@example.com", Country: "Australia", Status: domain.AccountActive},
		{ID: "5", FirstName: "David", LastName: "Brown", Email: "david.brown@example.com", Country: "Germany", Status: domain.AccountBlocked},
		{ID: "6", FirstName: "Emily", LastName: "Davis", Email: "emily.davis@example.com", Country: "France", Status: domain.AccountActive},
		{ID: "7", FirstName: "Chris", LastName: "Miller", Email: "chris.miller@example.com", Country: "Japan", Status: domain.AccountActive},
		{ID: "8", FirstName: "Lisa", LastName: "Garcia", Email: "lisa.garcia@example.com", Country: "Spain", Status: domain.AccountActive},
	}
}

func party(name string) domain.Party {
	return domain.Party{Name: name, Email: emailOf(name)}
}

func emailOf(name string) string {
	var out []rune
	for _, r := range name {
		switch {
		case r == ' ':
			out = append(out, '.')
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, r)
		}
	}
	return string(out) + "@example.com"
}

func seedReports() []domain.Report {
	return []domain.Report{
		{ID: "1", Reporter: party("John Smith"), Accused: party("Mike Johnson"), Category: "Harassment",
			Description: "User posted inappropriate comments and threats on my post about climate change.",
			Status:      domain.ReportPending, ReportDate: "2024-01-15", Priority: "High"},
		{ID: "2", Reporter: party("Sarah Wilson"), Accused: party("David Brown"), Category: "Intellectual Property",
			Description: "This user copied my original artwork and posted it without permission or credit.",
			Status:      domain.ReportUnderReview, ReportDate: "2024-01-14", Priority: "Medium"},
		{ID: "3", Reporter: party("Emily Davis"), Accused: party("Chris Miller"), Category: "Spam",
			Description: "User is repeatedly posting promotional content and irrelevant links in comments.",
			Status:      domain.ReportResolved, ReportDate: "2024-01-13", Priority: "Low"},
		{ID: "4", Reporter: party("Lisa Garcia"), Accused: party("Tom Anderson"), Category: "Hate Speech",
			Description: "Posted discriminatory content targeting specific ethnic groups.",
			Status:      domain.ReportPending, ReportDate: "2024-01-12", Priority: "High"},
		{ID: "5", Reporter: party("Alex Johnson"), Accused: party("Maria Rodriguez"), Category: "False Information",
			Description: "Spreading misinformation about health topics that could be harmful.",
			Status:      domain.ReportUnderReview, ReportDate: "2024-01-11", Priority: "Medium"},
		{ID: "6", Reporter: party("Robert Taylor"), Accused: party("Jennifer White"), Category: "Harassment",
			Description: "Continuous personal attacks and bullying behavior in comment sections.",
			Status:      domain.ReportResolved, ReportDate: "2024-01-10", Priority: "High"},
	}
}

func seedCategories() []domain.Category {
	return []domain.Category{
		{ID: "1", Name: "Accident", Fee: 2.5, ExpiryDays: 30, Events: 145, RevenueCents: 1_245_000},
		{ID: "2", Name: "People", Fee: 3.0, ExpiryDays: 14, Events: 89, RevenueCents: 892_000},
		{ID: "3", Name: "Lost & Found", Fee: 2.8, ExpiryDays: 21, Events: 67, RevenueCents: 678_000},
		{ID: "4", Name: "Pet", Fee: 3.5, ExpiryDays: 7, Events: 123, RevenueCents: 1_523_000},
		{ID: "5", Name: "Crime", Fee: 2.0, ExpiryDays: 45, Events: 78, RevenueCents: 546_000},
		{ID: "6", Name: "Others", Fee: 2.7, ExpiryDays: 28, Events: 92, RevenueCents: 984_000},
	}
}

func seedStats() domain.DashboardStats {
	return domain.DashboardStats{
		TotalCountries:       45,
		TotalListings:        12847,
		StorageUsedBytes:     2_400_000_000_000,
		StorageCapacityBytes: 5_000_000_000_000,
		UptimePercent:        98.5,
		AvgResponseMs:        1200,
		Categories: []domain.CategoryStat{
			{Name: "Accident", Listings: 2847, SalesCents: 4_523_000},
			{Name: "Pet", Listings: 3421, SalesCents: 6_789_000},
			{Name: "Lost & Found", Listings: 1923, SalesCents: 2_345_000},
			{Name: "Crime", Listings: 1567, SalesCents: 3_120_000},
			{Name: "People", Listings: 2089, SalesCents: 4_178_000},
			{Name: "Other", Listings: 1000, SalesCents: 1_560_000},
		},
		Countries: []domain.CountryStat{
			{Name: "United States", Listings: 3245},
			{Name: "United Kingdom", Listings: 2156},
			{Name: "Canada", Listings: 1834},
			{Name: "Australia", Listings: 1423},
			{Name: "Germany", Listings: 1189},
		},
	}
}

var inboxSubjects = []string{
	"Payment not received for my listing",
	"How do I change my listing category?",
	"Account suspended by mistake",
	"Refund request",
	"Found a lost dog near Central Park",
	"Cannot upload pictures",
	"Report abuse from another user",
	"Question about platform fees",
	"Password reset email never arrives",
	"Thank you!",
	"Listing expired too early",
	"Feature suggestion",
}

// seedMessages mixes the payload shapes the mail provider is known to send:
// sender objects and plain strings, _id and id, html and text bodies.
func seedMessages(now time.Time) []map[string]any {
	accounts := seedAccounts()
	out := make([]map[string]any, 0, len(inboxSubjects))
	for i, subject := range inboxSubjects {
		a := accounts[i%len(accounts)]
		m := map[string]any{
			"subject":   subject,
			"createdAt": now.Add(-time.Duration(i*5+3) * time.Hour).UTC().Format(time.RFC3339),
			"isRead":    i%3 == 0,
			"isStarred": i%4 == 1,
		}
		if i%2 == 0 {
			m["_id"] = fmt.Sprintf("msg-%02d", i+1)
			m["from"] = map[string]any{"email": a.Email, "name": a.FullName()}
			m["html"] = fmt.Sprintf("<p>Hello Poing team,</p><p>%s. Could you please take a look?</p><p>Best,<br>%s</p>", subject, a.FirstName)
		} else {
			m["id"] = fmt.Sprintf("msg-%02d", i+1)
			m["from"] = fmt.Sprintf("%q <%s>", a.FullName(), a.Email)
			m["text"] = fmt.Sprintf("Hi,\n%s.\nThanks, %s", subject, a.FirstName)
		}
		if i%5 == 2 {
			m["priority"] = "high"
		}
		out = append(out, m)
	}
	return out
}

func seedLegal(now time.Time) (map[domain.LegalKind]domain.LegalDocument, error) {
	docs := map[domain.LegalKind]domain.LegalDocument{}
	for kind, version := range map[domain.LegalKind]string{domain.LegalTerms: "2.1", domain.LegalPrivacy: "3.2"} {
		b, err := seedFS.ReadFile("seed/" + string(kind) + ".md")
		if err != nil {
			return nil, fmt.Errorf("read %s seed: %w", kind, err)
		}
		docs[kind] = domain.LegalDocument{Kind: kind, Content: string(b), Version: version, UpdatedAt: now}
	}
	return docs, nil
}
