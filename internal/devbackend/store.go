package devbackend

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poing/admin-console/internal/core/domain"
)

var (
	errNotFound = errors.New("not found")
	errExists   = errors.New("already exists")
)

type staffAccount struct {
	user         domain.User
	passwordHash []byte
}

type otpState struct {
	code     string
	expires  time.Time
	verified bool
}

// Store is the dev backend's in-memory state.
type Store struct {
	mu sync.Mutex

	staff      map[string]*staffAccount // by lower-cased email
	otps       map[string]*otpState
	accounts   []domain.Account
	reports    []domain.Report
	messages   []map[string]any
	outbox     []domain.OutgoingEmail
	categories []domain.Category
	legal      map[domain.LegalKind]domain.LegalDocument
	stats      domain.DashboardStats
	nextID     int
}

func newStore(now time.Time) (*Store, error) {
	legal, err := seedLegal(now)
	if err != nil {
		return nil, err
	}
	return &Store{
		staff:      map[string]*staffAccount{},
		otps:       map[string]*otpState{},
		accounts:   seedAccounts(),
		reports:    seedReports(),
		messages:   seedMessages(now),
		categories: seedCategories(),
		legal:      legal,
		stats:      seedStats(),
		nextID:     100,
	}, nil
}

func (s *Store) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Store) staffByEmail(email string) (*staffAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.staff[strings.ToLower(email)]
	return a, ok
}

func (s *Store) setStaffPassword(email string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.staff[strings.ToLower(email)]
	if !ok {
		return errNotFound
	}
	a.passwordHash = hash
	return nil
}

// Accounts returns a copy of the marketplace accounts.
func (s *Store) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.accounts)
}

func (s *Store) createAccount(email string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return domain.Account{}, errExists
		}
	}
	first, _, _ := strings.Cut(email, "@")
	acc := domain.Account{ID: s.newID(), FirstName: first, Email: email, Status: domain.AccountActive}
	s.accounts = append(s.accounts, acc)
	return acc, nil
}

func (s *Store) updateAccount(id string, p domain.AccountProfile) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.accounts, func(a domain.Account) bool { return a.ID == id })
	if i < 0 {
		return domain.Account{}, errNotFound
	}
	a := &s.accounts[i]
	a.FirstName, a.LastName, a.Phone, a.Country, a.Address = p.FirstName, p.LastName, p.Phone, p.Country, p.Address
	return *a, nil
}

func (s *Store) setAccountStatus(id string, st domain.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.accounts, func(a domain.Account) bool { return a.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.accounts[i].Status = st
	return nil
}

// Reports returns a copy of the reports.
func (s *Store) Reports() []domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reports)
}

func (s *Store) setReportStatus(id string, st domain.ReportStatus) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.reports, func(r domain.Report) bool { return r.ID == id })
	if i < 0 {
		return domain.Report{}, errNotFound
	}
	s.reports[i].Status = st
	return s.reports[i], nil
}

// messagePage returns one page of the inbox and the total message count.
func (s *Store) messagePage(page, limit int) ([]map[string]any, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.messages)
	start := (page - 1) * limit
	if start >= total {
		return []map[string]any{}, total
	}
	end := min(start+limit, total)
	return slices.Clone(s.messages[start:end]), total
}

func (s *Store) deliver(m domain.OutgoingEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, m)
}

// Outbox returns every reply and message sent through the inbox endpoints.
func (s *Store) Outbox() []domain.OutgoingEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

// Categories returns a copy of the listing categories.
func (s *Store) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

func (s *Store) createCategory(c domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.Category{}, errExists
		}
	}
	c.ID = s.newID()
	c.Events, c.RevenueCents = 0, 0
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) updateCategory(id string, u domain.CategoryUpdate) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return domain.Category{}, errNotFound
	}
	if u.Fee != nil {
		s.categories[i].Fee = *u.Fee
	}
	if u.ExpiryDays != nil {
		s.categories[i].ExpiryDays = *u.ExpiryDays
	}
	return s.categories[i], nil
}

func (s *Store) deleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}

func (s *Store) legalDoc(kind domain.LegalKind) (domain.LegalDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.legal[kind]
	if !ok {
		return domain.LegalDocument{}, errNotFound
	}
	return d, nil
}

func (s *Store) publishLegal(kind domain.LegalKind, content string, now time.Time) (domain.LegalDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.legal[kind]
	if !ok {
		return domain.LegalDocument{}, errNotFound
	}
	d.Content = content
	d.Version = bumpVersion(d.Version)
	d.UpdatedAt = now
	s.legal[kind] = d
	return d, nil
}

// bumpVersion increments the minor part of a "major.minor" version.
func bumpVersion(v string) string {
	major, minor, ok := strings.Cut(v, ".")
	m, err := strconv.Atoi(minor)
	if !ok || err != nil {
		return v + ".1"
	}
	return fmt.Sprintf("%s.%d", major, m+1)
}

func (s *Store) dashboard() domain.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.TotalCategories = len(s.categories)
	st.Categories = slices.Clone(s.stats.Categories)
	st.Countries = slices.Clone(s.stats.Countries)
	return st
}
