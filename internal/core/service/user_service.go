package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

// PageSize is the row count of the account and report tables.
const PageSize = 5

type userService struct {
	gw    ports.AccountGateway
	audit auditor
	log   zerolog.Logger
}

func NewUserService(gw ports.AccountGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.UserService {
	return &userService{gw: gw, audit: auditor{rec: audit, log: log}, log: log}
}

// List fetches every account and filters and pages them locally. The search
// matches first name, last name, email and country, ignoring case.
func (s *userService) List(ctx context.Context, sess domain.Session, q ports.AccountQuery) (*ports.AccountPage, error) {
	accounts, err := s.gw.ListAccounts(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if term == "" || containsFold(term, a.FirstName, a.LastName, a.Email, a.Country) {
			matched = append(matched, a)
		}
	}

	items, page, pages := paginate(matched, q.Page, PageSize)
	return &ports.AccountPage{Items: items, Total: len(matched), Page: page, TotalPages: pages}, nil
}

func (s *userService) Create(ctx context.Context, sess domain.Session, email, password string) (*domain.Account, error) {
	acc, err := s.gw.CreateAccount(ctx, sess.Token, strings.TrimSpace(email), password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditAccountCreate, acc.ID, map[string]string{"email": acc.Email})
	return acc, nil
}

func (s *userService) Update(ctx context.Context, sess domain.Session, id string, p domain.AccountProfile) (*domain.Account, error) {
	acc, err := s.gw.UpdateAccount(ctx, sess.Token, id, p)
	if err != nil {
		return nil, fmt.Errorf("update account %s: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditAccountUpdate, id, nil)
	return acc, nil
}

func (s *userService) Block(ctx context.Context, sess domain.Session, id string) error {
	if err := s.gw.BlockAccount(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("block account %s: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditAccountBlock, id, nil)
	return nil
}

func (s *userService) Suspend(ctx context.Context, sess domain.Session, id string, days int) error {
	if days <= 0 {
		return fmt.Errorf("suspend account: %w: days must be positive", domain.ErrInvalidInput)
	}
	if err := s.gw.SuspendAccount(ctx, sess.Token, id, days); err != nil {
		return fmt.Errorf("suspend account %s: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditAccountSuspend, id, map[string]string{"days": strconv.Itoa(days)})
	return nil
}

// containsFold reports whether any field contains the lower-cased term.
func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// paginate returns the 1-based page of items, clamping page into range.
func paginate[T any](items []T, page, size int) ([]T, int, int) {
	pages := (len(items) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], page, pages
}
