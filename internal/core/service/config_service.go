package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type configService struct {
	gw    ports.CategoryGateway
	audit auditor
	log   zerolog.Logger
}

func NewConfigService(gw ports.CategoryGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.ConfigService {
	return &configService{gw: gw, audit: auditor{rec: audit, log: log}, log: log}
}

func (s *configService) List(ctx context.Context, sess domain.Session) (*ports.CategoryOverview, error) {
	cats, err := s.gw.ListCategories(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return Summarize(cats), nil
}

// Summarize totals revenue and events and averages the fee, rounded to two
// decimals.
func Summarize(cats []domain.Category) *ports.CategoryOverview {
	ov := &ports.CategoryOverview{Categories: cats}
	var fees float64
	for _, c := range cats {
		ov.TotalRevenueCents += c.RevenueCents
		ov.TotalEvents += c.Events
		fees += c.Fee
	}
	if len(cats) > 0 {
		ov.AverageFee = math.Round(fees/float64(len(cats))*100) / 100
	}
	return ov
}

func (s *configService) Create(ctx context.Context, sess domain.Session, in ports.NewCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Fee < 0 || in.Fee > 100 || in.ExpiryDays <= 0 {
		return nil, fmt.Errorf("create category: %w", domain.ErrInvalidInput)
	}
	created, err := s.gw.CreateCategory(ctx, sess.Token, domain.Category{Name: name, Fee: in.Fee, ExpiryDays: in.ExpiryDays})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditCategoryCreate, created.ID, map[string]string{"name": name})
	return created, nil
}

func (s *configService) Update(ctx context.Context, sess domain.Session, id string, u domain.CategoryUpdate) (*domain.Category, error) {
	if u.Fee == nil && u.ExpiryDays == nil {
		return nil, fmt.Errorf("update category: %w: nothing to change", domain.ErrInvalidInput)
	}
	if (u.Fee != nil && (*u.Fee < 0 || *u.Fee > 100)) || (u.ExpiryDays != nil && *u.ExpiryDays <= 0) {
		return nil, fmt.Errorf("update category: %w", domain.ErrInvalidInput)
	}
	updated, err := s.gw.UpdateCategory(ctx, sess.Token, id, u)
	if err != nil {
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}

	details := map[string]string{}
	if u.Fee != nil {
		details["fee"] = fmt.Sprintf("%.2f", *u.Fee)
	}
	if u.ExpiryDays != nil {
		details["expiry"] = fmt.Sprintf("%d", *u.ExpiryDays)
	}
	s.audit.record(ctx, sess, domain.AuditCategoryUpdate, id, details)
	return updated, nil
}

func (s *configService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := s.gw.DeleteCategory(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditCategoryDelete, id, nil)
	return nil
}
