package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type reportService struct {
	gw    ports.ReportGateway
	audit auditor
	log   zerolog.Logger
}

func NewReportService(gw ports.ReportGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.ReportService {
	return &reportService{gw: gw, audit: auditor{rec: audit, log: log}, log: log}
}

// List filters reports by search term and status filter and pages the
// result. The counters always cover the unfiltered set.
func (s *reportService) List(ctx context.Context, sess domain.Session, q ports.ReportQuery) (*ports.ReportPage, error) {
	reports, err := s.gw.ListReports(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	out := &ports.ReportPage{}
	for _, r := range reports {
		switch r.Status {
		case domain.ReportPending:
			out.Pending++
		case domain.ReportResolved:
			out.Resolved++
		}
		if strings.EqualFold(r.Priority, "High") && r.Status != domain.ReportResolved {
			out.Urgent++
		}
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if term != "" && !containsFold(term, r.Reporter.Name, r.Accused.Name, r.Category, r.Description) {
			continue
		}
		if !MatchesStatusFilter(r.Status, q.Status) {
			continue
		}
		matched = append(matched, r)
	}

	out.Items, out.Page, out.TotalPages = paginate(matched, q.Page, PageSize)
	out.Total = len(matched)
	return out, nil
}

// MatchesStatusFilter compares a status with a filter value such as
// "underreview". An empty filter or "all" matches everything.
func MatchesStatusFilter(status domain.ReportStatus, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return true
	}
	return strings.ReplaceAll(strings.ToLower(string(status)), " ", "") == filter
}

func (s *reportService) UpdateStatus(ctx context.Context, sess domain.Session, id, status string) error {
	st, ok := domain.ParseReportStatus(status)
	if !ok {
		return fmt.Errorf("update report: %w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if err := s.gw.UpdateReportStatus(ctx, sess.Token, id, st); err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditReportStatus, id, map[string]string{"status": string(st)})
	return nil
}
