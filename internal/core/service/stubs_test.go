package service

import (
	"context"
	"errors"
	"sync"

	"github.com/poing/admin-console/internal/core/domain"
)

type stubAuthGateway struct {
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	sendFn   func(ctx context.Context, email string) error
	verifyFn func(ctx context.Context, email, otp string) error
	resetFn  func(ctx context.Context, email, password string) error
}

func (g *stubAuthGateway) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return g.loginFn(ctx, email, password)
}

func (g *stubAuthGateway) SendOTP(ctx context.Context, email string) error {
	return g.sendFn(ctx, email)
}

func (g *stubAuthGateway) VerifyOTP(ctx context.Context, email, otp string) error {
	return g.verifyFn(ctx, email, otp)
}

func (g *stubAuthGateway) ResetPassword(ctx context.Context, email, password string) error {
	return g.resetFn(ctx, email, password)
}

type stubAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (a *stubAudit) Record(_ context.Context, e domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

type stubThrottle struct {
	allow bool
	err   error
	keys  []string
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.keys = append(t.keys, key)
	return t.allow, t.err
}

type stubAccounts struct {
	accounts  []domain.Account
	err       error
	blocked   []string
	suspended map[string]int
}

func (g *stubAccounts) ListAccounts(context.Context, string) ([]domain.Account, error) {
	return g.accounts, g.err
}

func (g *stubAccounts) CreateAccount(_ context.Context, _ string, email, _ string) (*domain.Account, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Account{ID: "new", Email: email, Status: domain.AccountActive}, nil
}

func (g *stubAccounts) UpdateAccount(_ context.Context, _ string, id string, p domain.AccountProfile) (*domain.Account, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Account{ID: id, FirstName: p.FirstName, LastName: p.LastName}, nil
}

func (g *stubAccounts) BlockAccount(_ context.Context, _ string, id string) error {
	g.blocked = append(g.blocked, id)
	return g.err
}

func (g *stubAccounts) SuspendAccount(_ context.Context, _ string, id string, days int) error {
	if g.suspended == nil {
		g.suspended = map[string]int{}
	}
	g.suspended[id] = days
	return g.err
}

type stubReports struct {
	reports []domain.Report
	updated map[string]domain.ReportStatus
}

func (g *stubReports) ListReports(context.Context, string) ([]domain.Report, error) {
	return g.reports, nil
}

func (g *stubReports) UpdateReportStatus(_ context.Context, _ string, id string, st domain.ReportStatus) error {
	if g.updated == nil {
		g.updated = map[string]domain.ReportStatus{}
	}
	g.updated[id] = st
	return nil
}

type stubInbox struct {
	body    []byte
	replies []domain.OutgoingEmail
	sent    []domain.OutgoingEmail
	page    int
	limit   int
}

func (g *stubInbox) ListMessages(_ context.Context, _ string, page, limit int) ([]byte, error) {
	g.page, g.limit = page, limit
	return g.body, nil
}

func (g *stubInbox) Reply(_ context.Context, _ string, m domain.OutgoingEmail) error {
	g.replies = append(g.replies, m)
	return nil
}

func (g *stubInbox) Send(_ context.Context, _ string, m domain.OutgoingEmail) error {
	g.sent = append(g.sent, m)
	return nil
}

type stubLegal struct {
	doc domain.LegalDocument
}

func (g *stubLegal) GetLegal(_ context.Context, _ string, kind domain.LegalKind) (*domain.LegalDocument, error) {
	d := g.doc
	d.Kind = kind
	return &d, nil
}

func (g *stubLegal) UpdateLegal(_ context.Context, _ string, kind domain.LegalKind, content string) (*domain.LegalDocument, error) {
	g.doc = domain.LegalDocument{Kind: kind, Content: content, Version: "2"}
	d := g.doc
	return &d, nil
}

var errBoom = errors.New("boom")

var adminSession = domain.Session{
	Token: "tok",
	User:  &domain.User{ID: "1", Email: "admin@poing.com", Role: domain.RoleAdmin},
}
