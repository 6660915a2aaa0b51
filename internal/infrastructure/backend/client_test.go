package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
	"github.com/poing/admin-console/internal/devbackend"
	"github.com/poing/admin-console/internal/infrastructure/backend"
)

var _ ports.Backend = (*backend.Client)(nil)

func newClient(t *testing.T) (*backend.Client, *devbackend.Server) {
	t.Helper()
	srv, err := devbackend.New(devbackend.Config{
		JWTSecret:  "test",
		BcryptCost: bcrypt.MinCost,
		NewOTP:     func() string { return "135790" },
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("dev backend: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return backend.New(backend.Config{BaseURL: ts.URL + "/", Timeout: 5 * time.Second}, zerolog.Nop()), srv
}

func login(t *testing.T, cl *backend.Client, email string) string {
	t.Helper()
	token, user, err := cl.Login(context.Background(), email, devbackend.SeedPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || user.Email != email {
		t.Fatalf("unexpected user %+v", user)
	}
	return token
}

func TestClient_LoginAndErrors(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	_, _, err := cl.Login(ctx, "admin@poing.com", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if msg := backend.UserMessage(err, "fallback"); msg != "invalid email or password" {
		t.Fatalf("expected backend message, got %q", msg)
	}

	rm := login(t, cl, "reports@poing.com")
	if _, err := cl.ListAccounts(ctx, rm); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := cl.ListReports(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := cl.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	cl := backend.New(backend.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zerolog.Nop())
	if err := cl.Ping(context.Background()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_ForgotPassword(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	if err := cl.SendOTP(ctx, "ghost@poing.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := cl.SendOTP(ctx, "ops@poing.com"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := cl.VerifyOTP(ctx, "ops@poing.com", "000000"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := cl.VerifyOTP(ctx, "ops@poing.com", "135790"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := cl.ResetPassword(ctx, "ops@poing.com", "Another-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, err := cl.Login(ctx, "ops@poing.com", "Another-1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestClient_ExpectsCreated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cl := backend.New(backend.Config{BaseURL: ts.URL}, zerolog.Nop())
	err := cl.SendOTP(context.Background(), "ops@poing.com")
	var be *backend.Error
	if !errors.As(err, &be) || be.Status != http.StatusOK || !errors.Is(err, domain.ErrUnexpectedResponse) {
		t.Fatalf("a 200 must not count as success, got %v", err)
	}
}

func TestClient_ConsoleEndpoints(t *testing.T) {
	cl, srv := newClient(t)
	ctx := context.Background()
	tok := login(t, cl, "admin@poing.com")

	stats, err := cl.Stats(ctx, tok)
	if err != nil || stats.TotalListings != 12847 || stats.TotalCategories != 6 {
		t.Fatalf("stats: %+v %v", stats, err)
	}

	accounts, err := cl.ListAccounts(ctx, tok)
	if err != nil || len(accounts) != 8 {
		t.Fatalf("accounts: %d %v", len(accounts), err)
	}
	acc, err := cl.CreateAccount(ctx, tok, "new@poing.com", "pw123456")
	if err != nil || acc.Email != "new@poing.com" {
		t.Fatalf("create: %+v %v", acc, err)
	}
	if _, err := cl.CreateAccount(ctx, tok, "new@poing.com", "pw123456"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	updated, err := cl.UpdateAccount(ctx, tok, "2", domain.AccountProfile{FirstName: "Janet", LastName: "Smith", Country: "Canada"})
	if err != nil || updated.FirstName != "Janet" {
		t.Fatalf("update: %+v %v", updated, err)
	}
	if err := cl.BlockAccount(ctx, tok, "1"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := cl.SuspendAccount(ctx, tok, "4", 7); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := cl.BlockAccount(ctx, tok, "999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := cl.UpdateReportStatus(ctx, tok, "1", domain.ReportResolved); err != nil {
		t.Fatalf("report status: %v", err)
	}
	reports, _ := cl.ListReports(ctx, tok)
	if reports[0].Status != domain.ReportResolved {
		t.Fatalf("status not applied: %+v", reports[0])
	}

	raw, err := cl.ListMessages(ctx, tok, 1, 10)
	if err != nil || len(raw) == 0 {
		t.Fatalf("inbox: %v", err)
	}
	if err := cl.Reply(ctx, tok, domain.OutgoingEmail{To: "a@b.com", Subject: "Re: x", HTML: "ok"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if err := cl.Send(ctx, tok, domain.OutgoingEmail{To: "a@b.com", Subject: "Hello", HTML: "ok"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if n := len(srv.Store().Outbox()); n != 2 {
		t.Fatalf("expected 2 delivered emails, got %d", n)
	}

	cat, err := cl.CreateCategory(ctx, tok, domain.Category{Name: "Events", Fee: 2, ExpiryDays: 10})
	if err != nil || cat.ID == "" {
		t.Fatalf("create category: %+v %v", cat, err)
	}
	fee := 4.5
	upd, err := cl.UpdateCategory(ctx, tok, cat.ID, domain.CategoryUpdate{Fee: &fee})
	if err != nil || upd.Fee != 4.5 || upd.ExpiryDays != 10 {
		t.Fatalf("update category: %+v %v", upd, err)
	}
	if err := cl.DeleteCategory(ctx, tok, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	doc, err := cl.GetLegal(ctx, tok, domain.LegalPrivacy)
	if err != nil || doc.Version != "3.2" || doc.Kind != domain.LegalPrivacy {
		t.Fatalf("legal: %+v %v", doc, err)
	}
	doc, err = cl.UpdateLegal(ctx, tok, domain.LegalPrivacy, "# Privacy")
	if err != nil || doc.Version != "3.3" {
		t.Fatalf("publish legal: %+v %v", doc, err)
	}
}
