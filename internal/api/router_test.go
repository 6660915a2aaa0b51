package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/service"
	"github.com/poing/admin-console/internal/core/session"
	"github.com/poing/admin-console/internal/devbackend"
	"github.com/poing/admin-console/internal/infrastructure/backend"
	mongorepo "github.com/poing/admin-console/internal/infrastructure/db/mongo"
	"github.com/poing/admin-console/internal/infrastructure/http/handlers"
	"github.com/poing/admin-console/internal/infrastructure/memory"
)

const testOTP = "246810"

// recordingArea remembers the last browser id it was asked about so tests
// can tamper with that browser's slots.
type recordingArea struct {
	*memory.SessionArea
	mu         sync.Mutex
	last       string
	failRemove bool
}

func (a *recordingArea) Remove(ctx context.Context, browserID string) error {
	a.mu.Lock()
	fail := a.failRemove
	a.mu.Unlock()
	if fail {
		return errors.New("session area unavailable")
	}
	return a.SessionArea.Remove(ctx, browserID)
}

func (a *recordingArea) setFailRemove(v bool) {
	a.mu.Lock()
	a.failRemove = v
	a.mu.Unlock()
}

func (a *recordingArea) Read(ctx context.Context, browserID string) (string, []byte, error) {
	a.mu.Lock()
	a.last = browserID
	a.mu.Unlock()
	return a.SessionArea.Read(ctx, browserID)
}

func (a *recordingArea) lastBrowser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

type harness struct {
	url    string
	client *http.Client
	area   *recordingArea
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	log := zerolog.Nop()

	dev, err := devbackend.New(devbackend.Config{
		JWTSecret:  "test",
		BcryptCost: bcrypt.MinCost,
		NewOTP:     func() string { return testOTP },
	}, log)
	if err != nil {
		t.Fatalf("dev backend: %v", err)
	}
	devSrv := httptest.NewServer(dev.Handler())
	t.Cleanup(devSrv.Close)

	gw := backend.New(backend.Config{BaseURL: devSrv.URL + "/", Timeout: 5 * time.Second}, log)
	area := &recordingArea{SessionArea: memory.NewSessionArea()}
	store := session.NewStore(area, log)
	audit := mongorepo.NopAuditRecorder{}

	if opts.CookieSecret == "" {
		opts.CookieSecret = "0123456789abcdef0123456789abcdef"
	}
	if opts.AuthRate == 0 {
		opts.AuthRate, opts.AuthBurst = 100, 100
	}

	e, err := NewRouter(Deps{
		Log:      log,
		Sessions: store,
		Services: Services{
			Auth:      service.NewAuthService(gw, store, memory.NewCooldown(time.Minute), audit, log),
			Dashboard: service.NewDashboardService(gw, log),
			Users:     service.NewUserService(gw, audit, log),
			Reports:   service.NewReportService(gw, audit, log),
			Inbox:     service.NewInboxService(gw, audit, log),
			Config:    service.NewConfigService(gw, audit, log),
			Legal:     service.NewLegalService(gw, audit, log),
		},
		Readiness: handlers.NewHealthDependenciesHandler(nil, nil, gw),
		Options:   opts,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{url: srv.URL, client: client, area: area}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.url + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (h *harness) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := h.client.PostForm(h.url+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	resp := h.post(t, access.PathLogin, url.Values{"email": {email}, "password": {devbackend.SeedPassword}})
	expectRedirect(t, resp, access.PathDashboard)
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("%s %s: expected 303, got %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
	}
	loc, _ := url.Parse(resp.Header.Get("Location"))
	if loc.Path != to {
		t.Fatalf("%s %s: expected redirect to %s, got %s", resp.Request.Method, resp.Request.URL.Path, to, loc)
	}
}

func expectOK(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d", resp.Request.URL.Path, resp.StatusCode)
	}
}

func TestRouter_UnauthenticatedSeesOnlyPublicTree(t *testing.T) {
	h := newHarness(t, Options{})

	for _, p := range []string{access.PathDashboard, access.PathUserManagement, access.PathTerms, "/no-such-page"} {
		resp, _ := h.get(t, p)
		expectRedirect(t, resp, access.PathLoginRoot)
	}
	for _, p := range []string{"/api/session", "/api/navigation"} {
		resp, body := h.get(t, p)
		if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(body, `"error"`) {
			t.Fatalf("%s: expected a JSON 401, got %d %s", p, resp.StatusCode, body)
		}
	}
	for _, p := range []string{access.PathLoginRoot, access.PathLogin, access.PathForgotPassword, access.PathResetSuccess} {
		resp, _ := h.get(t, p)
		expectOK(t, resp)
	}

	resp := h.post(t, access.PathLogout, nil)
	expectRedirect(t, resp, access.PathLoginRoot)
}

func TestRouter_LoginAndRoleGuards(t *testing.T) {
	h := newHarness(t, Options{})

	resp := h.post(t, access.PathLogin, url.Values{"email": {"admin@poing.com"}, "password": {"wrong"}})
	expectRedirect(t, resp, access.PathLoginRoot)
	_, body := h.get(t, access.PathLoginRoot)
	if !strings.Contains(body, "Invalid email or password.") {
		t.Fatalf("expected a sign-in error toast")
	}

	h.login(t, "admin@poing.com")

	resp, body = h.get(t, access.PathDashboard)
	expectOK(t, resp)
	if !strings.Contains(body, "12,847") || !strings.Contains(body, "User Management") {
		t.Fatalf("dashboard missing stats or admin navigation")
	}

	for _, p := range []string{access.PathLoginRoot, access.PathLogin, access.PathForgotPassword} {
		resp, _ := h.get(t, p)
		expectRedirect(t, resp, access.PathDashboard)
	}
	resp, _ = h.get(t, "/no-such-page")
	expectRedirect(t, resp, access.PathDashboard)

	resp, body = h.get(t, access.PathUserManagement)
	expectOK(t, resp)
	if !strings.Contains(body, "8 users") {
		t.Fatalf("expected the seeded accounts")
	}
}

func TestRouter_ReportManagerIsRedirected(t *testing.T) {
	h := newHarness(t, Options{})
	h.login(t, "reports@poing.com")

	for _, p := range []string{access.PathUserManagement, access.PathCustomerService, access.PathConfiguration} {
		resp, _ := h.get(t, p)
		expectRedirect(t, resp, access.PathDashboard)
	}
	for _, p := range []string{access.PathDashboard, access.PathReports, access.PathTerms, access.PathPrivacy} {
		resp, _ := h.get(t, p)
		expectOK(t, resp)
	}

	resp, body := h.get(t, "/api/navigation")
	expectOK(t, resp)
	var nav navigationPayload
	if err := json.Unmarshal([]byte(body), &nav); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if nav.Role != "report_manager" || len(nav.Entries) != 4 {
		t.Fatalf("unexpected navigation %+v", nav)
	}
	for _, e := range nav.Entries {
		if e.Path == access.PathUserManagement {
			t.Fatalf("report manager must not see user management")
		}
	}
}

type navigationPayload struct {
	Role    string         `json:"role"`
	Entries []access.Entry `json:"entries"`
}

func TestRouter_SignOut(t *testing.T) {
	h := newHarness(t, Options{})
	h.login(t, "ops@poing.com")

	resp := h.post(t, access.PathLogout, nil)
	expectRedirect(t, resp, access.PathLoginRoot)

	tok, raw, _ := h.area.SessionArea.Read(context.Background(), h.area.lastBrowser())
	if tok != "" || raw != nil {
		t.Fatalf("both slots must be removed, got %q %q", tok, raw)
	}
	resp, _ = h.get(t, access.PathDashboard)
	expectRedirect(t, resp, access.PathLoginRoot)
}

func TestRouter_SignOutWhenAreaCannotBeCleared(t *testing.T) {
	h := newHarness(t, Options{})
	h.login(t, "ops@poing.com")
	h.area.setFailRemove(true)

	resp := h.post(t, access.PathLogout, nil)
	expectRedirect(t, resp, access.PathLoginRoot)

	old := h.area.lastBrowser()
	if tok, _, _ := h.area.SessionArea.Read(context.Background(), old); tok == "" {
		t.Fatalf("expected the slots to survive the failed removal")
	}

	resp, _ = h.get(t, access.PathDashboard)
	expectRedirect(t, resp, access.PathLoginRoot)
	resp, _ = h.get(t, access.PathLoginRoot)
	expectOK(t, resp)
	if h.area.lastBrowser() == old {
		t.Fatalf("sign-out must issue a new browser id")
	}
}

func TestRouter_MalformedProfile(t *testing.T) {
	h := newHarness(t, Options{})
	h.get(t, access.PathLoginRoot)
	h.area.Put(h.area.lastBrowser(), "opaque-token", []byte("{not json"))

	resp, body := h.get(t, "/api/session")
	expectOK(t, resp)
	var sess struct {
		State string          `json:"state"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal([]byte(body), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.State != "authenticated" || string(sess.User) != "null" {
		t.Fatalf("token alone must authenticate without a profile: %s", body)
	}

	_, body = h.get(t, "/api/navigation")
	var nav navigationPayload
	_ = json.Unmarshal([]byte(body), &nav)
	if len(nav.Entries) != len(access.Navigation) {
		t.Fatalf("navigation must fail open without a role, got %d entries", len(nav.Entries))
	}

	resp, _ = h.get(t, access.PathUserManagement)
	expectRedirect(t, resp, access.PathDashboard)
}

func TestRouter_RequireProfile(t *testing.T) {
	h := newHarness(t, Options{RequireProfile: true})
	h.get(t, access.PathLoginRoot)
	h.area.Put(h.area.lastBrowser(), "opaque-token", nil)

	resp, _ := h.get(t, access.PathDashboard)
	expectRedirect(t, resp, access.PathLoginRoot)
	resp, _ = h.get(t, access.PathLogin)
	expectOK(t, resp)
}

func TestRouter_PasswordReset(t *testing.T) {
	h := newHarness(t, Options{})
	email := "ops@poing.com"

	resp, _ := h.get(t, access.PathVerifyOTP)
	expectRedirect(t, resp, access.PathForgotPassword)
	resp, _ = h.get(t, access.PathResetPassword+"?email="+url.QueryEscape(email))
	expectRedirect(t, resp, access.PathForgotPassword)

	resp = h.post(t, access.PathForgotPassword, url.Values{"email": {email}})
	expectRedirect(t, resp, access.PathVerifyOTP)

	resp = h.post(t, access.PathVerifyOTP+"/resend", url.Values{"email": {email}})
	expectRedirect(t, resp, access.PathVerifyOTP)
	_, body := h.get(t, access.PathVerifyOTP+"?email="+url.QueryEscape(email))
	if !strings.Contains(body, "Please wait") {
		t.Fatalf("resend inside the cooldown must be refused")
	}

	resp = h.post(t, access.PathVerifyOTP, url.Values{"email": {email}, "otp": {"12345"}})
	expectRedirect(t, resp, access.PathVerifyOTP)

	resp = h.post(t, access.PathVerifyOTP, url.Values{"email": {email}, "otp": {testOTP}})
	expectRedirect(t, resp, access.PathResetPassword)
	if got := resp.Header.Get("Location"); !strings.Contains(got, "otp="+testOTP) {
		t.Fatalf("reset link must carry the code, got %s", got)
	}

	form := url.Values{"email": {email}, "otp": {testOTP}, "password": {"weakpass"}, "confirm": {"weakpass"}}
	resp = h.post(t, access.PathResetPassword, form)
	expectRedirect(t, resp, access.PathResetPassword)

	form.Set("password", "Another-1!")
	form.Set("confirm", "Another-1?")
	resp = h.post(t, access.PathResetPassword, form)
	expectRedirect(t, resp, access.PathResetPassword)

	form.Set("confirm", "Another-1!")
	resp = h.post(t, access.PathResetPassword, form)
	expectRedirect(t, resp, access.PathResetSuccess)

	resp = h.post(t, access.PathLogin, url.Values{"email": {email}, "password": {"Another-1!"}})
	expectRedirect(t, resp, access.PathDashboard)
}

func TestRouter_ScreenMutations(t *testing.T) {
	h := newHarness(t, Options{})
	h.login(t, "admin@poing.com")

	resp := h.post(t, access.PathUserManagement+"/users/4/suspend", url.Values{"days": {"0"}})
	expectRedirect(t, resp, access.PathUserManagement)
	_, body := h.get(t, access.PathUserManagement)
	if !strings.Contains(body, "toast-error") {
		t.Fatalf("expected an error toast for zero days")
	}

	resp = h.post(t, access.PathReports+"/1/status", url.Values{"status": {"Resolved"}})
	expectRedirect(t, resp, access.PathReports)
	_, body = h.get(t, access.PathReports)
	if !strings.Contains(body, "Report marked as Resolved.") {
		t.Fatalf("expected a success toast")
	}

	resp = h.post(t, access.PathConfiguration+"/categories", url.Values{"name": {"Events"}, "fee": {"2.5"}, "expiry": {"14"}})
	expectRedirect(t, resp, access.PathConfiguration)
	_, body = h.get(t, access.PathConfiguration)
	if !strings.Contains(body, "Category Events added.") {
		t.Fatalf("expected the category to be added")
	}

	resp = h.post(t, access.PathTerms, url.Values{"content": {"# Terms\n\nNew text."}})
	expectRedirect(t, resp, access.PathTerms)
	_, body = h.get(t, access.PathTerms)
	if !strings.Contains(body, "<h1>Terms</h1>") || !strings.Contains(body, "Version 2.2") {
		t.Fatalf("expected the published version to render")
	}

	resp, body = h.get(t, access.PathCustomerService)
	expectOK(t, resp)
	if !strings.Contains(body, "Page 1") {
		t.Fatalf("expected the inbox pager")
	}
}

func TestRouter_CSRF(t *testing.T) {
	h := newHarness(t, Options{CSRF: true})

	resp := h.post(t, access.PathLogin, url.Values{"email": {"admin@poing.com"}, "password": {devbackend.SeedPassword}})
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusForbidden {
		t.Fatalf("a form without a token must be refused, got %d", resp.StatusCode)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	h := newHarness(t, Options{AuthRate: 0.001, AuthBurst: 1})

	h.post(t, access.PathForgotPassword, url.Values{"email": {"ops@poing.com"}})
	resp := h.post(t, access.PathForgotPassword, url.Values{"email": {"ops@poing.com"}})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestRouter_Infrastructure(t *testing.T) {
	h := newHarness(t, Options{})

	resp, body := h.get(t, "/health")
	expectOK(t, resp)
	if !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("unexpected liveness body %s", body)
	}
	resp, body = h.get(t, "/health/ready")
	expectOK(t, resp)
	if !strings.Contains(body, `"backend"`) || strings.Contains(body, "redis") {
		t.Fatalf("readiness must check only configured dependencies: %s", body)
	}
	if len(resp.Cookies()) != 0 {
		t.Fatalf("probes must not set cookies")
	}

	h.get(t, access.PathLoginRoot)
	resp, body = h.get(t, "/metrics")
	expectOK(t, resp)
	if !strings.Contains(body, "poing_console_http_requests_total") {
		t.Fatalf("expected request metrics")
	}

	resp, _ = h.get(t, "/static/console.css")
	expectOK(t, resp)
}
