package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
)

type stubLoader struct {
	sess domain.Session
	seen string
}

func (s *stubLoader) Load(_ context.Context, browserID string) domain.Session {
	s.seen = browserID
	return s.sess
}

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func newEcho(loader SessionLoader, requireProfile bool) *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(NewCookieStore("test-secret", false, 3600)))
	e.Use(Browser(zerolog.Nop()))
	e.Use(LoadSession(loader, requireProfile))
	return e
}

func TestBrowser_AssignsStableID(t *testing.T) {
	loader := &stubLoader{}
	e := newEcho(loader, false)
	e.GET("/x", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	first := loader.seen
	if first == "" {
		t.Fatalf("expected a browser id")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != CookieName {
		t.Fatalf("expected %s cookie, got %+v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("browser cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(cookies[0])
	e.ServeHTTP(httptest.NewRecorder(), req)
	if loader.seen != first {
		t.Fatalf("browser id changed: %q -> %q", first, loader.seen)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	tests := []struct {
		name           string
		sess           domain.Session
		requireProfile bool
		want           int
	}{
		{"no token", domain.Session{}, false, http.StatusSeeOther},
		{"token only", domain.Session{Token: "t"}, false, http.StatusOK},
		{"token only with profile required", domain.Session{Token: "t"}, true, http.StatusSeeOther},
		{"full session", domain.Session{Token: "t", User: &domain.User{Role: domain.RoleAdmin}}, true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(&stubLoader{sess: tt.sess}, tt.requireProfile)
			e.GET("/dashboard", ok, RequireAuthenticated())

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusSeeOther && rec.Header().Get(echo.HeaderLocation) != access.PathLoginRoot {
				t.Fatalf("unexpected location %q", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestRequireAuthenticated_APIAnswers401(t *testing.T) {
	e := newEcho(&stubLoader{}, false)
	e.GET("/api/session", ok, RequireAuthenticated())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRedirectAuthenticated(t *testing.T) {
	e := newEcho(&stubLoader{sess: domain.Session{Token: "t"}}, false)
	e.GET("/login", ok, RedirectAuthenticated())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != access.PathDashboard {
		t.Fatalf("expected redirect to dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		user bool
		want int
	}{
		{"admin allowed", domain.RoleAdmin, true, http.StatusOK},
		{"user allowed", domain.RoleUser, true, http.StatusOK},
		{"report manager redirected", domain.RoleReportManager, true, http.StatusSeeOther},
		{"missing profile redirected", "", false, http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := domain.Session{Token: "t"}
			if tt.user {
				sess.User = &domain.User{Role: tt.role}
			}
			e := newEcho(&stubLoader{sess: sess}, false)
			e.GET(access.PathUserManagement, ok,
				RequireAuthenticated(), Guard(access.PathDashboard, access.UserManagementRoles...))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, access.PathUserManagement, nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusSeeOther && rec.Header().Get(echo.HeaderLocation) != access.PathDashboard {
				t.Fatalf("expected fallback to dashboard, got %q", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestGuard_Unrestricted(t *testing.T) {
	e := newEcho(&stubLoader{sess: domain.Session{Token: "t"}}, false)
	e.GET(access.PathReports, ok, RequireAuthenticated(), Guard(access.PathDashboard, access.ReportsRoles...))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, access.PathReports, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestFlashes_RoundTrip(t *testing.T) {
	e := newEcho(&stubLoader{}, false)
	e.POST("/set", func(c echo.Context) error {
		AddFlash(c, FlashSuccess, "saved")
		return c.NoContent(http.StatusSeeOther)
	})
	var got []Flash
	e.GET("/get", func(c echo.Context) error {
		got = Flashes(c)
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected cookie")
	}
	last := cookies[len(cookies)-1]

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(last)
	e.ServeHTTP(httptest.NewRecorder(), req)
	if len(got) != 1 || got[0].Kind != FlashSuccess || got[0].Message != "saved" {
		t.Fatalf("unexpected flashes %+v", got)
	}
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.POST("/login", ok, RateLimit(0.001, 2))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other clients keep their own budget, got %d", rec.Code)
	}
}

func TestFlashes_SurviveUnreadableCookie(t *testing.T) {
	e := newEcho(&stubLoader{}, false)
	e.POST("/set", func(c echo.Context) error {
		AddFlash(c, FlashError, "try again")
		return c.NoContent(http.StatusSeeOther)
	})

	req := httptest.NewRequest(http.MethodPost, "/set", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tampered"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var got []Flash
	e.GET("/get", func(c echo.Context) error {
		got = Flashes(c)
		return c.NoContent(http.StatusOK)
	})
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a replacement cookie")
	}
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[len(cookies)-1])
	e.ServeHTTP(httptest.NewRecorder(), req)
	if len(got) != 1 || got[0].Message != "try again" {
		t.Fatalf("flash dropped after cookie reset: %+v", got)
	}
}

func TestRotateBrowserID(t *testing.T) {
	loader := &stubLoader{}
	e := newEcho(loader, false)
	e.GET("/x", ok)
	var rotated string
	e.POST("/rotate", func(c echo.Context) error {
		if err := RotateBrowserID(c); err != nil {
			return err
		}
		rotated = BrowserID(c)
		return c.NoContent(http.StatusSeeOther)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	first := loader.seen
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/rotate", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rotated == "" || rotated == first {
		t.Fatalf("expected a new browser id, got %q (was %q)", rotated, first)
	}

	cookies := rec.Result().Cookies()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(cookies[len(cookies)-1])
	e.ServeHTTP(httptest.NewRecorder(), req)
	if loader.seen != rotated {
		t.Fatalf("next request must use the rotated id, got %q", loader.seen)
	}
}
