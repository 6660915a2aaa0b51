// Package middleware holds the console's echo middleware: browser identity,
// session restoration, route-tree selection, role guards and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
)

const (
	ctxBrowserID = "browser_id"
	ctxSession   = "console_session"
	ctxState     = "app_state"
)

// SessionLoader restores the session of a browser.
type SessionLoader interface {
	Load(ctx context.Context, browserID string) domain.Session
}

// LoadSession restores the browser's session once per request and decides
// which route tree the request belongs to.
func LoadSession(store SessionLoader, requireProfile bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxState, access.StateInitializing)

			s := store.Load(c.Request().Context(), BrowserID(c))
			c.Set(ctxSession, s)
			c.Set(ctxState, access.Resolve(s, requireProfile))

			return next(c)
		}
	}
}

// CurrentSession returns the session restored by LoadSession.
func CurrentSession(c echo.Context) domain.Session {
	s, _ := c.Get(ctxSession).(domain.Session)
	return s
}

// CurrentState returns the state resolved by LoadSession.
func CurrentState(c echo.Context) access.AppState {
	st, ok := c.Get(ctxState).(access.AppState)
	if !ok {
		return access.StateInitializing
	}
	return st
}

// RequireAuthenticated mounts a route in the protected tree. Other states
// are sent to the sign-in page; JSON endpoints under /api answer 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentState(c) != access.StateAuthenticated {
				if strings.HasPrefix(c.Request().URL.Path, "/api/") {
					return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
				}
				return c.Redirect(http.StatusSeeOther, access.PathLoginRoot)
			}
			return next(c)
		}
	}
}

// RedirectAuthenticated mounts a route in the public tree. Signed-in
// sessions are sent to the dashboard.
func RedirectAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentState(c) == access.StateAuthenticated {
				return c.Redirect(http.StatusSeeOther, access.PathDashboard)
			}
			return next(c)
		}
	}
}
