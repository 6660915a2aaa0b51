package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
)

// Guard wraps a role-gated screen. When the session's role is not one of
// roles the client is sent to fallback with 303 See Other and no message.
// No roles means the screen is open to every signed-in role.
func Guard(fallback string, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := access.Guard(roles, CurrentSession(c).Role(), fallback)
			if d.Allow {
				return next(c)
			}
			metrics.GuardRedirectsTotal.WithLabelValues(c.Path()).Inc()
			return c.Redirect(http.StatusSeeOther, d.Redirect)
		}
	}
}
