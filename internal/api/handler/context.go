package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/domain"
)

// ctxSession returns the session restored for this request and performs a
// fast-fail check before any service call: a token must be present. The
// route trees already guarantee it; an empty token here means the handler
// was mounted without the session middleware.
func ctxSession(c echo.Context) (domain.Session, error) {
	s := middleware.CurrentSession(c)
	if !s.HasToken() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return s, nil
}
