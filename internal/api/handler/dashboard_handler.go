package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/ports"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
	log       zerolog.Logger
}

func NewDashboardHandler(dashboard ports.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

// Show renders the overview. A backend failure still renders the page,
// empty, with a toast.
func (h *DashboardHandler) Show(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	overview, err := h.dashboard.Overview(c.Request().Context(), sess)
	if err != nil {
		h.log.Error().Err(err).Msg("load dashboard")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load statistics."))
	}
	return render(c, "dashboard", "Dashboard", access.PathDashboard, overview)
}
