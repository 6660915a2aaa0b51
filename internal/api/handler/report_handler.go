package handler

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
	log     zerolog.Logger
}

func NewReportHandler(reports ports.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

type statusFilter struct {
	Value string
	Label string
}

var reportFilters = []statusFilter{
	{"all", "All statuses"},
	{"pending", "Pending"},
	{"underreview", "Under Review"},
	{"resolved", "Resolved"},
}

var reportStatuses = []string{
	string(domain.ReportPending),
	string(domain.ReportUnderReview),
	string(domain.ReportResolved),
}

type reportsView struct {
	Search   string
	Status   string
	Filters  []statusFilter
	Statuses []string
	Page     *ports.ReportPage
	Pager    Pager
}

type reportStatusRequest struct {
	Status string `form:"status" validate:"required,oneof=Pending 'Under Review' Resolved"`
}

func (h *ReportHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	search := strings.TrimSpace(c.QueryParam("search"))
	status := c.QueryParam("status")
	if status == "" {
		status = "all"
	}

	view := reportsView{Search: search, Status: status, Filters: reportFilters, Statuses: reportStatuses}
	page, err := h.reports.List(c.Request().Context(), sess, ports.ReportQuery{Search: search, Status: status, Page: pageParam(c)})
	if err != nil {
		h.log.Error().Err(err).Msg("list reports")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load reports."))
	} else {
		keep := url.Values{}
		if search != "" {
			keep.Set("search", search)
		}
		if status != "all" {
			keep.Set("status", status)
		}
		view.Page = page
		view.Pager = newPager(page.Page, page.TotalPages, keep)
	}
	return render(c, "reports", "Reports & Complaints", access.PathReports, view)
}

// UpdateStatus moves a report through moderation.
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req reportStatusRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathReports, middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathReports, middleware.FlashError, err.Error())
	}

	if err := h.reports.UpdateStatus(c.Request().Context(), sess, c.Param("id"), req.Status); err != nil {
		return redirectWith(c, access.PathReports, middleware.FlashError, userMessage(err, "Could not update the report."))
	}
	return redirectWith(c, access.PathReports, middleware.FlashSuccess, "Report marked as "+req.Status+".")
}
