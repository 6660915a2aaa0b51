package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

// LegalHandler serves one legal document: terms or privacy.
type LegalHandler struct {
	legal ports.LegalService
	kind  domain.LegalKind
	title string
	path  string
	log   zerolog.Logger
}

func NewLegalHandler(legal ports.LegalService, kind domain.LegalKind, title, path string, log zerolog.Logger) *LegalHandler {
	return &LegalHandler{legal: legal, kind: kind, title: title, path: path, log: log}
}

type legalView struct {
	View    *ports.LegalView
	Editing bool
}

type publishRequest struct {
	Content string `form:"content" validate:"required"`
}

// Show renders the preview, or the editor with ?edit=1.
func (h *LegalHandler) Show(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view := legalView{Editing: c.QueryParam("edit") == "1"}
	view.View, err = h.legal.Get(c.Request().Context(), sess, h.kind)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(h.kind)).Msg("load legal document")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load the document."))
	}
	return render(c, "legal", h.title, h.path, view)
}

// Publish stores a new version of the document.
func (h *LegalHandler) Publish(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, h.path+"?edit=1", middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, h.path+"?edit=1", middleware.FlashError, err.Error())
	}

	view, err := h.legal.Publish(c.Request().Context(), sess, h.kind, req.Content)
	if err != nil {
		return redirectWith(c, h.path+"?edit=1", middleware.FlashError, userMessage(err, "Could not publish the document."))
	}
	return redirectWith(c, h.path, middleware.FlashSuccess, "Version "+view.Document.Version+" published.")
}
