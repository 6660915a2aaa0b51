package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type ConfigHandler struct {
	config ports.ConfigService
	log    zerolog.Logger
}

func NewConfigHandler(config ports.ConfigService, log zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{config: config, log: log}
}

type createCategoryRequest struct {
	Name       string  `form:"name" validate:"required,max=80"`
	Fee        float64 `form:"fee" validate:"gte=0,lte=100"`
	ExpiryDays int     `form:"expiry" validate:"gt=0"`
}

// updateCategoryRequest keeps the raw inputs so a blank field leaves the
// current value untouched.
type updateCategoryRequest struct {
	Fee    string `form:"fee"`
	Expiry string `form:"expiry"`
}

func (r updateCategoryRequest) toUpdate() (domain.CategoryUpdate, bool) {
	var u domain.CategoryUpdate
	if s := strings.TrimSpace(r.Fee); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return u, false
		}
		u.Fee = &f
	}
	if s := strings.TrimSpace(r.Expiry); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return u, false
		}
		u.ExpiryDays = &n
	}
	return u, true
}

func (h *ConfigHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	overview, err := h.config.List(c.Request().Context(), sess)
	if err != nil {
		h.log.Error().Err(err).Msg("list categories")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load categories."))
	}
	return render(c, "config", "Poing Configuration", access.PathConfiguration, overview)
}

func (h *ConfigHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, "Fee and expiry must be numbers.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, err.Error())
	}

	cat, err := h.config.Create(c.Request().Context(), sess, ports.NewCategoryInput{
		Name:       req.Name,
		Fee:        req.Fee,
		ExpiryDays: req.ExpiryDays,
	})
	if err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, userMessage(err, "Could not add the category."))
	}
	return redirectWith(c, access.PathConfiguration, middleware.FlashSuccess, "Category "+cat.Name+" added.")
}

func (h *ConfigHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, "Invalid form submission.")
	}
	u, ok := req.toUpdate()
	if !ok {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, "Fee and expiry must be numbers.")
	}

	if _, err := h.config.Update(c.Request().Context(), sess, c.Param("id"), u); err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, userMessage(err, "Could not update the category."))
	}
	return redirectWith(c, access.PathConfiguration, middleware.FlashSuccess, "Category updated.")
}

func (h *ConfigHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.config.Delete(c.Request().Context(), sess, c.Param("id")); err != nil {
		return redirectWith(c, access.PathConfiguration, middleware.FlashError, userMessage(err, "Could not delete the category."))
	}
	return redirectWith(c, access.PathConfiguration, middleware.FlashSuccess, "Category deleted.")
}
