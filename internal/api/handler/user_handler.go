package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type createAccountRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type updateAccountRequest struct {
	FirstName string `form:"first_name" validate:"required,max=100"`
	LastName  string `form:"last_name" validate:"required,max=100"`
	Phone     string `form:"phone" validate:"max=40"`
	Country   string `form:"country" validate:"required,max=100"`
	Address   string `form:"address" validate:"max=255"`
}

type suspendRequest struct {
	Days int `form:"days" validate:"gt=0"`
}

type usersView struct {
	Search string
	Page   *ports.AccountPage
	Pager  Pager
}

func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// List renders the account table with local search and paging.
func (h *UserHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	search := strings.TrimSpace(c.QueryParam("search"))

	view := usersView{Search: search}
	page, err := h.users.List(c.Request().Context(), sess, ports.AccountQuery{Search: search, Page: pageParam(c)})
	if err != nil {
		h.log.Error().Err(err).Msg("list accounts")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load users."))
	} else {
		keep := url.Values{}
		if search != "" {
			keep.Set("search", search)
		}
		view.Page = page
		view.Pager = newPager(page.Page, page.TotalPages, keep)
	}
	return render(c, "users", "User Management", access.PathUserManagement, view)
}

func (h *UserHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, err.Error())
	}

	acc, err := h.users.Create(c.Request().Context(), sess, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, userMessage(err, "Could not create the user."))
	}
	return redirectWith(c, access.PathUserManagement, middleware.FlashSuccess, "User "+acc.Email+" created.")
}

func (h *UserHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, err.Error())
	}

	_, err = h.users.Update(c.Request().Context(), sess, c.Param("id"), domain.AccountProfile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Country:   strings.TrimSpace(req.Country),
		Address:   strings.TrimSpace(req.Address),
	})
	if err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, userMessage(err, "Could not update the user."))
	}
	return redirectWith(c, access.PathUserManagement, middleware.FlashSuccess, "User updated.")
}

func (h *UserHandler) Block(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.users.Block(c.Request().Context(), sess, c.Param("id")); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, userMessage(err, "Could not block the user."))
	}
	return redirectWith(c, access.PathUserManagement, middleware.FlashSuccess, "User blocked.")
}

func (h *UserHandler) Suspend(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req suspendRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, "Enter the number of days.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, err.Error())
	}

	if err := h.users.Suspend(c.Request().Context(), sess, c.Param("id"), req.Days); err != nil {
		return redirectWith(c, access.PathUserManagement, middleware.FlashError, userMessage(err, "Could not suspend the user."))
	}
	return redirectWith(c, access.PathUserManagement, middleware.FlashSuccess,
		"User suspended for "+strconv.Itoa(req.Days)+" days.")
}
