package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
)

// Page is the view model every template receives.
type Page struct {
	Title   string
	Active  string
	Public  bool
	User    *domain.User
	Nav     []access.Entry
	Flashes []middleware.Flash
	CSRF    string
	Data    any
}

// Pager drives the shared pagination partial. Query carries the other
// query parameters, already encoded and ending in "&" when non-empty.
type Pager struct {
	Page       int
	TotalPages int
	Query      template.URL
}

func newPager(page, totalPages int, keep url.Values) Pager {
	q := ""
	if enc := keep.Encode(); enc != "" {
		q = enc + "&"
	}
	return Pager{Page: page, TotalPages: totalPages, Query: template.URL(q)}
}

func csrfToken(c echo.Context) string {
	tok, _ := c.Get("csrf").(string)
	return tok
}

// render draws a protected screen with the sidebar filtered for the
// session's role.
func render(c echo.Context, name, title, active string, data any) error {
	sess := middleware.CurrentSession(c)
	return c.Render(http.StatusOK, name, Page{
		Title:   title,
		Active:  active,
		User:    sess.User,
		Nav:     access.FilterNavigation(access.Navigation, sess.Role()),
		Flashes: middleware.Flashes(c),
		CSRF:    csrfToken(c),
		Data:    data,
	})
}

// renderPublic draws a page of the sign-in flow.
func renderPublic(c echo.Context, name, title string, data any) error {
	return c.Render(http.StatusOK, name, Page{
		Title:   title,
		Public:  true,
		Flashes: middleware.Flashes(c),
		CSRF:    csrfToken(c),
		Data:    data,
	})
}

// redirectWith queues a toast and sends the browser to path.
func redirectWith(c echo.Context, path, kind, msg string) error {
	middleware.AddFlash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, path)
}

type publicMessager interface {
	PublicMessage() string
}

// userMessage turns a service error into the text of a toast. Backend
// messages are shown as sent; unknown failures fall back to fallback.
func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrInvalidOTP):
		return "The code is invalid or has expired."
	case errors.Is(err, domain.ErrWeakPassword):
		return "Choose a stronger password."
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, domain.ErrThrottled):
		return "Please wait a minute before requesting another code."
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "The server is not reachable. Please try again."
	case errors.Is(err, domain.ErrSessionNotPersisted):
		return "Your session could not be saved. Please try again."
	}

	var pm publicMessager
	if errors.As(err, &pm) && pm.PublicMessage() != "" {
		return pm.PublicMessage()
	}
	return fallback
}
