package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
)

// SessionAPI exposes the current session and its navigation as JSON.
type SessionAPI struct{}

func NewSessionAPI() *SessionAPI {
	return &SessionAPI{}
}

type sessionResponse struct {
	State string       `json:"state"`
	User  *domain.User `json:"user"`
}

type navigationResponse struct {
	Role    domain.Role    `json:"role"`
	Entries []access.Entry `json:"entries"`
}

// Session returns the application state and the stored profile.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/session [get]
func (h *SessionAPI) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		State: middleware.CurrentState(c).String(),
		User:  sess.User,
	})
}

// Navigation returns the sidebar entries visible to the session's role.
//
// @Summary      Sidebar navigation
// @Tags         session
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/navigation [get]
func (h *SessionAPI) Navigation(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, navigationResponse{
		Role:    sess.Role(),
		Entries: access.FilterNavigation(access.Navigation, sess.Role()),
	})
}
