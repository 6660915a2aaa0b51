// Package devbackend is an in-memory stand-in for the Poing REST backend. It
// serves every endpoint the console consumes, seeded with sample marketplace
// data, and enforces bearer tokens and roles the way the real backend does.
package devbackend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/poing/admin-console/internal/core/domain"
)

const minPasswordLen = 8

// Config tunes the dev backend.
type Config struct {
	JWTSecret  string
	TokenTTL   time.Duration
	OTPTTL     time.Duration
	BcryptCost int
	// NewOTP generates reset codes; random six digits when nil.
	NewOTP func() string
}

// Server owns the seeded store and the echo instance serving it.
type Server struct {
	cfg   Config
	store *Store
	log   zerolog.Logger
	now   func() time.Time
	echo  *echo.Echo
}

// New seeds a store and registers every backend route.
func New(cfg Config, log zerolog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "poing-dev-secret"
		log.Warn().Msg("no JWT secret configured, using the built-in development secret")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.NewOTP == nil {
		cfg.NewOTP = randomOTP
	}

	store, err := newStore(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, store: store, log: log, now: time.Now}
	if err := s.seedStaffAccounts(); err != nil {
		return nil, err
	}
	s.echo = s.routes()
	return s, nil
}

// Handler returns the echo instance serving the backend API.
func (s *Server) Handler() *echo.Echo { return s.echo }

// Store exposes the in-memory state.
func (s *Server) Store() *Store { return s.store }

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			s.log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("backend request")
			return nil
		},
	}))

	auth := Auth(s.cfg.JWTSecret)
	staff := RBAC(domain.RoleAdmin, domain.RoleUser, domain.RoleReportManager)
	managers := RBAC(domain.RoleAdmin, domain.RoleUser)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/login", s.handleLogin)
	e.POST("/auth/forgot-password/send-otp", s.handleSendOTP)
	e.POST("/auth/forgot-password/verify-otp", s.handleVerifyOTP)
	e.POST("/auth/forgot-password/reset", s.handleReset)

	e.GET("/dashboard/stats", s.handleStats, auth, staff)

	e.GET("/users", s.handleListUsers, auth, managers)
	e.POST("/users", s.handleCreateUser, auth, managers)
	e.PATCH("/users/:id", s.handleUpdateUser, auth, managers)
	e.POST("/users/:id/block", s.handleBlockUser, auth, managers)
	e.POST("/users/:id/suspend", s.handleSuspendUser, auth, managers)

	e.GET("/reports", s.handleListReports, auth, staff)
	e.PATCH("/reports/:id", s.handleUpdateReport, auth, staff)

	e.GET("/inbox/messages", s.handleListMessages, auth, managers)
	e.POST("/inbox/messages", s.handleDeliver, auth, managers)
	e.POST("/inbox/send", s.handleDeliver, auth, managers)

	e.GET("/config/categories", s.handleListCategories, auth, managers)
	e.POST("/config/categories", s.handleCreateCategory, auth, managers)
	e.PATCH("/config/categories/:id", s.handleUpdateCategory, auth, managers)
	e.DELETE("/config/categories/:id", s.handleDeleteCategory, auth, managers)

	e.GET("/legal/:kind", s.handleGetLegal, auth, staff)
	e.PATCH("/legal/:kind", s.handleUpdateLegal, auth, staff)

	return e
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}

// storeError maps store failures to responses.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errNotFound):
		return errorJSON(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, errExists):
		return errorJSON(c, http.StatusConflict, "resource already exists")
	}
	return err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	token, user, err := s.login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, errBadCredentials) {
			return errorJSON(c, http.StatusUnauthorized, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": user})
}

type otpRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleSendOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return errorJSON(c, http.StatusBadRequest, "email is required")
	}
	if err := s.sendOTP(req.Email); err != nil {
		if errors.Is(err, errNotFound) {
			return errorJSON(c, http.StatusNotFound, "No account found with this email")
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "OTP sent to your email"})
}

func (s *Server) handleVerifyOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OTP == "" {
		return errorJSON(c, http.StatusBadRequest, "email and otp are required")
	}
	if err := s.verifyOTP(req.Email, req.OTP); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "OTP verified"})
}

func (s *Server) handleReset(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return errorJSON(c, http.StatusBadRequest, "email is required")
	}
	if len(req.NewPassword) < minPasswordLen {
		return errorJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
	}
	if err := s.resetPassword(req.Email, req.NewPassword); err != nil {
		if errors.Is(err, errOTPNotVerified) || errors.Is(err, errNotFound) {
			return errorJSON(c, http.StatusBadRequest, errOTPNotVerified.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Password reset successfully"})
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.dashboard())
}

func (s *Server) handleListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Accounts())
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil || !strings.Contains(req.Email, "@") || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "a valid email and a password are required")
	}
	acc, err := s.store.createAccount(strings.TrimSpace(req.Email))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, acc)
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	var p domain.AccountProfile
	if err := c.Bind(&p); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	acc, err := s.store.updateAccount(c.Param("id"), p)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (s *Server) handleBlockUser(c echo.Context) error {
	if err := s.store.setAccountStatus(c.Param("id"), domain.AccountBlocked); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSuspendUser(c echo.Context) error {
	var req struct {
		Days int `json:"days"`
	}
	if err := c.Bind(&req); err != nil || req.Days <= 0 {
		return errorJSON(c, http.StatusBadRequest, "days must be positive")
	}
	if err := s.store.setAccountStatus(c.Param("id"), domain.AccountSuspended); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListReports(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Reports())
}

func (s *Server) handleUpdateReport(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	st, ok := domain.ParseReportStatus(req.Status)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "unknown status")
	}
	r, err := s.store.setReportStatus(c.Param("id"), st)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleListMessages(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	msgs, total := s.store.messagePage(page, limit)
	return c.JSON(http.StatusOK, map[string]any{
		"messages": msgs,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (s *Server) handleDeliver(c echo.Context) error {
	var m domain.OutgoingEmail
	if err := c.Bind(&m); err != nil || m.To == "" || m.Subject == "" || m.HTML == "" {
		return errorJSON(c, http.StatusBadRequest, "to, subject and html are required")
	}
	s.store.deliver(m)
	s.log.Info().Str("to", m.To).Str("subject", m.Subject).Msg("email accepted for delivery")
	return c.JSON(http.StatusCreated, map[string]string{"message": "Email sent"})
}

func (s *Server) handleListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Categories())
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var cat domain.Category
	if err := c.Bind(&cat); err != nil || strings.TrimSpace(cat.Name) == "" || cat.ExpiryDays <= 0 {
		return errorJSON(c, http.StatusBadRequest, "name and a positive expiry are required")
	}
	created, err := s.store.createCategory(cat)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(c echo.Context) error {
	var u domain.CategoryUpdate
	if err := c.Bind(&u); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	updated, err := s.store.updateCategory(c.Param("id"), u)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(c echo.Context) error {
	if err := s.store.deleteCategory(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetLegal(c echo.Context) error {
	doc, err := s.store.legalDoc(domain.LegalKind(c.Param("kind")))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) handleUpdateLegal(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return errorJSON(c, http.StatusBadRequest, "content is required")
	}
	doc, err := s.store.publishLegal(domain.LegalKind(c.Param("kind")), req.Content, s.now().UTC())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}
