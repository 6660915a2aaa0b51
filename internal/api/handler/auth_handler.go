package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
	"github.com/poing/admin-console/internal/core/service"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type loginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type emailRequest struct {
	Email string `form:"email" validate:"required,email"`
}

type verifyRequest struct {
	Email string `form:"email" validate:"required,email"`
	OTP   string `form:"otp" validate:"required,len=6,numeric"`
}

type resetRequest struct {
	Email    string `form:"email" validate:"required,email"`
	OTP      string `form:"otp" validate:"required"`
	Password string `form:"password" validate:"required"`
	Confirm  string `form:"confirm" validate:"required"`
}

func withQuery(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return path + "?" + q.Encode()
}

// LoginPage renders the sign-in form. It serves both "/" and "/login".
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return renderPublic(c, "login", "Sign in", map[string]string{
		"Email": c.QueryParam("email"),
	})
}

// Login authenticates against the backend and persists the session for this
// browser. Failures go back to the sign-in page with a toast.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathLoginRoot, middleware.FlashError, "Invalid form submission.")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, withQuery(access.PathLoginRoot, "email", req.Email), middleware.FlashError, err.Error())
	}

	if _, err := h.authService.Login(c.Request().Context(), middleware.BrowserID(c), req.Email, req.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("sign-in failed")
		}
		return redirectWith(c, withQuery(access.PathLoginRoot, "email", req.Email), middleware.FlashError,
			userMessage(err, "Sign-in failed. Please try again."))
	}

	return c.Redirect(http.StatusSeeOther, access.PathDashboard)
}

// Logout clears the stored session and returns to the sign-in page. The
// browser id is replaced in every case, so a session area that could not be
// cleared still leaves the client signed out.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if err := h.authService.SignOut(c.Request().Context(), middleware.BrowserID(c), sess); err != nil {
		h.log.Error().Err(err).Msg("failed to clear session on sign-out")
	}
	if err := middleware.RotateBrowserID(c); err != nil {
		h.log.Error().Err(err).Msg("failed to rotate browser id on sign-out")
	}
	return c.Redirect(http.StatusSeeOther, access.PathLoginRoot)
}

func (h *AuthHandler) ForgotPage(c echo.Context) error {
	return renderPublic(c, "forgot_password", "Forgot password", map[string]string{
		"Email": c.QueryParam("email"),
	})
}

// Forgot requests a verification code for the address.
func (h *AuthHandler) Forgot(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathForgotPassword, middleware.FlashError, "Invalid form submission.")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathForgotPassword, middleware.FlashError, err.Error())
	}

	verify := withQuery(access.PathVerifyOTP, "email", req.Email)
	err := h.authService.SendOTP(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		return redirectWith(c, verify, middleware.FlashSuccess, "We sent a verification code to your email.")
	case errors.Is(err, domain.ErrThrottled):
		return redirectWith(c, verify, middleware.FlashInfo, userMessage(err, ""))
	case errors.Is(err, domain.ErrNotFound):
		return redirectWith(c, withQuery(access.PathForgotPassword, "email", req.Email), middleware.FlashError,
			userMessage(err, "No account found with this email."))
	default:
		h.log.Error().Err(err).Msg("send otp failed")
		return redirectWith(c, withQuery(access.PathForgotPassword, "email", req.Email), middleware.FlashError,
			userMessage(err, "Could not send the code. Please try again."))
	}
}

// VerifyPage renders the code form. Without an email there is nothing to
// verify, so the flow restarts.
func (h *AuthHandler) VerifyPage(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.Redirect(http.StatusSeeOther, access.PathForgotPassword)
	}
	return renderPublic(c, "verify_otp", "Verify code", map[string]string{"Email": email})
}

func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.Redirect(http.StatusSeeOther, access.PathForgotPassword)
	}
	back := withQuery(access.PathVerifyOTP, "email", req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if !service.ValidOTP(req.OTP) {
		return redirectWith(c, back, middleware.FlashError, "Enter the 6-digit code.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, back, middleware.FlashError, err.Error())
	}

	if err := h.authService.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		if !errors.Is(err, domain.ErrInvalidOTP) {
			h.log.Error().Err(err).Msg("verify otp failed")
		}
		return redirectWith(c, back, middleware.FlashError, userMessage(err, "Verification failed. Please try again."))
	}

	return c.Redirect(http.StatusSeeOther, withQuery(access.PathResetPassword, "email", req.Email, "otp", req.OTP))
}

// Resend asks for a fresh code, subject to the same cooldown as Forgot.
func (h *AuthHandler) Resend(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil || c.Validate(&req) != nil {
		return c.Redirect(http.StatusSeeOther, access.PathForgotPassword)
	}
	back := withQuery(access.PathVerifyOTP, "email", req.Email)

	if err := h.authService.SendOTP(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrThrottled) {
			return redirectWith(c, back, middleware.FlashInfo, userMessage(err, ""))
		}
		h.log.Error().Err(err).Msg("resend otp failed")
		return redirectWith(c, back, middleware.FlashError, userMessage(err, "Could not send the code. Please try again."))
	}
	return redirectWith(c, back, middleware.FlashSuccess, "A new code has been sent.")
}

// ResetPage renders the new-password form. Email and code come from the
// verify step; if either is missing the flow restarts.
func (h *AuthHandler) ResetPage(c echo.Context) error {
	email, otp := c.QueryParam("email"), c.QueryParam("otp")
	if email == "" || otp == "" {
		return c.Redirect(http.StatusSeeOther, access.PathForgotPassword)
	}
	return renderPublic(c, "reset_password", "Reset password", map[string]any{
		"Email":    email,
		"OTP":      otp,
		"MinScore": service.MinPasswordScore,
	})
}

func (h *AuthHandler) Reset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OTP == "" {
		return c.Redirect(http.StatusSeeOther, access.PathForgotPassword)
	}
	back := withQuery(access.PathResetPassword, "email", req.Email, "otp", req.OTP)
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, back, middleware.FlashError, err.Error())
	}

	err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Email:    req.Email,
		OTP:      req.OTP,
		Password: req.Password,
		Confirm:  req.Confirm,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrWeakPassword) && !errors.Is(err, domain.ErrPasswordMismatch) {
			h.log.Error().Err(err).Msg("password reset failed")
		}
		return redirectWith(c, back, middleware.FlashError, userMessage(err, "Password reset failed. Please try again."))
	}

	return c.Redirect(http.StatusSeeOther, access.PathResetSuccess)
}

func (h *AuthHandler) ResetSuccess(c echo.Context) error {
	return renderPublic(c, "reset_success", "Password updated", nil)
}
