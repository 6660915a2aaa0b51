package ports

import (
	"context"

	"github.com/poing/admin-console/internal/core/domain"
)

// ResetPasswordInput is the last step of the forgot-password flow.
type ResetPasswordInput struct {
	Email    string
	OTP      string
	Password string
	Confirm  string
}

// AuthService signs staff in and out and drives password recovery.
type AuthService interface {
	// Login authenticates against the backend and persists the session for
	// the browser.
	Login(ctx context.Context, browserID, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, browserID string, s domain.Session) error
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}
