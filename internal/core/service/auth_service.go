package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
	"github.com/poing/admin-console/internal/core/session"
)

// MinPasswordScore is the lowest PasswordStrength accepted on reset.
const MinPasswordScore = 3

// AuthService signs staff in and out and runs the forgot-password flow.
type AuthService struct {
	gw       ports.AuthGateway
	store    *session.Store
	throttle ports.Throttle
	audit    auditor
	log      zerolog.Logger
}

func NewAuthService(
	gw ports.AuthGateway,
	store *session.Store,
	throttle ports.Throttle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		gw:       gw,
		store:    store,
		throttle: throttle,
		audit:    auditor{rec: audit, log: log},
		log:      log,
	}
}

// Login authenticates with the backend, then persists token and profile for
// the browser as one unit.
func (s *AuthService) Login(ctx context.Context, browserID, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	token, user, err := s.gw.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
			return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	if err := s.store.Save(ctx, browserID, token, user); err != nil {
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	sess := domain.Session{Token: token, User: user}
	metrics.SignInsTotal.WithLabelValues("success").Inc()
	s.audit.record(ctx, sess, domain.AuditSignIn, email, nil)
	s.log.Info().Str("role", string(sess.Role())).Msg("staff signed in")

	return sess, nil
}

// SignOut removes the browser's session. The backend is not told.
func (s *AuthService) SignOut(ctx context.Context, browserID string, sess domain.Session) error {
	if err := s.store.Clear(ctx, browserID); err != nil {
		return err
	}
	s.audit.record(ctx, sess, domain.AuditSignOut, "", nil)
	return nil
}

// SendOTP asks the backend to email a verification code, at most once per
// cooldown window per address. A throttle outage does not block the request.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrInvalidInput
	}

	allowed, err := s.throttle.Allow(ctx, "otp:"+strings.ToLower(email))
	if err != nil {
		s.log.Warn().Err(err).Msg("otp cooldown check failed, sending anyway")
	} else if !allowed {
		metrics.OTPThrottledTotal.Inc()
		return domain.ErrThrottled
	}

	if err := s.gw.SendOTP(ctx, email); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP checks the 6-digit code with the backend.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	if strings.TrimSpace(email) == "" {
		return domain.ErrInvalidInput
	}
	if !ValidOTP(otp) {
		return domain.ErrInvalidOTP
	}

	if err := s.gw.VerifyOTP(ctx, email, otp); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidOTP, err)
		}
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}

// ResetPassword sets a new password once the code has been verified.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if strings.TrimSpace(in.Email) == "" || in.OTP == "" {
		return domain.ErrInvalidInput
	}
	if PasswordStrength(in.Password) < MinPasswordScore {
		return domain.ErrWeakPassword
	}
	if in.Password != in.Confirm {
		return domain.ErrPasswordMismatch
	}

	if err := s.gw.ResetPassword(ctx, in.Email, in.Password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.log.Info().Msg("password reset completed")
	return nil
}

// ValidOTP reports whether code is exactly six ASCII digits.
func ValidOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// PasswordChecks lists which strength rules a password meets.
type PasswordChecks struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// Score counts the rules met, 0 to 5.
func (c PasswordChecks) Score() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Uppercase, c.Lowercase, c.Number, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

func CheckPassword(pw string) PasswordChecks {
	c := PasswordChecks{Length: len([]rune(pw)) >= 8}
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			c.Uppercase = true
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		case strings.ContainsRune(passwordSpecials, r):
			c.Special = true
		}
	}
	return c
}

// PasswordStrength scores pw against length, case, digit and symbol rules.
func PasswordStrength(pw string) int {
	return CheckPassword(pw).Score()
}
