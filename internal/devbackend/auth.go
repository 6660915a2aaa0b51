package devbackend

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/poing/admin-console/internal/core/domain"
)

var (
	errBadCredentials = errors.New("invalid email or password")
	errBadOTP         = errors.New("invalid or expired OTP")
	errOTPNotVerified = errors.New("OTP has not been verified")
)

// seedStaffAccounts hashes SeedPassword for every seeded staff member.
func (s *Server) seedStaffAccounts() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, st := range seedStaff {
		s.store.staff[st.email] = &staffAccount{
			user:         domain.User{ID: st.id, Email: st.email, Role: st.role},
			passwordHash: hash,
		}
	}
	return nil
}

func (s *Server) login(email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, errBadCredentials
	}
	acc, ok := s.store.staffByEmail(email)
	if !ok {
		return "", domain.User{}, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return "", domain.User{}, errBadCredentials
	}

	token, err := s.issueToken(acc.user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, acc.user, nil
}

func (s *Server) issueToken(u domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  string(u.Role),
		"exp":   s.now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

// sendOTP issues a fresh code for a staff email. There is no mail delivery:
// the code is logged.
func (s *Server) sendOTP(email string) error {
	if _, ok := s.store.staffByEmail(email); !ok {
		return errNotFound
	}
	code := s.cfg.NewOTP()

	s.store.mu.Lock()
	s.store.otps[strings.ToLower(email)] = &otpState{code: code, expires: s.now().Add(s.cfg.OTPTTL)}
	s.store.mu.Unlock()

	s.log.Info().Str("email", email).Str("otp", code).Msg("password reset code issued")
	return nil
}

func (s *Server) verifyOTP(email, code string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	st, ok := s.store.otps[strings.ToLower(email)]
	if !ok || st.code != code || s.now().After(st.expires) {
		return errBadOTP
	}
	st.verified = true
	return nil
}

func (s *Server) resetPassword(email, password string) error {
	key := strings.ToLower(email)

	s.store.mu.Lock()
	st, ok := s.store.otps[key]
	verified := ok && st.verified && !s.now().After(st.expires)
	s.store.mu.Unlock()
	if !verified {
		return errOTPNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.setStaffPassword(email, hash); err != nil {
		return err
	}

	s.store.mu.Lock()
	delete(s.store.otps, key)
	s.store.mu.Unlock()
	return nil
}

// randomOTP returns six random decimal digits.
func randomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
