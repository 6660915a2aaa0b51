package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session area backends.
const (
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Backend BackendConfig
	Session SessionConfig
	Cookie  CookieConfig
	Auth    AuthConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:8081/api/"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=10s"`
}

type SessionConfig struct {
	// Backend is "redis" or "memory".
	Backend string        `env:"SESSION_BACKEND, default=redis"`
	TTL     time.Duration `env:"SESSION_TTL,     default=168h"`
	// RequireProfile treats a token whose profile is missing as signed out.
	RequireProfile bool `env:"SESSION_REQUIRE_PROFILE, default=false"`
}

type CookieConfig struct {
	Secret string `env:"COOKIE_SECRET, required"`
	Secure bool   `env:"COOKIE_SECURE, default=false"`
	CSRF   bool   `env:"CSRF_ENABLED,  default=true"`
}

type AuthConfig struct {
	RatePerSecond     float64       `env:"AUTH_RATE_PER_SECOND, default=1"`
	RateBurst         int           `env:"AUTH_RATE_BURST,      default=10"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN,  default=60s"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=true"`
	// Workers is the number of background writers; entries of one actor
	// always go to the same writer.
	Workers int  `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=poing_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// DevBackendConfig configures the dev backend server.
type DevBackendConfig struct {
	Port      string        `env:"DEV_BACKEND_PORT, default=8081"`
	JWTSecret string        `env:"DEV_JWT_SECRET,   default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"DEV_TOKEN_TTL,    default=24h"`
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// DevBackend is the configuration of cmd/devbackend. It does not need the
// console's cookie secret.
type DevBackend struct {
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	Stack     DevBackendConfig
}

// LoadDevBackend is Load for the dev backend.
func LoadDevBackend() *DevBackend {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	var cfg DevBackend
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.OsLookuper(),
	}); err != nil {
		panic(fmt.Sprintf("config: failed to load dev backend configuration: %v", err))
	}
	return &cfg
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionRedis, SessionMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionRedis, SessionMemory, c.Session.Backend)
	}
	if len(c.Cookie.Secret) < 32 {
		return errors.New("COOKIE_SECRET must be at least 32 bytes")
	}
	if c.Auth.RatePerSecond <= 0 || c.Auth.RateBurst <= 0 {
		return errors.New("AUTH_RATE_PER_SECOND and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// IsDevelopment reports whether ENV selects local development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
