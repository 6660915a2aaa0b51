package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"COOKIE_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Session.Backend != SessionRedis {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.OTPResendCooldown != 60*time.Second {
		t.Fatalf("expected 60s cooldown, got %s", cfg.Auth.OTPResendCooldown)
	}
	if cfg.Session.RequireProfile {
		t.Fatalf("a token alone must authenticate by default")
	}
	if !cfg.Cookie.CSRF || !cfg.Audit.Enabled {
		t.Fatalf("csrf and audit are on by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"COOKIE_SECRET":           secret,
		"SESSION_BACKEND":         "memory",
		"SESSION_REQUIRE_PROFILE": "true",
		"BACKEND_TIMEOUT":         "3s",
		"AUTH_RATE_BURST":         "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Backend != SessionMemory || !cfg.Session.RequireProfile {
		t.Fatalf("session overrides not applied: %+v", cfg.Session)
	}
	if cfg.Backend.Timeout != 3*time.Second || cfg.Auth.RateBurst != 2 {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Backend, cfg.Auth)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "COOKIE_SECRET"},
		{"short secret", map[string]string{"COOKIE_SECRET": "short"}, "COOKIE_SECRET"},
		{"unknown session backend", map[string]string{"COOKIE_SECRET": secret, "SESSION_BACKEND": "file"}, "SESSION_BACKEND"},
		{"zero burst", map[string]string{"COOKIE_SECRET": secret, "AUTH_RATE_BURST": "0"}, "AUTH_RATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestDevBackend_Defaults(t *testing.T) {
	var cfg DevBackend
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{"DEV_BACKEND_PORT": "9090"}),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if cfg.Stack.Port != "9090" || cfg.Stack.TokenTTL != 24*time.Hour || cfg.LogLevel != "info" {
		t.Fatalf("unexpected dev backend config %+v", cfg)
	}
}
