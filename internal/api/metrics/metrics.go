// Package metrics defines the custom Prometheus metrics of the Poing admin
// console. It is the single source of truth for metric names, labels and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; request metrics are added per router by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "poing"
	subsystem = "console"
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionParseFailuresTotal counts stored user profiles that could not be
// decoded. The session is still loaded with its token.
var SessionParseFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_parse_failures_total",
		Help:      "Total number of stored user profiles that failed to decode.",
	},
)

// SessionStoreErrorsTotal counts failures of the session area.
// Label:
//   - op: "read", "write" or "remove"
var SessionStoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_store_errors_total",
		Help:      "Total number of session area operations that failed.",
	},
	[]string{"op"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - outcome: "success", "invalid_credentials" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts requests turned away by a route guard.
// Label:
//   - route: the guarded route path (e.g. "/user-management")
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "guard_redirects_total",
		Help:      "Total number of requests redirected by a route guard.",
	},
	[]string{"route"},
)

// OTPThrottledTotal counts code requests refused by the resend cooldown.
var OTPThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "otp_throttled_total",
		Help:      "Total number of verification code requests refused by the resend cooldown.",
	},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the REST backend.
// Labels:
//   - endpoint: the logical endpoint (e.g. "auth_login", "users_list")
//   - outcome: "ok", "client_error", "server_error" or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backend_requests_total",
		Help:      "Total number of backend calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// BackendRequestDuration measures backend call latency.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditWriteFailuresTotal counts audit entries that could not be persisted.
// Label:
//   - action: the audited action (e.g. "sign_in")
var AuditWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit entries that failed to persist.",
	},
	[]string{"action"},
)
