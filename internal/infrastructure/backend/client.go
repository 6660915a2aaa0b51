// Package backend is the console's REST client for the Poing backend. Every
// call carries the session's bearer token except the public auth endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config captures how to reach the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client. A default timeout is applied when none is provided.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Error is a non-success backend response. It unwraps to the domain error
// matching its status so callers can use errors.Is.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s: %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: %d", e.Endpoint, e.Status)
}

func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return domain.ErrThrottled
	case e.Status >= 500:
		return domain.ErrBackendUnavailable
	}
	return domain.ErrUnexpectedResponse
}

// PublicMessage is the message the backend wants shown to the user, if any.
func (e *Error) PublicMessage() string {
	return e.Message
}

// UserMessage returns the backend's own message when it sent one.
func UserMessage(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// call describes one backend request.
type call struct {
	endpoint string
	method   string
	path     string
	token    string
	body     any
	// expect pins the success status; zero accepts any 2xx.
	expect int
}

// do performs c and returns the raw response body.
func (cl *Client) do(ctx context.Context, c call) ([]byte, error) {
	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", c.endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, cl.baseURL+c.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := cl.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(c.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(c.endpoint, "transport_error").Inc()
		cl.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("backend unreachable")
		return nil, fmt.Errorf("%s: %w: %w", c.endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(c.endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("read %s response: %w", c.endpoint, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if c.expect != 0 {
		ok = resp.StatusCode == c.expect
	}
	if !ok {
		metrics.BackendRequestsTotal.WithLabelValues(c.endpoint, outcome(resp.StatusCode)).Inc()
		cl.log.Debug().
			Str("endpoint", c.endpoint).
			Int("status", resp.StatusCode).
			Msg("backend call failed")
		return nil, &Error{Endpoint: c.endpoint, Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	metrics.BackendRequestsTotal.WithLabelValues(c.endpoint, "ok").Inc()
	return raw, nil
}

// doJSON performs c and decodes the response into out when out is non-nil.
func (cl *Client) doJSON(ctx context.Context, c call, out any) error {
	raw, err := cl.do(ctx, c)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %w", c.endpoint, domain.ErrUnexpectedResponse, err)
	}
	return nil
}

func outcome(status int) string {
	if status >= 500 {
		return "server_error"
	}
	return "client_error"
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body.
func errorMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &env) != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// Ping checks that the backend answers its health endpoint.
func (cl *Client) Ping(ctx context.Context) error {
	_, err := cl.do(ctx, call{endpoint: "health", method: http.MethodGet, path: "/health"})
	return err
}
