package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poing/admin-console/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges credentials for a token and the staff profile.
func (cl *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var resp loginResponse
	err := cl.doJSON(ctx, call{
		endpoint: "auth_login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, fmt.Errorf("auth_login: %w: empty token", domain.ErrUnexpectedResponse)
	}
	return resp.Token, resp.User, nil
}

// The forgot-password endpoints answer 201 Created on success; anything else
// is a failure even when it is a 2xx.

func (cl *Client) SendOTP(ctx context.Context, email string) error {
	_, err := cl.do(ctx, call{
		endpoint: "otp_send",
		method:   http.MethodPost,
		path:     "/auth/forgot-password/send-otp",
		body:     map[string]string{"email": email},
		expect:   http.StatusCreated,
	})
	return err
}

func (cl *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := cl.do(ctx, call{
		endpoint: "otp_verify",
		method:   http.MethodPost,
		path:     "/auth/forgot-password/verify-otp",
		body:     map[string]string{"email": email, "otp": otp},
		expect:   http.StatusCreated,
	})
	return err
}

func (cl *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	_, err := cl.do(ctx, call{
		endpoint: "password_reset",
		method:   http.MethodPost,
		path:     "/auth/forgot-password/reset",
		body:     map[string]string{"email": email, "newPassword": newPassword},
		expect:   http.StatusCreated,
	})
	return err
}

func (cl *Client) Stats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := cl.doJSON(ctx, call{
		endpoint: "dashboard_stats",
		method:   http.MethodGet,
		path:     "/dashboard/stats",
		token:    token,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (cl *Client) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := cl.doJSON(ctx, call{
		endpoint: "users_list",
		method:   http.MethodGet,
		path:     "/users",
		token:    token,
	}, &accounts)
	return accounts, err
}

func (cl *Client) CreateAccount(ctx context.Context, token, email, password string) (*domain.Account, error) {
	var acc domain.Account
	err := cl.doJSON(ctx, call{
		endpoint: "users_create",
		method:   http.MethodPost,
		path:     "/users",
		token:    token,
		body:     loginRequest{Email: email, Password: password},
	}, &acc)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (cl *Client) UpdateAccount(ctx context.Context, token, id string, p domain.AccountProfile) (*domain.Account, error) {
	var acc domain.Account
	err := cl.doJSON(ctx, call{
		endpoint: "users_update",
		method:   http.MethodPatch,
		path:     "/users/" + url.PathEscape(id),
		token:    token,
		body:     p,
	}, &acc)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (cl *Client) BlockAccount(ctx context.Context, token, id string) error {
	_, err := cl.do(ctx, call{
		endpoint: "users_block",
		method:   http.MethodPost,
		path:     "/users/" + url.PathEscape(id) + "/block",
		token:    token,
	})
	return err
}

func (cl *Client) SuspendAccount(ctx context.Context, token, id string, days int) error {
	_, err := cl.do(ctx, call{
		endpoint: "users_suspend",
		method:   http.MethodPost,
		path:     "/users/" + url.PathEscape(id) + "/suspend",
		token:    token,
		body:     map[string]int{"days": days},
	})
	return err
}

func (cl *Client) ListReports(ctx context.Context, token string) ([]domain.Report, error) {
	var reports []domain.Report
	err := cl.doJSON(ctx, call{
		endpoint: "reports_list",
		method:   http.MethodGet,
		path:     "/reports",
		token:    token,
	}, &reports)
	return reports, err
}

func (cl *Client) UpdateReportStatus(ctx context.Context, token, id string, status domain.ReportStatus) error {
	_, err := cl.do(ctx, call{
		endpoint: "reports_update",
		method:   http.MethodPatch,
		path:     "/reports/" + url.PathEscape(id),
		token:    token,
		body:     map[string]domain.ReportStatus{"status": status},
	})
	return err
}

func (cl *Client) ListMessages(ctx context.Context, token string, page, limit int) ([]byte, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return cl.do(ctx, call{
		endpoint: "inbox_list",
		method:   http.MethodGet,
		path:     "/inbox/messages?" + q.Encode(),
		token:    token,
	})
}

func (cl *Client) Reply(ctx context.Context, token string, mail domain.OutgoingEmail) error {
	_, err := cl.do(ctx, call{
		endpoint: "inbox_reply",
		method:   http.MethodPost,
		path:     "/inbox/messages",
		token:    token,
		body:     mail,
	})
	return err
}

func (cl *Client) Send(ctx context.Context, token string, mail domain.OutgoingEmail) error {
	_, err := cl.do(ctx, call{
		endpoint: "inbox_send",
		method:   http.MethodPost,
		path:     "/inbox/send",
		token:    token,
		body:     mail,
	})
	return err
}

func (cl *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var cats []domain.Category
	err := cl.doJSON(ctx, call{
		endpoint: "categories_list",
		method:   http.MethodGet,
		path:     "/config/categories",
		token:    token,
	}, &cats)
	return cats, err
}

func (cl *Client) CreateCategory(ctx context.Context, token string, c domain.Category) (*domain.Category, error) {
	var created domain.Category
	err := cl.doJSON(ctx, call{
		endpoint: "categories_create",
		method:   http.MethodPost,
		path:     "/config/categories",
		token:    token,
		body:     c,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (cl *Client) UpdateCategory(ctx context.Context, token, id string, u domain.CategoryUpdate) (*domain.Category, error) {
	var updated domain.Category
	err := cl.doJSON(ctx, call{
		endpoint: "categories_update",
		method:   http.MethodPatch,
		path:     "/config/categories/" + url.PathEscape(id),
		token:    token,
		body:     u,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (cl *Client) DeleteCategory(ctx context.Context, token, id string) error {
	_, err := cl.do(ctx, call{
		endpoint: "categories_delete",
		method:   http.MethodDelete,
		path:     "/config/categories/" + url.PathEscape(id),
		token:    token,
	})
	return err
}

func (cl *Client) GetLegal(ctx context.Context, token string, kind domain.LegalKind) (*domain.LegalDocument, error) {
	var doc domain.LegalDocument
	err := cl.doJSON(ctx, call{
		endpoint: "legal_get",
		method:   http.MethodGet,
		path:     "/legal/" + url.PathEscape(string(kind)),
		token:    token,
	}, &doc)
	if err != nil {
		return nil, err
	}
	doc.Kind = kind
	return &doc, nil
}

func (cl *Client) UpdateLegal(ctx context.Context, token string, kind domain.LegalKind, content string) (*domain.LegalDocument, error) {
	var doc domain.LegalDocument
	err := cl.doJSON(ctx, call{
		endpoint: "legal_update",
		method:   http.MethodPatch,
		path:     "/legal/" + url.PathEscape(string(kind)),
		token:    token,
		body:     map[string]string{"content": content},
	}, &doc)
	if err != nil {
		return nil, err
	}
	doc.Kind = kind
	return &doc, nil
}
