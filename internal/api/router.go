package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/poing/admin-console/internal/api/handler"
	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/api/view"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
	"github.com/poing/admin-console/internal/ids"
	"github.com/poing/admin-console/internal/infrastructure/http/handlers"
)

// Services are the use cases the console's screens call.
type Services struct {
	Auth      ports.AuthService
	Dashboard ports.DashboardService
	Users     ports.UserService
	Reports   ports.ReportService
	Inbox     ports.InboxService
	Config    ports.ConfigService
	Legal     ports.LegalService
}

// Options tune the HTTP layer.
type Options struct {
	CookieSecret   string
	CookieSecure   bool
	CookieMaxAge   int
	CSRF           bool
	RequireProfile bool
	AuthRate       float64
	AuthBurst      int
}

// Deps is everything NewRouter wires together.
type Deps struct {
	Log       zerolog.Logger
	Sessions  middleware.SessionLoader
	Services  Services
	Readiness *handlers.HealthDependenciesHandler
	Options   Options
}

// infraPath reports paths served without a browser session.
func infraPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || p == "/health" || strings.HasPrefix(p, "/health/") ||
		strings.HasPrefix(p, "/swagger/") || strings.HasPrefix(p, "/static/")
}

func skipInfra(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if infraPath(c) {
				return next(c)
			}
			return wrapped(c)
		}
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: ids.New}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "poing",
		Subsystem:                 "console_http",
		Registerer:                reg,
		Skipper:                   infraPath,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(session.Middleware(middleware.NewCookieStore(d.Options.CookieSecret, d.Options.CookieSecure, d.Options.CookieMaxAge)))
	e.Use(skipInfra(middleware.Browser(d.Log)))
	e.Use(skipInfra(middleware.LoadSession(d.Sessions, d.Options.RequireProfile)))
	if d.Options.CSRF {
		e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			Skipper:        infraPath,
			TokenLookup:    "form:_csrf",
			CookieName:     "poing_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   d.Options.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	// --- Dependencies ---
	svc := d.Services
	authHandler := handler.NewAuthHandler(svc.Auth, d.Log)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard, d.Log)
	userHandler := handler.NewUserHandler(svc.Users, d.Log)
	reportHandler := handler.NewReportHandler(svc.Reports, d.Log)
	inboxHandler := handler.NewInboxHandler(svc.Inbox, d.Log)
	configHandler := handler.NewConfigHandler(svc.Config, d.Log)
	termsHandler := handler.NewLegalHandler(svc.Legal, domain.LegalTerms, "Terms & Conditions", access.PathTerms, d.Log)
	privacyHandler := handler.NewLegalHandler(svc.Legal, domain.LegalPrivacy, "Privacy Policy", access.PathPrivacy, d.Log)
	sessionAPI := handler.NewSessionAPI()

	// --- Public tree ---
	public := []echo.MiddlewareFunc{middleware.RedirectAuthenticated()}
	limited := []echo.MiddlewareFunc{middleware.RedirectAuthenticated(), middleware.RateLimit(d.Options.AuthRate, d.Options.AuthBurst)}

	e.GET(access.PathLoginRoot, authHandler.LoginPage, public...)
	e.GET(access.PathLogin, authHandler.LoginPage, public...)
	e.POST(access.PathLogin, authHandler.Login, limited...)
	e.GET(access.PathForgotPassword, authHandler.ForgotPage, public...)
	e.POST(access.PathForgotPassword, authHandler.Forgot, limited...)
	e.GET(access.PathVerifyOTP, authHandler.VerifyPage, public...)
	e.POST(access.PathVerifyOTP, authHandler.Verify, limited...)
	e.POST(access.PathVerifyOTP+"/resend", authHandler.Resend, limited...)
	e.GET(access.PathResetPassword, authHandler.ResetPage, public...)
	e.POST(access.PathResetPassword, authHandler.Reset, limited...)
	e.GET(access.PathResetSuccess, authHandler.ResetSuccess, public...)

	// --- Protected tree ---
	guarded := func(roles []domain.Role) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{middleware.RequireAuthenticated(), middleware.Guard(access.PathDashboard, roles...)}
	}
	dashboard := guarded(access.DashboardRoles)
	users := guarded(access.UserManagementRoles)
	reports := guarded(access.ReportsRoles)
	inbox := guarded(access.CustomerServiceRoles)
	config := guarded(access.ConfigurationRoles)
	legal := guarded(access.LegalRoles)

	e.POST(access.PathLogout, authHandler.Logout, middleware.RequireAuthenticated())

	e.GET(access.PathDashboard, dashboardHandler.Show, dashboard...)

	e.GET(access.PathUserManagement, userHandler.List, users...)
	e.POST(access.PathUserManagement+"/users", userHandler.Create, users...)
	e.POST(access.PathUserManagement+"/users/:id", userHandler.Update, users...)
	e.POST(access.PathUserManagement+"/users/:id/block", userHandler.Block, users...)
	e.POST(access.PathUserManagement+"/users/:id/suspend", userHandler.Suspend, users...)

	e.GET(access.PathReports, reportHandler.List, reports...)
	e.POST(access.PathReports+"/:id/status", reportHandler.UpdateStatus, reports...)

	e.GET(access.PathCustomerService, inboxHandler.List, inbox...)
	e.POST(access.PathCustomerService+"/reply", inboxHandler.Reply, inbox...)
	e.POST(access.PathCustomerService+"/compose", inboxHandler.Compose, inbox...)

	e.GET(access.PathConfiguration, configHandler.List, config...)
	e.POST(access.PathConfiguration+"/categories", configHandler.Create, config...)
	e.POST(access.PathConfiguration+"/categories/:id", configHandler.Update, config...)
	e.POST(access.PathConfiguration+"/categories/:id/delete", configHandler.Delete, config...)

	e.GET(access.PathTerms, termsHandler.Show, legal...)
	e.POST(access.PathTerms, termsHandler.Publish, legal...)
	e.GET(access.PathPrivacy, privacyHandler.Show, legal...)
	e.POST(access.PathPrivacy, privacyHandler.Publish, legal...)

	e.GET("/api/session", sessionAPI.Session, middleware.RequireAuthenticated())
	e.GET("/api/navigation", sessionAPI.Navigation, middleware.RequireAuthenticated())

	// --- Paths in neither tree ---
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, access.UnknownPathTarget(middleware.CurrentState(c)))
	})

	// --- Infrastructure (no session) ---
	e.StaticFS("/static", view.Static())
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness) // readiness – are dependencies up?
	}

	return e, nil
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/static/")
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError || v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
