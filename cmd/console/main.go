package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/poing/admin-console/docs"
	"github.com/poing/admin-console/internal/api"
	"github.com/poing/admin-console/internal/core/ports"
	"github.com/poing/admin-console/internal/core/service"
	"github.com/poing/admin-console/internal/core/session"
	"github.com/poing/admin-console/internal/infrastructure/backend"
	"github.com/poing/admin-console/internal/infrastructure/db/mongo"
	"github.com/poing/admin-console/internal/infrastructure/db/redis"
	"github.com/poing/admin-console/internal/infrastructure/http/handlers"
	"github.com/poing/admin-console/internal/infrastructure/memory"
	"github.com/poing/admin-console/internal/infrastructure/queue"
	"github.com/poing/admin-console/internal/pkg/config"
	"github.com/poing/admin-console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "console",
	})

	if !cfg.IsDevelopment() && !cfg.Cookie.Secure {
		log.Warn().Str("env", cfg.Env).Msg("COOKIE_SECURE is off outside development; the browser cookie travels over plain HTTP")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Session area and code cooldown ---
	var (
		rdb      *goredis.Client
		area     ports.SessionArea
		throttle ports.Throttle
	)
	switch cfg.Session.Backend {
	case config.SessionRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		rdb = client
		area = redis.NewSessionArea(client, cfg.Session.TTL)
		throttle = redis.NewCooldown(client, cfg.Auth.OTPResendCooldown)
	default:
		log.Warn().Msg("sessions are kept in memory and are lost on restart")
		area = memory.NewSessionArea()
		throttle = memory.NewCooldown(cfg.Auth.OTPResendCooldown)
	}

	// --- Audit trail ---
	var (
		mdb     *mongodriver.Database
		mclient *mongodriver.Client
		audit   ports.AuditRecorder = mongo.NopAuditRecorder{}
		auditQ  *queue.AuditDispatcher
	)
	if cfg.Audit.Enabled {
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "poing-console",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		mclient, mdb = client, db

		repo := mongo.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not create audit indexes")
		}
		auditQ = queue.NewAuditDispatcher(cfg.Audit.Workers, repo, log)
		auditQ.Start(ctx)
		audit = auditQ
	}

	// --- Backend and services ---
	gw := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, log)
	store := session.NewStore(area, log)

	e, err := api.NewRouter(api.Deps{
		Log:      log,
		Sessions: store,
		Services: api.Services{
			Auth:      service.NewAuthService(gw, store, throttle, audit, log),
			Dashboard: service.NewDashboardService(gw, log),
			Users:     service.NewUserService(gw, audit, log),
			Reports:   service.NewReportService(gw, audit, log),
			Inbox:     service.NewInboxService(gw, audit, log),
			Config:    service.NewConfigService(gw, audit, log),
			Legal:     service.NewLegalService(gw, audit, log),
		},
		Readiness: handlers.NewHealthDependenciesHandler(mdb, rdb, gw),
		Options: api.Options{
			CookieSecret:   cfg.Cookie.Secret,
			CookieSecure:   cfg.Cookie.Secure,
			CookieMaxAge:   int(cfg.Session.TTL / time.Second),
			CSRF:           cfg.Cookie.CSRF,
			RequireProfile: cfg.Session.RequireProfile,
			AuthRate:       cfg.Auth.RatePerSecond,
			AuthBurst:      cfg.Auth.RateBurst,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Env).
			Str("backend", cfg.Backend.BaseURL).
			Str("sessions", cfg.Session.Backend).
			Msg("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	cancel()
	closeStores(shutdownCtx, log, auditQ, mclient, rdb)
	log.Info().Msg("stopped")
}

// closeStores flushes pending audit entries and closes the connections.
func closeStores(ctx context.Context, log zerolog.Logger, auditQ *queue.AuditDispatcher, mclient *mongodriver.Client, rdb *goredis.Client) {
	if auditQ != nil {
		auditQ.Wait()
	}
	if mclient != nil {
		if err := mclient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
}
