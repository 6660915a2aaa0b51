package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poing/admin-console/internal/devbackend"
	"github.com/poing/admin-console/internal/pkg/config"
	"github.com/poing/admin-console/pkg/logger"
)

// apiPrefix matches the default BACKEND_BASE_URL of the console.
const apiPrefix = "/api"

func main() {
	cfg := config.LoadDevBackend()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "devbackend",
	})

	dev, err := devbackend.New(devbackend.Config{
		JWTSecret: cfg.Stack.JWTSecret,
		TokenTTL:  cfg.Stack.TokenTTL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed dev backend")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Stack.Port,
		Handler:           http.StripPrefix(apiPrefix, dev.Handler()),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("prefix", apiPrefix).Msg("dev backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("stopped")
}
