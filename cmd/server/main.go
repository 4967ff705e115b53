// Command server runs the helpdesk HTTP API.
//
// Startup sequence: load .env (best effort), load and validate config,
// configure logging and tracing, connect to the document store (failure
// leaves the process in a degraded mode that still answers health checks),
// then serve until SIGINT/SIGTERM and shut down gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-helpdesk-backend/internal/config"
	httpapi "github.com/tbourn/go-helpdesk-backend/internal/http"
	"github.com/tbourn/go-helpdesk-backend/internal/observability"
	"github.com/tbourn/go-helpdesk-backend/internal/repo"
	"github.com/tbourn/go-helpdesk-backend/internal/sysutil"

	_ "github.com/tbourn/go-helpdesk-backend/docs" // swagger spec registration
)

// version is stamped at build time via -ldflags.
var version = "dev"

// @title        Helpdesk API
// @version      1.0
// @description  Minimal helpdesk/ticketing backend: registration, login, tickets with attachments and replies.
// @BasePath     /api
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(c)
	}()

	// Connect the store once. A missing URL or unreachable server is not
	// fatal: the service starts degraded and keeps answering health checks.
	var st *repo.Store
	if cfg.MongoURI == "" {
		log.Warn().Msg("MONGODB_URL not set; starting degraded (health checks only)")
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		st, err = repo.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("store connect failed; starting degraded")
			st = nil
		} else {
			idxCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			if err := st.EnsureIndexes(idxCtx); err != nil {
				log.Warn().Err(err).Msg("index creation failed")
			}
			cancel()
			log.Info().Str("database", cfg.MongoDatabase).Msg("store connected")
		}
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(c)
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, st, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
