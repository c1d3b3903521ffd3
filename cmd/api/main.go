package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MrJamesThe3rd/openfacture/internal/config"
	"github.com/MrJamesThe3rd/openfacture/internal/database"
	appHttp "github.com/MrJamesThe3rd/openfacture/internal/http"
	invoiceHandler "github.com/MrJamesThe3rd/openfacture/internal/http/invoice"
	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/openfacture/internal/invoice/store"
	"github.com/MrJamesThe3rd/openfacture/internal/logger"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	engineCfg := invoice.DefaultConfig()
	engineCfg.Tolerance = cfg.Billing.Tolerance

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db), invoice.NewEngine(engineCfg))
		invoiceH       = invoiceHandler.NewHandler(invoiceService)
	)

	router := appHttp.New(appHttp.Options{
		AllowedOrigins: cfg.Origins(),
		JWTSecret:      cfg.Auth.Secret,
		Timeout:        cfg.Server.Timeout,
	}, db, invoiceH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("app", cfg.App.Name).Str("addr", srv.Addr).Str("env", cfg.App.Env).Msg("starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}
