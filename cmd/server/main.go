/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PDP productivity report service.

STARTUP SEQUENCE:
  1. Load configuration from the environment (.env supported)
  2. Configure zerolog
  3. Open the SQLite productivity mirror
  4. Open the Postgres connected-time store (optional; skipped when
     POSTGRES_URL is unset — reports then render without rate columns)
  5. Wire pipeline, writer, handlers, router
  6. Start the server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connections

ENVIRONMENT:
  PORT, ALLOWED_ORIGINS, LOG_LEVEL, SQLITE_PATH, POSTGRES_URL,
  EXCEL_OUTPUT_PATH, ROUND_PLACES

SEE ALSO:
  - config/config.go: Environment loading
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/collecta/pdp-insights/api"
	"github.com/collecta/pdp-insights/config"
	"github.com/collecta/pdp-insights/excel"
	"github.com/collecta/pdp-insights/pdp"
	"github.com/collecta/pdp-insights/store/postgres"
	"github.com/collecta/pdp-insights/store/sqlite"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Productivity warehouse mirror
	productivity, err := sqlite.New(cfg.SQLitePath, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open productivity store")
	}
	defer productivity.Close()

	// Connected-time store (optional enrichment)
	var calls pdp.CallTimeSource = pdp.NoCallTimeSource{}
	if cfg.PostgresURL != "" {
		pg, err := postgres.New(cfg.PostgresURL, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open call-time store")
		}
		defer pg.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := pg.Ping(pingCtx); err != nil {
			log.Fatal().Err(err).Msg("call-time store unreachable")
		}
		cancel()
		calls = pg
	} else {
		log.Warn().Msg("POSTGRES_URL not set, reports will have no connected-time enrichment")
	}

	writer, err := excel.NewWriter(cfg.OutputDir, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare output directory")
	}

	reportCfg := pdp.DefaultReportConfig()
	reportCfg.RoundPlaces = cfg.RoundPlaces

	service := pdp.NewService(productivity, calls, log.Logger)
	handler := api.NewHandler(service, writer, cfg.OutputDir, reportCfg, log.Logger)
	router := api.NewRouter(handler, cfg.AllowedOrigins, log.Logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}
