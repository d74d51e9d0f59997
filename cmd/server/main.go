package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocktracker/internal/app"
	"stocktracker/internal/config"
	"stocktracker/internal/logging"
)

func main() {
	// Config
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logging.New("info", "json").Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(a.Service, cfg.RequestTimeout(), log.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("server stopped")
}
