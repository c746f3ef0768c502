package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"setlist/internal/logging"
	"setlist/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logging.SetGlobal(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	if err := ensureBootstrapAdmin(context.Background(), cfg, dataStore); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap admin")
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: newHTTPHandler(cfg, dataStore, logger),
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
