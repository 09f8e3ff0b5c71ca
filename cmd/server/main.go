package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nb2912/inventory/internal/config"
	"github.com/nb2912/inventory/internal/infra"
	"github.com/nb2912/inventory/internal/middleware"
	"github.com/nb2912/inventory/internal/router"
	"github.com/nb2912/inventory/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := infra.NewDatabase(cfg.DSN(), !cfg.IsProduction() && cfg.LogLevel == "debug")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background goroutines (worker pool, limiter purge) stop with ctx.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailCB := infra.NewCircuitBreaker(infra.MailCBConfig())
	mailer := infra.NewMailer(cfg)
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP_HOST not set, low-stock alerts will only be logged")
	}
	dispatcher := worker.NewDispatcher(rdb)

	pool := worker.NewPool(rdb, map[string]worker.Handler{
		worker.JobLowStock: worker.NewLowStockWorker(mailer, mailCB, cfg.AlertEmailTo),
	}, worker.QueueLowStock)
	pool.Start(ctx, cfg.WorkerPoolSize)

	r, limiters := router.New(cfg, db, rdb, dispatcher, mailCB)
	go middleware.PurgeLoop(ctx, middleware.PurgeInterval, limiters.API, limiters.Login)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
