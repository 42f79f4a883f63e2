// SPDX-License-Identifier: MIT

// concierged is the dialog daemon: it serves the per-turn code-hook endpoint
// the conversation engine calls, validates slots, and enqueues fulfillment
// requests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dinebot/concierge/internal/api"
	"github.com/dinebot/concierge/internal/config"
	"github.com/dinebot/concierge/internal/dialog"
	"github.com/dinebot/concierge/internal/log"
	"github.com/dinebot/concierge/internal/queue"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	log.Configure(log.Config{
		Service: "concierged",
		Version: version,
	})
	logger := log.WithComponent("concierged")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).
			Str("event", "config.invalid").
			Msg("configuration rejected")
	}
	log.SetLevel(cfg.LogLevel)

	loc, err := config.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal().Err(err).
			Str("event", "config.invalid").
			Str("timezone", cfg.Timezone).
			Msg("cannot resolve timezone")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("addr", cfg.ListenAddr).
		Str("redis", cfg.RedisAddr).
		Str("queue", cfg.QueueName).
		Msg("starting concierged")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = client.Close() }()

	q := queue.NewRedis(client, cfg.QueueName, cfg.VisibilityTimeout)

	validator := dialog.NewValidator(dialog.Rules{
		City:     cfg.City,
		Cuisines: cfg.Cuisines,
		MinParty: cfg.MinPartySize,
		MaxParty: cfg.MaxPartySize,
		Location: loc,
	})
	controller := dialog.NewController(validator, queue.NewRequestEnqueuer(q))

	server := api.New(controller,
		api.WithRateLimit(cfg.RateLimitRPM),
		api.WithReadinessChecks(api.ReadinessCheck{Name: "redis", Probe: q.Ping}),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		logger.Fatal().Err(err).
			Str("event", "server.failed").
			Msg("HTTP server failed")
	case <-ctx.Done():
	}

	logger.Info().Str("event", "shutdown").Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).
			Str("event", "shutdown.failed").
			Msg("graceful shutdown failed")
	}
}
