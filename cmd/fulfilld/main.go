// SPDX-License-Identifier: MIT

// fulfilld is the fulfillment worker: it polls the suggestion queue, resolves
// restaurant records for the requested cuisine, and delivers the
// recommendation by email (and SMS when enabled).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dinebot/concierge/internal/config"
	"github.com/dinebot/concierge/internal/log"
	"github.com/dinebot/concierge/internal/notify"
	"github.com/dinebot/concierge/internal/queue"
	"github.com/dinebot/concierge/internal/search"
	"github.com/dinebot/concierge/internal/store"
	"github.com/dinebot/concierge/internal/worker"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	seedPath := flag.String("seed", "", "load restaurant records from a JSON file and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	log.Configure(log.Config{
		Service: "fulfilld",
		Version: version,
	})
	logger := log.WithComponent("fulfilld")

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

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = client.Close() }()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).
			Str("event", "store.open_failed").
			Str("data_dir", cfg.DataDir).
			Msg("cannot open record store")
	}
	defer func() { _ = st.Close() }()

	idx := search.NewRedis(client, cfg.IndexName)

	if *seedPath != "" {
		if err := seed(ctx, *seedPath, st, idx); err != nil {
			logger.Fatal().Err(err).
				Str("event", "seed.failed").
				Str("path", *seedPath).
				Msg("seeding failed")
		}
		logger.Info().
			Str("event", "seed.complete").
			Str("path", *seedPath).
			Msg("records loaded")
		return
	}

	if err := config.ValidateNotifier(cfg); err != nil {
		logger.Fatal().Err(err).
			Str("event", "config.invalid").
			Msg("notifier configuration rejected")
	}

	mailer := notify.NewSMTPSender(notify.SMTPConfig{
		Host:          cfg.SMTPHost,
		Port:          cfg.SMTPPort,
		Username:      cfg.SMTPUsername,
		Password:      cfg.SMTPPassword,
		From:          cfg.FromEmail,
		RatePerSecond: cfg.MailRatePerS,
	})
	var sms *notify.SMSGateway
	if cfg.SMSEnabled {
		sms = notify.NewSMSGateway(cfg.SMSGatewayURL)
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("redis", cfg.RedisAddr).
		Str("queue", cfg.QueueName).
		Str("index", cfg.IndexName).
		Msg("starting fulfilld")

	w := worker.New(
		queue.NewRedis(client, cfg.QueueName, cfg.VisibilityTimeout),
		idx,
		st,
		notify.NewService(mailer, sms),
		worker.Config{
			BatchSize:    cfg.BatchSize,
			PollInterval: cfg.PollInterval,
			Concurrency:  cfg.WorkerConcurrency,
			SMSEnabled:   cfg.SMSEnabled,
		},
	)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).
			Str("event", "worker.failed").
			Msg("worker loop failed")
	}
}

// seed loads a JSON array of records into the store and indexes each under
// its lower-cased cuisine.
func seed(ctx context.Context, path string, st store.Store, idx search.Index) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var records []store.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	for i := range records {
		rec := &records[i]
		if rec.ID == "" || rec.Cuisine == "" {
			return fmt.Errorf("record %d: id and cuisine are required", i)
		}
		if err := st.Put(ctx, rec); err != nil {
			return fmt.Errorf("store record %s: %w", rec.ID, err)
		}
		if err := idx.Add(ctx, strings.ToLower(rec.Cuisine), rec.ID); err != nil {
			return fmt.Errorf("index record %s: %w", rec.ID, err)
		}
	}
	return nil
}
