// SPDX-License-Identifier: MIT

// Package worker implements the fulfillment pipeline: poll the queue, resolve
// candidate restaurants, compose the recommendation, notify the user, and
// acknowledge only on success.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dinebot/concierge/internal/log"
	"github.com/dinebot/concierge/internal/metrics"
	"github.com/dinebot/concierge/internal/notify"
	"github.com/dinebot/concierge/internal/queue"
	"github.com/dinebot/concierge/internal/search"
	"github.com/dinebot/concierge/internal/store"
)

// maxSuggestions caps how many resolved records one message lists.
const maxSuggestions = 3

// Config tunes the polling loop.
type Config struct {
	BatchSize    int
	PollInterval time.Duration
	Concurrency  int
	SMSEnabled   bool
}

// Worker consumes fulfillment requests. Invocations are stateless and may run
// concurrently with other workers on the same queue; per-message handling is
// idempotent-tolerant under at-least-once redelivery.
type Worker struct {
	queue    queue.Queue
	index    search.Index
	store    store.Store
	notifier notify.Notifier
	cfg      Config
	logger   zerolog.Logger
}

// New wires a worker with its collaborators.
func New(q queue.Queue, idx search.Index, st store.Store, n notify.Notifier, cfg Config) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	return &Worker{
		queue:    q,
		index:    idx,
		store:    st,
		notifier: n,
		cfg:      cfg,
		logger:   log.WithComponent("worker"),
	}
}

// Run polls until ctx is cancelled. Poll errors are logged, never fatal.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().
		Str("event", "worker.start").
		Int("batch_size", w.cfg.BatchSize).
		Dur("poll_interval", w.cfg.PollInterval).
		Msg("fulfillment worker started")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error().Err(err).
				Str("event", "worker.poll_failed").
				Msg("batch poll failed")
		}
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "worker.stop").Msg("fulfillment worker stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes a single batch and returns how many messages it received.
// A failure in one message's pipeline never cancels its siblings.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	msgs, err := w.queue.Receive(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	metrics.IncWorkerBatch()
	if len(msgs) == 0 {
		return 0, nil
	}

	w.logger.Debug().
		Str("event", "worker.batch").
		Int("messages", len(msgs)).
		Msg("processing batch")

	var g errgroup.Group
	g.SetLimit(w.cfg.Concurrency)
	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			w.process(ctx, msg)
			return nil
		})
	}
	_ = g.Wait()
	return len(msgs), nil
}

// process runs one message through the pipeline. All failures are isolated:
// the message is left in-flight and comes back via queue redelivery, except
// undecodable payloads, which are acknowledged to keep them from poisoning
// every future poll.
func (w *Worker) process(ctx context.Context, msg queue.Message) {
	ctx = log.ContextWithMessageID(ctx, msg.ID)
	logger := log.WithComponentFromContext(ctx, "worker")

	req, err := parseRequest(msg.Body)
	if err != nil {
		metrics.IncWorkerMessage("decode_failed")
		logger.Error().Err(err).
			Str("event", "worker.decode_failed").
			Msg("dropping undecodable fulfillment request")
		w.ack(ctx, msg)
		return
	}
	logger = logger.With().Str(log.FieldCuisine, req.Cuisine).Logger()

	ids, err := w.index.Query(ctx, req.Cuisine)
	if err != nil {
		metrics.IncWorkerMessage("search_failed")
		logger.Error().Err(err).
			Str("event", "worker.search_failed").
			Msg("search unavailable, leaving message for redelivery")
		return
	}

	records, err := w.resolve(ctx, ids)
	if err != nil {
		metrics.IncWorkerMessage("lookup_failed")
		logger.Error().Err(err).
			Str("event", "worker.lookup_failed").
			Msg("record lookup failed, leaving message for redelivery")
		return
	}

	text := composeMessage(req, records)

	// SMS is a secondary channel: a failure is logged but never blocks the
	// email delivery or the acknowledge.
	if w.cfg.SMSEnabled && req.PhoneNumber != "" {
		if err := w.notifier.SendSMS(ctx, req.PhoneNumber, text); err != nil {
			metrics.IncNotificationFailure("sms")
			logger.Warn().Err(err).
				Str("event", "worker.sms_failed").
				Msg("SMS delivery failed")
		}
	}

	if err := w.notifier.SendEmail(ctx, req.EmailAddress, notify.Subject, text); err != nil {
		metrics.IncWorkerMessage("notify_failed")
		metrics.IncNotificationFailure("email")
		logger.Error().Err(err).
			Str("event", "worker.notify_failed").
			Msg("email delivery failed, leaving message for redelivery")
		return
	}

	metrics.ObserveRecommendations(len(records))
	metrics.IncWorkerMessage("delivered")
	logger.Info().
		Str("event", "worker.delivered").
		Int("suggestions", len(records)).
		Msg("recommendation delivered")

	w.ack(ctx, msg)
}

// resolve looks up records for ids in search order until maxSuggestions are
// found. Unknown ids are skipped; store errors abort the message.
func (w *Worker) resolve(ctx context.Context, ids []string) ([]*store.Record, error) {
	records := make([]*store.Record, 0, maxSuggestions)
	for _, id := range ids {
		if len(records) == maxSuggestions {
			break
		}
		rec, err := w.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ack deletes msg from the queue. A failed delete only means a duplicate
// delivery later, which the pipeline tolerates.
func (w *Worker) ack(ctx context.Context, msg queue.Message) {
	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		logger := log.WithComponentFromContext(ctx, "worker")
		logger.Warn().Err(err).
			Str("event", "worker.ack_failed").
			Msg("failed to delete message, expect redelivery")
	}
}
