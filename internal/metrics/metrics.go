// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dialog metrics
	dialogTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_dialog_turns_total",
		Help: "Dialog turns handled by resulting action",
	}, []string{"action"}) // action=elicit|delegate|close|unsupported

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_validation_failures_total",
		Help: "Slot validation failures by violated slot",
	}, []string{"slot"})

	enqueueTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_enqueue_total",
		Help: "Fulfillment request enqueue attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	// Worker metrics
	workerBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_worker_batches_total",
		Help: "Total fulfillment batches polled",
	})

	workerMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_worker_messages_total",
		Help: "Queue messages processed by outcome",
	}, []string{"outcome"}) // outcome=delivered|search_failed|decode_failed|notify_failed

	recommendationsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "concierge_recommendations_returned",
		Help:    "Number of restaurants included per delivered message",
		Buckets: []float64{0, 1, 2, 3},
	})

	notificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_notification_failures_total",
		Help: "Notification delivery failures by channel",
	}, []string{"channel"}) // channel=email|sms

	// Queue metrics
	queueErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_queue_errors_total",
		Help: "Queue operation failures by operation",
	}, []string{"op"}) // op=enqueue|receive|delete|reclaim

	queueRedeliveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_queue_redeliveries_total",
		Help: "Messages returned to the ready list after visibility timeout",
	})
)

func IncDialogTurn(action string)      { dialogTurnsTotal.WithLabelValues(action).Inc() }
func IncValidationFailure(slot string) { validationFailuresTotal.WithLabelValues(slot).Inc() }
func IncEnqueue(outcome string)        { enqueueTotal.WithLabelValues(outcome).Inc() }
func IncWorkerBatch()                  { workerBatchesTotal.Inc() }
func IncWorkerMessage(outcome string)  { workerMessagesTotal.WithLabelValues(outcome).Inc() }
func ObserveRecommendations(n int)     { recommendationsReturned.Observe(float64(n)) }
func IncNotificationFailure(ch string) { notificationFailuresTotal.WithLabelValues(ch).Inc() }
func IncQueueError(op string)          { queueErrorsTotal.WithLabelValues(op).Inc() }
func AddQueueRedeliveries(n int)       { queueRedeliveriesTotal.Add(float64(n)) }
