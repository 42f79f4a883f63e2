// SPDX-License-Identifier: MIT

// Package queue provides the durable work queue between the dialog daemon and
// the fulfillment worker: at-least-once delivery, receipt-handle acknowledge,
// visibility-timeout redelivery, no cross-message ordering guarantee.
package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Message is one received queue entry. The ReceiptHandle is only valid until
// the visibility deadline passes; Delete with a stale handle is a no-op.
type Message struct {
	ID            string
	Body          []byte
	ReceiptHandle string
}

// Queue is the durable queue collaborator.
type Queue interface {
	// Enqueue appends one message and returns its message id.
	Enqueue(ctx context.Context, payload []byte) (string, error)
	// Receive returns up to max pending messages, making them invisible to
	// other consumers until their visibility deadline.
	Receive(ctx context.Context, max int) ([]Message, error)
	// Delete acknowledges a message so it is never redelivered.
	Delete(ctx context.Context, receiptHandle string) error
}

// envelope is the wire form of a queued message.
type envelope struct {
	ID         string          `json:"id"`
	Body       json.RawMessage `json:"body"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}
