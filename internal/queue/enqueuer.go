// SPDX-License-Identifier: MIT

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dinebot/concierge/internal/dialog"
)

// RequestEnqueuer serializes a completed slot set onto the work queue. It is
// the producer side of the fulfillment pipeline; the worker package owns the
// consumer side. No local retry: delivery failures propagate to the caller.
type RequestEnqueuer struct {
	q Queue
}

// NewRequestEnqueuer wires the enqueuer to its queue.
func NewRequestEnqueuer(q Queue) *RequestEnqueuer {
	return &RequestEnqueuer{q: q}
}

// Enqueue snapshots slots as a transport-neutral JSON payload and submits it.
func (e *RequestEnqueuer) Enqueue(ctx context.Context, slots dialog.SlotSet) (string, error) {
	payload, err := json.Marshal(slots)
	if err != nil {
		return "", fmt.Errorf("marshal slot set: %w", err)
	}
	return e.q.Enqueue(ctx, payload)
}

var _ dialog.Enqueuer = (*RequestEnqueuer)(nil)
