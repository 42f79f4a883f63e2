// SPDX-License-Identifier: MIT

package dialog

import (
	"context"
	"fmt"

	"github.com/dinebot/concierge/internal/log"
	"github.com/dinebot/concierge/internal/metrics"
)

// ConfirmationMessage closes a fulfilled intent.
const ConfirmationMessage = "You’re all set. Expect my suggestions shortly! Have a good day."

// Enqueuer hands a fully-validated slot set to the fulfillment queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, slots SlotSet) (id string, err error)
}

// Controller drives one conversational turn. It holds no conversation state;
// everything it needs arrives in the Session and leaves in the Response.
type Controller struct {
	validator *Validator
	enqueuer  Enqueuer
}

// NewController wires the controller with its collaborators. Handles are
// injected explicitly, never ambient.
func NewController(validator *Validator, enqueuer Enqueuer) *Controller {
	return &Controller{validator: validator, enqueuer: enqueuer}
}

// HandleTurn dispatches the turn over the closed intent set. Unknown intents
// fail fast with ErrUnsupportedIntent.
//
// On a Fulfillment turn an enqueue failure is reported as ErrEnqueueFailed
// alongside a non-nil Close response: the turn still completes for the user,
// consistent with at-least-once queue semantics downstream.
func (c *Controller) HandleTurn(ctx context.Context, sess Session) (*Response, error) {
	logger := log.WithComponentFromContext(ctx, "dialog").With().
		Str(log.FieldSessionID, sess.SessionID).
		Str(log.FieldIntent, sess.IntentName).
		Logger()

	switch sess.IntentName {
	case IntentDiningSuggestions:
		// single-intent core
	default:
		metrics.IncDialogTurn("unsupported")
		logger.Warn().
			Str("event", "turn.unsupported_intent").
			Msg("intent not supported")
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedIntent, sess.IntentName)
	}

	if sess.InvocationSource == SourceDialogHook {
		result := c.validator.Validate(sess.Slots)
		if !result.IsValid {
			metrics.IncDialogTurn("elicit")
			metrics.IncValidationFailure(result.ViolatedSlot)
			logger.Debug().
				Str("event", "turn.elicit").
				Str(log.FieldSlot, result.ViolatedSlot).
				Msg("slot violation, re-eliciting")

			slots := sess.Slots.Clone()
			slots.Clear(result.ViolatedSlot)
			return &Response{
				Action:            ActionElicitSlot,
				SessionAttributes: sess.SessionAttributes,
				IntentName:        sess.IntentName,
				Slots:             slots,
				SlotToElicit:      result.ViolatedSlot,
				Message:           result.Message,
			}, nil
		}

		metrics.IncDialogTurn("delegate")
		logger.Debug().
			Str("event", "turn.delegate").
			Msg("slots valid, delegating to engine")
		return &Response{
			Action:            ActionDelegate,
			SessionAttributes: sess.SessionAttributes,
			IntentName:        sess.IntentName,
			Slots:             sess.Slots,
		}, nil
	}

	// Fulfillment: snapshot the slot set onto the queue, then close.
	resp := &Response{
		Action:            ActionClose,
		SessionAttributes: sess.SessionAttributes,
		IntentName:        sess.IntentName,
		FulfillmentState:  StateFulfilled,
		Message:           ConfirmationMessage,
	}

	id, err := c.enqueuer.Enqueue(ctx, sess.Slots)
	if err != nil {
		metrics.IncDialogTurn("close")
		metrics.IncEnqueue("failure")
		logger.Error().
			Err(err).
			Str("event", "turn.enqueue_failed").
			Msg("failed to enqueue fulfillment request")
		return resp, fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}

	metrics.IncDialogTurn("close")
	metrics.IncEnqueue("success")
	logger.Info().
		Str("event", "turn.close").
		Str(log.FieldMessageID, id).
		Msg("intent fulfilled, request enqueued")
	return resp, nil
}
