// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dinebot/concierge/internal/dialog"
	"github.com/dinebot/concierge/internal/log"
)

// turnRequest is the wire form of one conversation turn.
type turnRequest struct {
	SessionID         string            `json:"sessionId"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	Intent            string            `json:"intent"`
	InvocationSource  string            `json:"invocationSource"`
	Slots             dialog.SlotSet    `json:"slots"`
}

// turnResponse is the directive returned to the conversation engine.
type turnResponse struct {
	Action            string            `json:"action"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	Intent            string            `json:"intent"`
	Slots             dialog.SlotSet    `json:"slots"`
	SlotToElicit      string            `json:"slotToElicit,omitempty"`
	FulfillmentState  string            `json:"fulfillmentState,omitempty"`
	Message           string            `json:"message,omitempty"`
}

func (s *Server) handleDialogTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed turn payload")
		return
	}

	sess := dialog.Session{
		SessionID:         req.SessionID,
		SessionAttributes: req.SessionAttributes,
		IntentName:        req.Intent,
		Slots:             req.Slots,
		InvocationSource:  dialog.InvocationSource(req.InvocationSource),
	}

	resp, err := s.controller.HandleTurn(r.Context(), sess)
	switch {
	case errors.Is(err, dialog.ErrUnsupportedIntent):
		writeError(w, http.StatusUnprocessableEntity, "unsupported intent")
		return
	case errors.Is(err, dialog.ErrEnqueueFailed):
		// The turn still closes; the request is simply not queued. The caller
		// gets the normal Close directive and the loss is visible in logs.
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str("event", "api.enqueue_failed").
			Str(log.FieldSessionID, req.SessionID).
			Msg("fulfillment request lost")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "dialog turn failed")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Action:            string(resp.Action),
		SessionAttributes: resp.SessionAttributes,
		Intent:            resp.IntentName,
		Slots:             resp.Slots,
		SlotToElicit:      resp.SlotToElicit,
		FulfillmentState:  resp.FulfillmentState,
		Message:           resp.Message,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz probes every registered dependency and reports per-check
// status. Any failure makes the whole endpoint 503.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]string, len(s.checks))
	code := http.StatusOK
	for _, check := range s.checks {
		if err := check.Probe(r.Context()); err != nil {
			results[check.Name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}
	writeJSON(w, code, results)
}
