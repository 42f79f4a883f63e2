// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinebot/concierge/internal/dialog"
)

type fakeEnqueuer struct {
	err error
	ids []string
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, slots dialog.SlotSet) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id := "msg-1"
	f.ids = append(f.ids, id)
	return id, nil
}

func testRules() dialog.Rules {
	return dialog.Rules{
		City:     "Manhattan",
		Cuisines: []string{"indian", "chinese", "japanese", "italian", "american"},
		MinParty: 2,
		MaxParty: 20,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func newTestServer(t *testing.T, enq dialog.Enqueuer, opts ...Option) http.Handler {
	t.Helper()
	controller := dialog.NewController(dialog.NewValidator(testRules()), enq)
	return New(controller, opts...).Router()
}

func turnBody(t *testing.T, source string, slots map[string]string) []byte {
	t.Helper()
	set := dialog.SlotSet{}
	for name, v := range slots {
		set.Set(name, v)
	}
	body, err := json.Marshal(turnRequest{
		SessionID:        "s-1",
		Intent:           dialog.IntentDiningSuggestions,
		InvocationSource: source,
		Slots:            set,
	})
	require.NoError(t, err)
	return body
}

func postTurn(t *testing.T, h http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/dialog", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTurn(t *testing.T, rec *httptest.ResponseRecorder) turnResponse {
	t.Helper()
	var resp turnResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDialogTurnElicitsFirstMissingSlot(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	rec := postTurn(t, h, turnBody(t, "DialogCodeHook", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeTurn(t, rec)
	assert.Equal(t, "ElicitSlot", resp.Action)
	assert.Equal(t, dialog.SlotLocation, resp.SlotToElicit)
}

func TestDialogTurnDelegatesWhenValid(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	rec := postTurn(t, h, turnBody(t, "DialogCodeHook", map[string]string{
		dialog.SlotLocation:       "Manhattan",
		dialog.SlotCuisine:        "italian",
		dialog.SlotNumberOfPeople: "4",
		dialog.SlotDate:           "2026-06-16",
		dialog.SlotTime:           "19:00",
		dialog.SlotPhoneNumber:    "5551234567",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Delegate", decodeTurn(t, rec).Action)
}

func TestDialogTurnFulfillmentCloses(t *testing.T) {
	enq := &fakeEnqueuer{}
	h := newTestServer(t, enq)

	rec := postTurn(t, h, turnBody(t, "FulfillmentCodeHook", map[string]string{
		dialog.SlotCuisine:      "italian",
		dialog.SlotEmailAddress: "diner@example.com",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeTurn(t, rec)
	assert.Equal(t, "Close", resp.Action)
	assert.Equal(t, "Fulfilled", resp.FulfillmentState)
	assert.Len(t, enq.ids, 1)
}

func TestDialogTurnEnqueueFailureStillCloses(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{err: errors.New("redis down")})

	rec := postTurn(t, h, turnBody(t, "FulfillmentCodeHook", map[string]string{
		dialog.SlotCuisine:      "italian",
		dialog.SlotEmailAddress: "diner@example.com",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Close", decodeTurn(t, rec).Action)
}

func TestDialogTurnUnsupportedIntent(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	set := dialog.SlotSet{}
	body, err := json.Marshal(turnRequest{
		SessionID:        "s-1",
		Intent:           "GreetingIntent",
		InvocationSource: "DialogCodeHook",
		Slots:            set,
	})
	require.NoError(t, err)

	rec := postTurn(t, h, body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDialogTurnMalformedBody(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	rec := postTurn(t, h, []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))
}

func TestReadyz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := newTestServer(t, &fakeEnqueuer{}, WithReadinessChecks(
			ReadinessCheck{Name: "queue", Probe: func(ctx context.Context) error { return nil }},
		))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"queue":"ok"`)
	})

	t.Run("failing check", func(t *testing.T) {
		h := newTestServer(t, &fakeEnqueuer{}, WithReadinessChecks(
			ReadinessCheck{Name: "queue", Probe: func(ctx context.Context) error { return errors.New("dial refused") }},
		))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{}, WithRateLimit(2))

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeEnqueuer{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines") ||
		strings.Contains(rec.Body.String(), "concierge_"))
}
