// SPDX-License-Identifier: MIT

package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls []SlotSet
	err   error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, slots SlotSet) (string, error) {
	f.calls = append(f.calls, slots)
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

func testSession(source InvocationSource, slots SlotSet) Session {
	return Session{
		SessionID:         "sess-1",
		SessionAttributes: map[string]string{"channel": "web"},
		IntentName:        IntentDiningSuggestions,
		Slots:             slots,
		InvocationSource:  source,
	}
}

func TestHandleTurnElicitsFirstViolation(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := NewController(NewValidator(testRules()), enq)

	slots := validSlots()
	slots.Set(SlotCuisine, "fusion")
	sess := testSession(SourceDialogHook, slots)

	resp, err := c.HandleTurn(context.Background(), sess)
	require.NoError(t, err)

	want := &Response{
		Action:            ActionElicitSlot,
		SessionAttributes: map[string]string{"channel": "web"},
		IntentName:        IntentDiningSuggestions,
		SlotToElicit:      SlotCuisine,
		Message:           "Sorry, I can't find restaurants for fusion cuisine. Could you try another one?",
	}
	if diff := cmp.Diff(want, resp, cmpopts.IgnoreFields(Response{}, "Slots")); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	// Only the violated slot is reset; the rest of the set is untouched.
	_, filled := resp.Slots.Value(SlotCuisine)
	assert.False(t, filled)
	loc, _ := resp.Slots.Value(SlotLocation)
	assert.Equal(t, "Manhattan", loc)

	// The caller's session is not mutated.
	cuisine, _ := sess.Slots.Value(SlotCuisine)
	assert.Equal(t, "fusion", cuisine)

	assert.Empty(t, enq.calls, "dialog hook must not enqueue")
}

func TestHandleTurnDelegatesWhenValid(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := NewController(NewValidator(testRules()), enq)

	slots := validSlots()
	resp, err := c.HandleTurn(context.Background(), testSession(SourceDialogHook, slots))
	require.NoError(t, err)

	assert.Equal(t, ActionDelegate, resp.Action)
	assert.Equal(t, IntentDiningSuggestions, resp.IntentName)
	if diff := cmp.Diff(slots, resp.Slots); diff != "" {
		t.Errorf("delegate must carry the unmodified slot set (-want +got):\n%s", diff)
	}
	assert.Empty(t, resp.SlotToElicit)
	assert.Empty(t, enq.calls)
}

func TestHandleTurnFulfillmentEnqueuesAndCloses(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := NewController(NewValidator(testRules()), enq)

	slots := validSlots()
	resp, err := c.HandleTurn(context.Background(), testSession(SourceFulfillment, slots))
	require.NoError(t, err)

	assert.Equal(t, ActionClose, resp.Action)
	assert.Equal(t, StateFulfilled, resp.FulfillmentState)
	assert.Equal(t, ConfirmationMessage, resp.Message)

	require.Len(t, enq.calls, 1)
	if diff := cmp.Diff(slots, enq.calls[0]); diff != "" {
		t.Errorf("enqueued slot set mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleTurnEnqueueFailureStillCloses(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("queue down")}
	c := NewController(NewValidator(testRules()), enq)

	resp, err := c.HandleTurn(context.Background(), testSession(SourceFulfillment, validSlots()))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnqueueFailed)
	require.NotNil(t, resp, "the turn still completes from the user's perspective")
	assert.Equal(t, ActionClose, resp.Action)
	assert.Equal(t, StateFulfilled, resp.FulfillmentState)
}

func TestHandleTurnUnsupportedIntent(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := NewController(NewValidator(testRules()), enq)

	sess := testSession(SourceDialogHook, validSlots())
	sess.IntentName = "BookFlightIntent"

	resp, err := c.HandleTurn(context.Background(), sess)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnsupportedIntent)
	assert.Empty(t, enq.calls)
}
