// SPDX-License-Identifier: MIT

// Package dialog implements the per-turn dialog state machine for the dining
// suggestions intent: slot validation, re-elicitation, delegation back to the
// slot-filling engine, and intent closure onto the fulfillment queue.
package dialog

import "errors"

// IntentDiningSuggestions is the single intent this dialog core supports.
const IntentDiningSuggestions = "DiningSuggestionsIntent"

// Recognized slot names, in validation order.
const (
	SlotLocation       = "location"
	SlotCuisine        = "cuisine"
	SlotNumberOfPeople = "numberOfPeople"
	SlotDate           = "date"
	SlotTime           = "time"
	SlotPhoneNumber    = "phoneNumber"
	SlotEmailAddress   = "emailAddress"
)

var (
	// ErrUnsupportedIntent is returned for intent names outside the closed set.
	// Fatal for the turn; never retried.
	ErrUnsupportedIntent = errors.New("unsupported intent")

	// ErrEnqueueFailed reports a fulfillment enqueue failure. The turn still
	// closes from the user's perspective; the error is surfaced for logging.
	ErrEnqueueFailed = errors.New("fulfillment enqueue failed")
)

// InvocationSource identifies which hook of the external engine invoked us.
type InvocationSource string

const (
	SourceDialogHook  InvocationSource = "DialogCodeHook"
	SourceFulfillment InvocationSource = "FulfillmentCodeHook"
)

// SlotValue is one elicited slot value. Interpreted carries the engine's
// resolved value; Raw the literal user utterance.
type SlotValue struct {
	Raw         string `json:"raw,omitempty"`
	Interpreted string `json:"interpretedValue"`
}

// SlotSet maps slot name to its (possibly unfilled) value. A nil entry and a
// missing entry both mean the slot has not been filled yet.
type SlotSet map[string]*SlotValue

// Value returns the interpreted value for name and whether it is filled.
func (s SlotSet) Value(name string) (string, bool) {
	v, ok := s[name]
	if !ok || v == nil {
		return "", false
	}
	return v.Interpreted, true
}

// Set fills a slot with an interpreted value.
func (s SlotSet) Set(name, interpreted string) {
	s[name] = &SlotValue{Interpreted: interpreted}
}

// Clear resets a slot so the engine re-elicits it. The key stays present,
// matching the re-prompt pattern: only the offending slot is dropped.
func (s SlotSet) Clear(name string) {
	s[name] = nil
}

// Clone returns a shallow-value copy safe to mutate per turn.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for name, v := range s {
		if v == nil {
			out[name] = nil
			continue
		}
		cp := *v
		out[name] = &cp
	}
	return out
}

// Session is the per-conversation state the external engine passes in on every
// turn. It is carried by value; this core never holds it across turns.
type Session struct {
	SessionID         string
	SessionAttributes map[string]string
	IntentName        string
	Slots             SlotSet
	InvocationSource  InvocationSource
}

// ValidationResult reports the first violated slot, if any. Produced fresh on
// every validation call.
type ValidationResult struct {
	IsValid      bool
	ViolatedSlot string
	Message      string
}

// ActionType tags the directive returned to the calling engine.
type ActionType string

const (
	ActionElicitSlot ActionType = "ElicitSlot"
	ActionDelegate   ActionType = "Delegate"
	ActionClose      ActionType = "Close"
)

// FulfillmentState values used on Close.
const StateFulfilled = "Fulfilled"

// Response is the single directive a turn produces.
type Response struct {
	Action            ActionType
	SessionAttributes map[string]string
	IntentName        string
	Slots             SlotSet
	SlotToElicit      string // ElicitSlot only
	FulfillmentState  string // Close only
	Message           string // elicit prompt or close confirmation
}
