// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldMessageID = "message_id"
	FieldIntent    = "intent"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Dialog fields
	FieldSlot   = "slot"
	FieldAction = "action"

	// Fulfillment fields
	FieldCuisine = "cuisine"
	FieldChannel = "channel"
	FieldQueue   = "queue"
)
