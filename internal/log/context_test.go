// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithMessageID(ctx, "msg-7")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id: got %q, want %q", got, "req-1")
	}
	if got := MessageIDFromContext(ctx); got != "msg-7" {
		t.Errorf("message id: got %q, want %q", got, "msg-7")
	}
}

func TestContextMissingValues(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
	if got := RequestIDFromContext(nil); got != "" { //nolint:staticcheck // nil ctx is part of the contract
		t.Errorf("expected empty request id for nil ctx, got %q", got)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctxLogger := WithContext(ctx, logger)
	ctxLogger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry[FieldRequestID] != "req-42" {
		t.Errorf("expected request_id field, got %v", entry)
	}
}

func TestWithContextNoFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	plainLogger := WithContext(context.Background(), logger)
	plainLogger.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := entry[FieldRequestID]; ok {
		t.Error("did not expect request_id field on bare context")
	}
}
