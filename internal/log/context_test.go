package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithStreamID(ctx, "stream-9")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "req-1")
	}
	if got := StreamIDFromContext(ctx); got != "stream-9" {
		t.Errorf("StreamIDFromContext() = %q, want %q", got, "stream-9")
	}
}

func TestContextAccessorsNilSafe(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	if got := RequestIDFromContext(nil); got != "" {
		t.Errorf("RequestIDFromContext(nil) = %q, want empty", got)
	}
	//nolint:staticcheck // nil context is the case under test
	if got := StreamIDFromContext(nil); got != "" {
		t.Errorf("StreamIDFromContext(nil) = %q, want empty", got)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-2")
	ctx = ContextWithStreamID(ctx, "stream-3")

	logger := WithContext(ctx, l)
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if entry[FieldRequestID] != "req-2" {
		t.Errorf("request_id = %v, want req-2", entry[FieldRequestID])
	}
	if entry[FieldStreamID] != "stream-3" {
		t.Errorf("stream_id = %v, want stream-3", entry[FieldStreamID])
	}
}

func TestWithContextNoFields(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	logger := WithContext(context.Background(), l)
	logger.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if _, ok := entry[FieldRequestID]; ok {
		t.Error("unexpected request_id field on logger without context values")
	}
}
