// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if len(id1) != 36 { // UUID format
		t.Errorf("expected 36-character request ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q, want req-123", got)
	}
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewCorrelationID(context.Background())
	id := CorrelationIDFromContext(ctx)
	if len(id) != 8 {
		t.Errorf("expected 8-character correlation ID, got %q", id)
	}
	if CorrelationIDFromContext(context.Background()) != "" {
		t.Error("expected empty correlation ID for bare context")
	}
}

func TestCtx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-456")
	ctx = ContextWithCorrelationID(ctx, "abc12345")

	Ctx(ctx).Info().Msg("processing")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-456"`) {
		t.Errorf("expected request_id in output: %s", output)
	}
	if !strings.Contains(output, `"correlation_id":"abc12345"`) {
		t.Errorf("expected correlation_id in output: %s", output)
	}
	if !strings.Contains(output, "processing") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	// No logger stored: must not panic and must return a usable logger.
	logger := LoggerFromContext(context.Background())
	logger.Debug().Msg("noop")
}
