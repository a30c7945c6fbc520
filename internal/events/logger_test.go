// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWatermillLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	logger.With(watermill.LogFields{"topic": "decisions"}).
		Error("publish failed", errors.New("broker down"), watermill.LogFields{"attempt": 2})
	logger.Info("subscribed", watermill.LogFields{"topic": "decisions"})
	logger.Trace("tick", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %s", len(lines), buf.String())
	}

	checks := []struct {
		line int
		want []string
	}{
		{0, []string{`"level":"error"`, `"error":"broker down"`, `"topic":"decisions"`, `"attempt":2`, `"message":"publish failed"`}},
		{1, []string{`"level":"debug"`, `"message":"subscribed"`}},
		{2, []string{`"level":"trace"`}},
	}
	for _, c := range checks {
		for _, want := range c.want {
			if !strings.Contains(lines[c.line], want) {
				t.Errorf("line %d missing %s: %s", c.line, want, lines[c.line])
			}
		}
	}
}

func TestWatermillLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWatermillLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden", nil)
	logger.Info("also hidden at info", nil)

	if buf.Len() != 0 {
		t.Errorf("debug-level watermill output should be suppressed: %s", buf.String())
	}
}
