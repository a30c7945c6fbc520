// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/metrics"
)

type recordingBroadcaster struct {
	payloads chan []byte
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{payloads: make(chan []byte, 16)}
}

func (b *recordingBroadcaster) BroadcastRaw(data []byte) {
	select {
	case b.payloads <- data:
	default:
	}
}

// closedSubscriber returns an already closed channel.
type closedSubscriber struct{}

func (closedSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (closedSubscriber) Close() error { return nil }

func startRelay(t *testing.T, sub message.Subscriber, target Broadcaster) (context.CancelFunc, <-chan error) {
	t.Helper()
	relay := NewDecisionRelay(sub, "decisions", target, zerolog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- relay.Serve(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func TestDecisionRelay_ForwardsEvents(t *testing.T) {
	// Persistent so messages published before Subscribe are still delivered.
	ch := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, NewWatermillLogger(zerolog.New(io.Discard)))
	t.Cleanup(func() { _ = ch.Close() })

	target := newRecordingBroadcaster()
	relayed := testutil.ToFloat64(metrics.EventsRelayed)
	decodeFailed := testutil.ToFloat64(metrics.EventsDecodeFailed)

	pub := NewPublisher(ch, "decisions", time.Second, zerolog.New(io.Discard))
	ev := NewDecisionEvent("req-relay", testRecommendation())
	if err := ch.Publish("decisions", message.NewMessage("bad", []byte("garbage"))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.PublishDecision(context.Background(), &ev); err != nil {
		t.Fatalf("PublishDecision() error = %v", err)
	}

	cancel, errCh := startRelay(t, ch, target)

	select {
	case payload := <-target.payloads:
		got, err := DecodeDecisionEvent(payload)
		if err != nil || got.EventID != ev.EventID {
			t.Errorf("relayed payload = %s (%v)", payload, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not relayed")
	}

	select {
	case extra := <-target.payloads:
		t.Errorf("undecodable payload should not be relayed, got %s", extra)
	default:
	}

	if got := testutil.ToFloat64(metrics.EventsRelayed) - relayed; got != 1 {
		t.Errorf("relayed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.EventsDecodeFailed) - decodeFailed; got != 1 {
		t.Errorf("decode failure delta = %v, want 1", got)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestDecisionRelay_SubscriptionClosed(t *testing.T) {
	t.Parallel()

	_, errCh := startRelay(t, closedSubscriber{}, newRecordingBroadcaster())

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrSubscriptionClosed) {
			t.Errorf("Serve() error = %v, want ErrSubscriptionClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not return")
	}
}

func TestDecisionRelay_String(t *testing.T) {
	t.Parallel()

	relay := NewDecisionRelay(closedSubscriber{}, "decisions", newRecordingBroadcaster(), zerolog.Nop())
	if relay.String() != "decision-relay" {
		t.Errorf("String() = %q", relay.String())
	}
}

func TestDecisionRelay_CorrelationIDPerMessage(t *testing.T) {
	var buf bytes.Buffer
	target := newRecordingBroadcaster()
	relay := NewDecisionRelay(closedSubscriber{}, "decisions", target, zerolog.New(&buf).Level(zerolog.DebugLevel))

	ev := NewDecisionEvent("req-corr", testRecommendation())
	payload, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	relay.handle(context.Background(), message.NewMessage("good", payload))
	relay.handle(context.Background(), message.NewMessage("bad", []byte("garbage")))

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("log line %q: %v", scanner.Text(), err)
		}
		id, _ := line["correlation_id"].(string)
		if id == "" {
			t.Errorf("log line missing correlation_id: %s", scanner.Text())
			continue
		}
		if line["component"] != "decision-relay" {
			t.Errorf("component = %v, want decision-relay", line["component"])
		}
		seen[id] = true
	}
	if len(seen) != 2 {
		t.Errorf("distinct correlation ids = %d, want 2", len(seen))
	}
}
