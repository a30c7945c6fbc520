// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/config"
)

func testEventsConfig(backend string) *config.EventsConfig {
	return &config.EventsConfig{
		Enabled:        true,
		Backend:        backend,
		Topic:          "bullpen.decisions.test",
		EmbeddedHost:   "127.0.0.1",
		EmbeddedPort:   -1,
		PublishTimeout: time.Second,
	}
}

// publishUntilReceived republishes until the subscription delivers a message,
// covering the window before a fresh subscription is active on the server.
func publishUntilReceived(t *testing.T, bus *Bus, messages <-chan *message.Message, payload string) *message.Message {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		if err := bus.Publisher().Publish(bus.Topic(), message.NewMessage("m-"+payload, []byte(payload))); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case msg := <-messages:
			msg.Ack()
			return msg
		case <-deadline:
			t.Fatal("no message received")
			return nil
		case <-tick.C:
		}
	}
}

func TestNewBus_Memory(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(testEventsConfig(config.EventsBackendMemory), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	if bus.Backend() != config.EventsBackendMemory || bus.URL() != "" {
		t.Errorf("Backend() = %q, URL() = %q", bus.Backend(), bus.URL())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := bus.Subscriber().Subscribe(ctx, bus.Topic())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	msg := publishUntilReceived(t, bus, messages, `{"event_id":"a"}`)
	if string(msg.Payload) != `{"event_id":"a"}` {
		t.Errorf("payload = %s", msg.Payload)
	}
}

func TestNewBus_Embedded(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(testEventsConfig(config.EventsBackendEmbedded), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	if bus.Backend() != config.EventsBackendEmbedded {
		t.Errorf("Backend() = %q, want embedded", bus.Backend())
	}
	if bus.URL() == "" || bus.server == nil || !bus.server.IsRunning() {
		t.Fatal("embedded server should be running with a client URL")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := bus.Subscriber().Subscribe(ctx, bus.Topic())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	msg := publishUntilReceived(t, bus, messages, `{"event_id":"b"}`)
	if string(msg.Payload) != `{"event_id":"b"}` {
		t.Errorf("payload = %s", msg.Payload)
	}
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(testEventsConfig(config.EventsBackendEmbedded), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	srv := bus.server

	if err := bus.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("embedded server should stop with the bus")
	}
}

func TestNewBus_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBus(testEventsConfig("kafka"), zerolog.New(io.Discard)); err == nil {
		t.Error("expected error for unknown backend")
	}
}
