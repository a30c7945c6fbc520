// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zerolog.New(io.Discard))

	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Fatal("NewHub left channels or client map uninitialized")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("GetClientCount() = %d, want 0", hub.GetClientCount())
	}
	if hub.String() != "websocket-hub" {
		t.Errorf("String() = %q", hub.String())
	}
}

func TestHub_BroadcastRaw(t *testing.T) {
	hub := startHub(t)
	client := createTestClient(hub, 8)
	hub.Register <- client
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	hub.BroadcastRaw([]byte(`{"event_id":"evt-1","decision":"selected","best_id":"R1"}`))

	msg, ok := receive(t, client)
	if !ok {
		t.Fatal("send channel closed unexpectedly")
	}
	if msg.Type != MessageTypeDecision {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeDecision)
	}

	encoded, err := MarshalMessage(msg)
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	var frame struct {
		Type string `json:"type"`
		Data struct {
			EventID string `json:"event_id"`
			BestID  string `json:"best_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(encoded, &frame); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	if frame.Data.EventID != "evt-1" || frame.Data.BestID != "R1" {
		t.Errorf("decoded frame = %+v", frame)
	}
}

func TestHub_BroadcastRawRejectsInvalidJSON(t *testing.T) {
	hub := startHub(t)
	client := createTestClient(hub, 8)
	hub.Register <- client
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	hub.BroadcastRaw([]byte("not json"))
	hub.BroadcastJSON(MessageTypeDecision, map[string]string{"marker": "after"})

	msg, _ := receive(t, client)
	data, ok := msg.Data.(map[string]string)
	if !ok || data["marker"] != "after" {
		t.Errorf("first delivered message = %+v, invalid payload should have been dropped", msg)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := createTestClient(hub, 0)
	fast := createTestClient(hub, 8)
	hub.Register <- slow
	hub.Register <- fast
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 2 })

	hub.BroadcastJSON(MessageTypeDecision, "x")

	if _, ok := receive(t, fast); !ok {
		t.Fatal("fast client should receive the broadcast")
	}
	waitFor(t, "slow client removal", func() bool { return hub.GetClientCount() == 1 })
	if _, ok := <-slow.send; ok {
		t.Error("slow client send channel should be closed")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := createTestClient(hub, 1)
	hub.Register <- client
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	hub.Unregister <- client
	waitFor(t, "unregistration", func() bool { return hub.GetClientCount() == 0 })

	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// A second unregister for an unknown client must not panic.
	hub.Unregister <- client
}

func TestHub_RunWithContextShutdown(t *testing.T) {
	hub := NewHub(zerolog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- hub.Serve(ctx) }()

	client := createTestClient(hub, 1)
	hub.Register <- client
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("clients left after shutdown: %d", hub.GetClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("client send channel should be closed on shutdown")
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled context reason = %q", got)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("expired context reason = %q", got)
	}
}
