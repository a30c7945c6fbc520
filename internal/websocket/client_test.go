// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// setupFeedServer serves a websocket endpoint that attaches every
// connection to hub.
func setupFeedServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		NewClient(hub, conn).Attach()
	}))
	t.Cleanup(server.Close)
	return server
}

func dialFeed(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var frame map[string]interface{}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("frame is not JSON: %v (%s)", err, data)
	}
	return frame
}

func TestNewClient_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewClient(nil, nil)
	b := NewClient(nil, nil)
	if a.ID() == b.ID() {
		t.Errorf("client ids should differ, both %d", a.ID())
	}
	if b.ID() < a.ID() {
		t.Errorf("client ids should increase: %d then %d", a.ID(), b.ID())
	}
	if cap(a.send) != sendBuffer {
		t.Errorf("send buffer = %d, want %d", cap(a.send), sendBuffer)
	}
}

func TestClient_ReceivesDecision(t *testing.T) {
	hub := startHub(t)
	server := setupFeedServer(t, hub)
	conn := dialFeed(t, server)

	waitFor(t, "client registration", func() bool { return hub.GetClientCount() == 1 })
	hub.BroadcastRaw([]byte(`{"event_id":"evt-42","decision":"none_available","best_id":""}`))

	frame := readFrame(t, conn)
	if frame["type"] != MessageTypeDecision {
		t.Fatalf("type = %v, want %s", frame["type"], MessageTypeDecision)
	}
	data, ok := frame["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", frame["data"])
	}
	if data["event_id"] != "evt-42" || data["decision"] != "none_available" {
		t.Errorf("data = %v", data)
	}
}

func TestClient_PingPong(t *testing.T) {
	hub := startHub(t)
	server := setupFeedServer(t, hub)
	conn := dialFeed(t, server)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if frame := readFrame(t, conn); frame["type"] != MessageTypePong {
		t.Errorf("type = %v, want %s", frame["type"], MessageTypePong)
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	server := setupFeedServer(t, hub)
	conn := dialFeed(t, server)

	waitFor(t, "client registration", func() bool { return hub.GetClientCount() == 1 })
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = conn.Close()

	waitFor(t, "client removal", func() bool { return hub.GetClientCount() == 0 })
}

func TestClientConstants(t *testing.T) {
	t.Parallel()

	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	if writeWait <= 0 || maxMessageSize <= 0 {
		t.Error("timeouts and limits must be positive")
	}
}
