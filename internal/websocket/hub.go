// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for the decision feed
const (
	MessageTypeDecision = "decision"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// broadcastBuffer bounds the number of queued messages. A burst beyond it
// drops messages rather than blocking the recommend path.
const broadcastBuffer = 256

// Message is one frame of the decision feed.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of connected feed clients and fans messages out to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a new Hub. Call RunWithContext (or register it with a
// supervisor) before use.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Message, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err().
//
// Shutdown is checked first, then client lifecycle events, then broadcasts,
// so that a client registered before a broadcast always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	h.logger.Info().Uint64("client_id", client.id).Int("total_clients", count).Msg("decision feed client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	h.logger.Info().Uint64("client_id", client.id).Int("total_clients", count).Msg("decision feed client disconnected")
}

// logGracefulShutdown closes all clients and logs without an error field:
// cancellation is the expected way to stop.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClientsLocked returns clients ordered by id. Caller holds h.mu.
func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers message to every client in id order. A client
// whose send buffer is full is dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClientsLocked() {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		h.logger.Warn().Uint64("client_id", client.id).Msg("dropping slow decision feed client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastJSON queues data under messageType for every client. It never
// blocks: when the queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		h.logger.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastRaw forwards an already encoded decision event. Payloads that
// are not valid JSON are dropped.
func (h *Hub) BroadcastRaw(data []byte) {
	if !json.Valid(data) {
		metrics.WSErrors.WithLabelValues("invalid_payload").Inc()
		h.logger.Warn().Int("bytes", len(data)).Msg("refusing to broadcast invalid JSON payload")
		return
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	h.BroadcastJSON(MessageTypeDecision, raw)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
