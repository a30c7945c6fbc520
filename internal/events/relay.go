// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/logging"
	"github.com/tomtom215/bullpen/internal/metrics"
)

// ErrSubscriptionClosed is returned by Serve when the subscriber closes the
// message channel while the relay is still supposed to run. The supervisor
// restarts the relay.
var ErrSubscriptionClosed = errors.New("decision subscription closed")

// Broadcaster receives encoded decision events. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastRaw(data []byte)
}

// DecisionRelay forwards decision events from the bus to a Broadcaster.
// It implements suture.Service.
type DecisionRelay struct {
	subscriber message.Subscriber
	topic      string
	target     Broadcaster
	logger     zerolog.Logger
}

// NewDecisionRelay creates a relay reading topic from sub.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDecisionRelay(sub message.Subscriber, topic string, target Broadcaster, logger zerolog.Logger) *DecisionRelay {
	return &DecisionRelay{
		subscriber: sub,
		topic:      topic,
		target:     target,
		logger:     logger.With().Str("component", "decision-relay").Logger(),
	}
}

// Serve subscribes and relays until ctx is canceled.
func (r *DecisionRelay) Serve(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, r.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.topic, err)
	}
	r.logger.Info().Str("topic", r.topic).Msg("decision relay started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("decision relay stopped")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			r.handle(ctx, msg)
		}
	}
}

// handle acks every message: a payload that fails to decode never will, so
// redelivery would only loop. Each message gets its own correlation id.
func (r *DecisionRelay) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ctx = logging.ContextWithNewCorrelationID(logging.ContextWithLogger(ctx, r.logger))
	log := logging.Ctx(ctx)

	ev, err := DecodeDecisionEvent(msg.Payload)
	if err != nil {
		metrics.EventsDecodeFailed.Inc()
		log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable decision event")
		return
	}

	r.target.BroadcastRaw(msg.Payload)
	metrics.EventsRelayed.Inc()
	log.Debug().Str("event_id", ev.EventID).Str("decision", ev.Decision).Msg("decision relayed")
}

// String implements fmt.Stringer for supervisor logs.
func (r *DecisionRelay) String() string {
	return "decision-relay"
}
