// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bullpen/internal/metrics"
)

// Publish outcome labels for bms_events_published_total.
const (
	PublishStatusSuccess  = "success"
	PublishStatusFailure  = "failure"
	PublishStatusRejected = "rejected"
	PublishStatusTimeout  = "timeout"
)

const (
	publisherBreakerName          = "events-publisher"
	publisherBreakerFailureStreak = 5
	publisherBreakerTimeout       = 30 * time.Second
)

// ErrPublishTimeout is returned when the backend does not accept a
// message within the publish timeout.
var ErrPublishTimeout = errors.New("publish timed out")

// Publisher sends decision events to the bus through a circuit breaker.
type Publisher struct {
	publisher message.Publisher
	topic     string
	timeout   time.Duration
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    zerolog.Logger
}

// NewPublisher wraps pub. A non-positive timeout disables the deadline.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, topic string, timeout time.Duration, logger zerolog.Logger) *Publisher {
	logger = logger.With().Str("component", "events-publisher").Logger()
	return &Publisher{
		publisher: pub,
		topic:     topic,
		timeout:   timeout,
		breaker:   newPublishBreaker(publisherBreakerName, logger),
		logger:    logger,
	}
}

// newPublishBreaker trips after five consecutive failures and probes again
// after 30s.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newPublishBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     publisherBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(counts.ConsecutiveFailures))
			return counts.ConsecutiveFailures >= publisherBreakerFailureStreak
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// BreakerState returns the publisher's circuit breaker state.
func (p *Publisher) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// PublishDecision encodes ev and publishes it. The message UUID is the
// event id, so NATS-side deduplication and client logs line up.
func (p *Publisher) PublishDecision(ctx context.Context, ev *DecisionEvent) error {
	payload, err := ev.Encode()
	if err != nil {
		metrics.RecordEventPublish(PublishStatusFailure)
		return err
	}

	msg := message.NewMessage(ev.EventID, payload)
	msg.Metadata.Set("decision", ev.Decision)
	if ev.RequestID != "" {
		msg.Metadata.Set("request_id", ev.RequestID)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publish(ctx, msg)
	})

	switch {
	case err == nil:
		metrics.RecordEventPublish(PublishStatusSuccess)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordEventPublish(PublishStatusRejected)
	case errors.Is(err, ErrPublishTimeout):
		metrics.RecordEventPublish(PublishStatusTimeout)
	default:
		metrics.RecordEventPublish(PublishStatusFailure)
	}
	return fmt.Errorf("publish decision %s: %w", ev.EventID, err)
}

// publish runs the blocking watermill Publish under the configured timeout.
// On timeout the publish keeps running in the background.
func (p *Publisher) publish(ctx context.Context, msg *message.Message) error {
	if p.timeout <= 0 {
		return p.publisher.Publish(p.topic, msg)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.publisher.Publish(p.topic, msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrPublishTimeout
		}
		return ctx.Err()
	}
}
