// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bullpen/internal/config"
)

const (
	memoryOutputBuffer  = 64
	natsReconnectWait   = 2 * time.Second
	natsReconnectBuffer = 1024 * 1024
	subscriberCloseWait = 5 * time.Second
	subscriberAckWait   = 10 * time.Second
)

// Bus is the pub/sub pair carrying decision events for one backend.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	backend    string
	topic      string
	url        string
	server     *EmbeddedServer

	closeOnce sync.Once
	closeErr  error
}

// NewBus connects the backend selected by cfg. The embedded backend starts
// its own NATS server and then behaves like the nats backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg *config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	wmLogger := NewWatermillLogger(logger.With().Str("component", "events").Logger())

	switch cfg.Backend {
	case "", config.EventsBackendMemory:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: memoryOutputBuffer,
		}, wmLogger)
		return &Bus{publisher: ch, subscriber: ch, backend: config.EventsBackendMemory, topic: cfg.Topic}, nil

	case config.EventsBackendNATS:
		return newNATSBus(cfg, cfg.NATSURL, nil, wmLogger)

	case config.EventsBackendEmbedded:
		srv, err := NewEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("url", srv.ClientURL()).Msg("embedded NATS server started")
		bus, err := newNATSBus(cfg, srv.ClientURL(), srv, wmLogger)
		if err != nil {
			srv.Shutdown()
			return nil, err
		}
		bus.backend = config.EventsBackendEmbedded
		return bus, nil

	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func newNATSBus(cfg *config.EventsConfig, url string, srv *EmbeddedServer, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("bullpen"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.ReconnectBufSize(natsReconnectBuffer),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	// Decisions are a live feed, so core NATS is enough; nothing is replayed.
	jsConfig := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jsConfig,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   subscriberAckWait,
		CloseTimeout:     subscriberCloseWait,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jsConfig,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &Bus{
		publisher:  pub,
		subscriber: sub,
		backend:    config.EventsBackendNATS,
		topic:      cfg.Topic,
		url:        url,
		server:     srv,
	}, nil
}

// Publisher returns the watermill publisher.
func (b *Bus) Publisher() message.Publisher { return b.publisher }

// Subscriber returns the watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// Backend returns the backend name: memory, nats or embedded.
func (b *Bus) Backend() string { return b.backend }

// Topic returns the decision topic.
func (b *Bus) Topic() string { return b.topic }

// URL returns the NATS URL, empty for the memory backend.
func (b *Bus) URL() string { return b.url }

// Close shuts down the publisher, the subscriber and any embedded server.
// It is safe to call more than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
		// gochannel uses one value for both sides
		if pub, ok := b.subscriber.(message.Publisher); !ok || pub != b.publisher {
			if err := b.subscriber.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close subscriber: %w", err))
			}
		}
		if b.server != nil {
			b.server.Shutdown()
		}
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}
