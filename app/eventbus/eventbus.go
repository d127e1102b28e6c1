// Package eventbus publishes state-change events to NATS JetStream via
// watermill. The core treats the bus as fire-and-forget; consumers (tabulator
// dashboards, audit sinks) live outside this repository.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// Topics carried on the bus.
const (
	TopicRoundStateChanged      = "round.state.changed"
	TopicAppearanceStateChanged = "appearance.state.changed"
	TopicCompetitorStateChanged = "competitor.state.changed"
)

// EventBus publishes JSON payloads to a topic.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

type eventBus struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewEventBus connects to NATS JetStream and returns a publishing bus.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)
	marshaller := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
			JetStream: nats.JetStreamConfig{
				AutoProvision: true,
			},
		},
		watermillLogger,
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	return &eventBus{publisher: publisher, logger: logger}, nil
}

func (b *eventBus) Publish(_ context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (b *eventBus) Close() error {
	return b.publisher.Close()
}

// NoOp discards all events; used in tests.
type NoOp struct{}

func (NoOp) Publish(context.Context, string, any) error { return nil }

func (NoOp) Close() error { return nil }
