package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/models"
)

type EventConsumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
}

// NewEventConsumer initializes the Pulsar client and consumer.
func NewEventConsumer(pulsarURL, topic, subscription string) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	return &EventConsumer{client: client, consumer: consumer}, nil
}

// Run receives audit events until ctx is cancelled and hands each to store.
// Messages that fail to decode or store are nacked so they reach the
// dead letter topic after repeated deliveries.
func (c *EventConsumer) Run(ctx context.Context, store func(context.Context, models.AuditLog) error) error {
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			log.Error().Err(err).Msg("Error receiving message")
			continue
		}

		event, err := DecodeAuditLog(msg.Payload())
		if err != nil {
			log.Error().Err(err).Str("message_id", msg.ID().String()).Msg("Discarding malformed audit event")
			c.consumer.Nack(msg)
			continue
		}

		if err := store(ctx, event); err != nil {
			log.Error().Err(err).Str("entity", event.Entity).Msg("Failed to store audit event")
			c.consumer.Nack(msg)
			continue
		}

		if err := c.consumer.Ack(msg); err != nil {
			log.Warn().Err(err).Msg("Failed to ack message")
		}
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
}
