package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/models"
)

// Notifier receives audit events for create, update, delete and status
// change operations.
type Notifier interface {
	Publish(event models.AuditLog) error
}

type producer interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

// EventPublisher sends audit events to a Pulsar topic
type EventPublisher struct {
	client   pulsar.Client
	producer producer
	timeout  time.Duration
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	p, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: p, timeout: 5 * time.Second}, nil
}

// Publish publishes an audit event to Pulsar, keyed by entity
func (p *EventPublisher) Publish(event models.AuditLog) error {
	event = Stamp(event)

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:       event.Entity,
		Payload:   message,
		EventTime: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("entity", event.Entity).Str("action", event.Action).Msg("Event sent to Pulsar")
	return nil
}

// Close closes the Pulsar producer and client
func (p *EventPublisher) Close() {
	p.producer.Close()
	if p.client != nil {
		p.client.Close()
	}
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// Stamp fills in the id and timestamp of an event when they are unset.
func Stamp(event models.AuditLog) models.AuditLog {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}

// DecodeAuditLog parses a message payload produced by Publish.
func DecodeAuditLog(payload []byte) (models.AuditLog, error) {
	var event models.AuditLog
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("error unmarshaling audit event: %w", err)
	}
	if event.Entity == "" || event.Action == "" {
		return event, fmt.Errorf("audit event missing entity or action")
	}
	return Stamp(event), nil
}
