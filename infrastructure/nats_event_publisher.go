package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"parlay/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// domainEventStream is the JetStream stream holding every published domain event
const domainEventStream = "parlay_events"

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// messagePublisher is the transport the publisher writes envelopes to
type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// publishRecorder counts published messages
type publishRecorder interface {
	RecordNATSMessagePublished(eventType string)
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	natsClient    messagePublisher
	subjectMapper *EventSubjectMapper
	metrics       publishRecorder
}

// NewNATSEventPublisher creates a new NATS event publisher. metrics may be nil.
func NewNATSEventPublisher(natsClient messagePublisher, subjectMapper *EventSubjectMapper, metrics publishRecorder) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		metrics:       metrics,
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()
	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(eventType),
		Timestamp:     time.Now().UTC(),
		SourceService: "parlay",
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		// The stream may not exist yet; events are best effort
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordNATSMessagePublished(string(eventType))
	}

	log.WithFields(log.Fields{
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// EnsureDomainEventStream ensures the domain event stream exists with the correct subjects
func (p *NATSEventPublisher) EnsureDomainEventStream(client *NATSClient) error {
	return client.ensureStream(domainEventStream, p.subjectMapper.GetAllSubjects())
}
