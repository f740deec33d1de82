package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"parlay/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

// fakeNATS captures published messages
type fakeNATS struct {
	messages []publishedMessage
	err      error
}

func (f *fakeNATS) Publish(ctx context.Context, subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

type countingRecorder struct {
	published map[string]int
}

func (c *countingRecorder) RecordNATSMessagePublished(eventType string) {
	if c.published == nil {
		c.published = make(map[string]int)
	}
	c.published[eventType]++
}

func TestNATSEventPublisher_PublishEnvelope(t *testing.T) {
	nats := &fakeNATS{}
	recorder := &countingRecorder{}
	publisher := NewNATSEventPublisher(nats, NewEventSubjectMapper(), recorder)

	err := publisher.Publish(events.TicketCreatedEvent{TicketID: 7, Reference: "ref", UserID: 3, LegCount: 2, Wager: 4})
	require.NoError(t, err)

	require.Len(t, nats.messages, 1)
	assert.Equal(t, "tickets.created", nats.messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(nats.messages[0].data, &envelope))
	assert.Equal(t, "ticket_created", envelope.EventType)
	assert.Equal(t, "parlay", envelope.SourceService)
	_, err = uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.TicketCreatedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, int64(7), payload.TicketID)
	assert.Equal(t, int64(4), payload.Wager)

	assert.Equal(t, 1, recorder.published["ticket_created"])
}

func TestNATSEventPublisher_PublishesToMappedSubject(t *testing.T) {
	nats := &fakeNATS{}
	publisher := NewNATSEventPublisher(nats, NewEventSubjectMapper(), nil)

	require.NoError(t, publisher.Publish(events.QuestionResolvedEvent{QuestionID: 1, WinningOption: "B"}))
	require.Len(t, nats.messages, 1)
	assert.Equal(t, "questions.resolved", nats.messages[0].subject)
}

func TestNATSEventPublisher_TransportError(t *testing.T) {
	publisher := NewNATSEventPublisher(&fakeNATS{err: errors.New("connection refused")}, NewEventSubjectMapper(), nil)

	err := publisher.Publish(events.UserCreatedEvent{UserID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event to NATS")
}

func TestEventSubjectMapper(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.BalanceChangeEvent{}, "users.balance_changed"},
		{events.UserCreatedEvent{}, "users.created"},
		{events.TicketCreatedEvent{}, "tickets.created"},
		{events.TicketClaimedEvent{}, "tickets.claimed"},
		{events.TicketVoidedEvent{}, "tickets.voided"},
		{events.QuestionResolvedEvent{}, "questions.resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
			assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(tt.subject))
			assert.Contains(t, mapper.GetAllSubjects(), tt.subject)
		})
	}
}
