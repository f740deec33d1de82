package infrastructure

import (
	"fmt"

	"parlay/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByEventType = map[events.EventType]string{
	events.EventTypeBalanceChange:    "users.balance_changed",
	events.EventTypeUserCreated:      "users.created",
	events.EventTypeTicketCreated:    "tickets.created",
	events.EventTypeTicketClaimed:    "tickets.claimed",
	events.EventTypeTicketVoided:     "tickets.voided",
	events.EventTypeQuestionResolved: "questions.resolved",
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByEventType[event.Type()]; ok {
		return subject
	}
	// Fallback for unknown event types
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByEventType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"users.balance_changed",
		"users.created",
		"tickets.created",
		"tickets.claimed",
		"tickets.voided",
		"questions.resolved",
	}
}
