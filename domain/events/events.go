package events

import "parlay/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeUserCreated      EventType = "user_created"
	EventTypeTicketCreated    EventType = "ticket_created"
	EventTypeTicketClaimed    EventType = "ticket_claimed"
	EventTypeTicketVoided     EventType = "ticket_voided"
	EventTypeQuestionResolved EventType = "question_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldTokens       int64
	NewTokens       int64
	OldPoints       int64
	NewPoints       int64
	TransactionType entities.TransactionType
	TicketID        *int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new player receiving starting tokens
type UserCreatedEvent struct {
	UserID         int64
	Username       string
	StartingTokens int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// TicketCreatedEvent represents a ticket that was placed
type TicketCreatedEvent struct {
	TicketID  int64
	Reference string
	UserID    int64
	LegCount  int
	Wager     int64
}

func (e TicketCreatedEvent) Type() EventType {
	return EventTypeTicketCreated
}

// TicketClaimedEvent represents a ticket reaching a settled state
type TicketClaimedEvent struct {
	TicketID int64
	UserID   int64
	Won      bool
	Points   int64
	Tokens   int64
}

func (e TicketClaimedEvent) Type() EventType {
	return EventTypeTicketClaimed
}

// TicketVoidedEvent represents a cancelled ticket
type TicketVoidedEvent struct {
	TicketID int64
	UserID   int64
	Tokens   int64
}

func (e TicketVoidedEvent) Type() EventType {
	return EventTypeTicketVoided
}

// QuestionResolvedEvent represents a question receiving its outcome
type QuestionResolvedEvent struct {
	QuestionID    int64
	WinningOption entities.Option
}

func (e QuestionResolvedEvent) Type() EventType {
	return EventTypeQuestionResolved
}
