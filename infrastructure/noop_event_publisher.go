package infrastructure

import (
	"parlay/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Used when NATS is not configured and by admin commands.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish discards the event
func (p *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
