package application

import (
	"context"

	"parlay/domain/interfaces"
)

// Repositories exposes the store contracts the ledger works through
type Repositories interface {
	UserRepository() interfaces.UserRepository
	QuestionRepository() interfaces.QuestionRepository
	TicketRepository() interfaces.TicketRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	Repositories
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork

	// Readers returns repositories outside any transaction for read-only
	// queries. They must be safe for concurrent use.
	Readers() Repositories
}
