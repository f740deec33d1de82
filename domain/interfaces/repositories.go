package interfaces

import (
	"context"
	"time"

	"parlay/domain/entities"
	"parlay/domain/events"
)

// UserRepository defines the interface for user and balance data access
type UserRepository interface {
	// GetByID retrieves a user, returning nil when absent
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// Create creates a new user holding the starting tokens
	Create(ctx context.Context, id int64, username string, startingTokens int64) (*entities.User, error)

	// AdjustBalance applies both deltas in one all-or-nothing update and returns
	// the updated user. Fails with ErrInsufficientTokens instead of letting
	// tokens go negative, and with ErrNotFound for an unknown user.
	AdjustBalance(ctx context.Context, id int64, tokenDelta, pointDelta int64) (*entities.User, error)

	// GetAll returns the full roster in registration order
	GetAll(ctx context.Context) ([]*entities.User, error)
}

// QuestionRepository defines the interface for question catalog access
type QuestionRepository interface {
	// Create inserts a question and sets its ID
	Create(ctx context.Context, question *entities.Question) error

	// GetByID retrieves a question, returning nil when absent
	GetByID(ctx context.Context, id int64) (*entities.Question, error)

	// GetByIDs returns the questions found, keyed by id
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Question, error)

	// GetByIDsForShare is GetByIDs holding a shared row lock until the
	// surrounding transaction ends
	GetByIDsForShare(ctx context.Context, ids []int64) (map[int64]*entities.Question, error)

	// GetByDate returns the questions scheduled for a calendar date ordered by lock time
	GetByDate(ctx context.Context, date time.Time) ([]*entities.Question, error)

	// SetWinningOption records the outcome only if none is set yet.
	// Returns false when the question was already decided.
	SetWinningOption(ctx context.Context, id int64, option entities.Option) (bool, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create persists a ticket with its legs and sets ID and CreatedAt
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket, returning nil when absent
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetByIDForUpdate retrieves a ticket holding its row lock until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetByUser returns a user's tickets in the given statuses, newest first.
	// A limit of 0 returns all of them.
	GetByUser(ctx context.Context, userID int64, statuses []entities.TicketStatus, limit int) ([]*entities.Ticket, error)

	// GetClaimedSince returns claimed tickets created within [since, until]
	GetClaimedSince(ctx context.Context, since, until time.Time) ([]*entities.Ticket, error)

	// UpdateStatus moves a ticket from one status to another. Returns false
	// without writing when the stored status is not from.
	UpdateStatus(ctx context.Context, id int64, from, to entities.TicketStatus, settledAt time.Time) (bool, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)

	// GetByTicket returns every balance change caused by a ticket in order
	GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
