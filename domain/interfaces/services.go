package interfaces

import (
	"context"
	"time"

	"parlay/domain/entities"
)

// UserService defines the interface for player registration
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates one holding the starting tokens
	GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error)
}

// TicketService defines the ticket lifecycle operations. Every mutating
// method expects to run inside one transaction.
type TicketService interface {
	// CreateTicket stakes tokens on a new open ticket
	CreateTicket(ctx context.Context, userID int64, legs []entities.Leg, wager int64) (*entities.Ticket, error)

	// Claim settles a ready ticket, returning its tokens and any points won
	Claim(ctx context.Context, userID, ticketID int64) (*entities.ClaimResult, error)

	// Cancel voids an unsettled ticket and returns its tokens
	Cancel(ctx context.Context, userID, ticketID int64) (*entities.Ticket, error)

	// ListTickets returns a user's tickets with their derived state
	ListTickets(ctx context.Context, userID int64, filter entities.TicketFilter, limit int) ([]*entities.TicketView, error)

	// ListClaimable returns the user's open tickets whose legs are all decided
	ListClaimable(ctx context.Context, userID int64) ([]*entities.Ticket, error)
}

// LeaderboardService defines standings computation
type LeaderboardService interface {
	// Rank returns every user's points from claimed tickets created since windowStart
	Rank(ctx context.Context, windowStart time.Time) ([]*entities.Standing, error)

	// RankWindow resolves a window policy and ranks from its start
	RankWindow(ctx context.Context, window entities.Window) ([]*entities.Standing, error)
}

// ProfileService defines the player summary
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*entities.Profile, error)
}

// QuestionService defines the question catalog operations
type QuestionService interface {
	// GetBoard returns the questions scheduled for a date ordered by lock time
	GetBoard(ctx context.Context, date time.Time) ([]*entities.Question, error)

	// CreateQuestion adds a question to the catalog
	CreateQuestion(ctx context.Context, question *entities.Question) error

	// Resolve records a question's winning option
	Resolve(ctx context.Context, questionID int64, option entities.Option) (*entities.Question, error)
}
