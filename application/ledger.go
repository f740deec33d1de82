package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parlay/domain/entities"
	"parlay/domain/interfaces"
	"parlay/domain/services"

	log "github.com/sirupsen/logrus"
)

// MetricsRecorder receives ledger operation outcomes
type MetricsRecorder interface {
	RecordTicketOperation(operation, result string, duration time.Duration)
	UpdateOpenTickets(delta int64)
	RecordBalanceTransaction(transactionType string)
}

// Operation names reported to the MetricsRecorder
const (
	operationCreateTicket = "create_ticket"
	operationClaim        = "claim"
	operationCancel       = "cancel"
	operationResolve      = "resolve"
)

// LedgerConfig holds the rules the ledger enforces
type LedgerConfig struct {
	StartingTokens int64
	MinWager       int64
	MaxWager       int64
	// MaxLegs caps legs per ticket. Zero means entities.DefaultMaxLegs.
	MaxLegs int
	// Location is the timezone whose midnight starts the daily leaderboard
	Location *time.Location
	// Now is the clock for lock deadlines and leaderboard windows. Defaults to time.Now.
	Now func() time.Time
}

// Ledger coordinates every ticket and balance operation. Each mutating call
// runs in its own unit of work, so a failure leaves no partial effect.
type Ledger struct {
	uowFactory UnitOfWorkFactory
	config     LedgerConfig
	metrics    MetricsRecorder
}

// NewLedger creates a new ledger. metrics may be nil.
func NewLedger(uowFactory UnitOfWorkFactory, cfg LedgerConfig, metrics MetricsRecorder) *Ledger {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Ledger{
		uowFactory: uowFactory,
		config:     cfg,
		metrics:    metrics,
	}
}

// EnsureUser returns the user, registering them with the starting tokens on first sight
func (l *Ledger) EnsureUser(ctx context.Context, userID int64, username string) (*entities.User, error) {
	var user *entities.User
	err := l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		user, err = l.userService(uow).GetOrCreateUser(ctx, userID, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTicket stakes wager tokens on the given legs
func (l *Ledger) CreateTicket(ctx context.Context, userID int64, legs []entities.Leg, wager int64) (*entities.Ticket, error) {
	start := time.Now()

	var ticket *entities.Ticket
	err := l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		ticket, err = l.ticketService(uow).CreateTicket(ctx, userID, legs, wager)
		return err
	})
	l.metrics.RecordTicketOperation(operationCreateTicket, resultOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	l.metrics.UpdateOpenTickets(1)
	l.metrics.RecordBalanceTransaction(string(entities.TransactionTypeTicketStake))

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"userID":   userID,
		"legs":     len(ticket.Legs),
		"wager":    ticket.Wager,
	}).Info("Ticket created")
	return ticket, nil
}

// Claim settles a ready ticket exactly once
func (l *Ledger) Claim(ctx context.Context, userID, ticketID int64) (*entities.ClaimResult, error) {
	start := time.Now()

	var result *entities.ClaimResult
	err := l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = l.ticketService(uow).Claim(ctx, userID, ticketID)
		return err
	})
	l.metrics.RecordTicketOperation(operationClaim, resultOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	l.metrics.UpdateOpenTickets(-1)
	if result.Won {
		l.metrics.RecordBalanceTransaction(string(entities.TransactionTypeTicketPayout))
	} else {
		l.metrics.RecordBalanceTransaction(string(entities.TransactionTypeTicketRefund))
	}
	return result, nil
}

// ClaimAll claims every ready ticket of the user. Each claim commits on its
// own; a failing ticket is reported in Failures and does not stop the rest.
func (l *Ledger) ClaimAll(ctx context.Context, userID int64) (*entities.ClaimAllResult, error) {
	readers := l.uowFactory.Readers()
	claimable, err := l.readOnlyTicketService(readers).ListClaimable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimable tickets: %w", err)
	}

	result := &entities.ClaimAllResult{
		Results:  make([]*entities.ClaimResult, 0, len(claimable)),
		Failures: make(map[int64]error),
	}
	for _, ticket := range claimable {
		if err := ctx.Err(); err != nil {
			result.Failures[ticket.ID] = err
			continue
		}

		claim, err := l.Claim(ctx, userID, ticket.ID)
		if err != nil {
			log.WithFields(log.Fields{
				"ticketID": ticket.ID,
				"userID":   userID,
				"error":    err,
			}).Warn("Ticket failed during claim all")
			result.Failures[ticket.ID] = err
			continue
		}
		result.Results = append(result.Results, claim)
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"claimed":   result.Succeeded(),
		"failed":    len(result.Failures),
		"pointsWon": result.TotalPoints(),
	}).Info("Claim all finished")
	return result, nil
}

// Cancel voids an unsettled ticket and returns its wager
func (l *Ledger) Cancel(ctx context.Context, userID, ticketID int64) (*entities.Ticket, error) {
	start := time.Now()

	var ticket *entities.Ticket
	err := l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		ticket, err = l.ticketService(uow).Cancel(ctx, userID, ticketID)
		return err
	})
	l.metrics.RecordTicketOperation(operationCancel, resultOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	l.metrics.UpdateOpenTickets(-1)
	l.metrics.RecordBalanceTransaction(string(entities.TransactionTypeTicketVoid))
	return ticket, nil
}

// ListTickets returns the user's tickets newest first with their derived state
func (l *Ledger) ListTickets(ctx context.Context, userID int64, filter entities.TicketFilter, limit int) ([]*entities.TicketView, error) {
	return l.readOnlyTicketService(l.uowFactory.Readers()).ListTickets(ctx, userID, filter, limit)
}

// GetProfile returns the user's balance and ticket record
func (l *Ledger) GetProfile(ctx context.Context, userID int64) (*entities.Profile, error) {
	readers := l.uowFactory.Readers()
	return services.NewProfileService(
		readers.UserRepository(),
		readers.TicketRepository(),
		readers.QuestionRepository(),
	).GetProfile(ctx, userID)
}

// GetBoard returns the questions scheduled for date ordered by lock time
func (l *Ledger) GetBoard(ctx context.Context, date time.Time) ([]*entities.Question, error) {
	readers := l.uowFactory.Readers()
	return services.NewQuestionService(readers.QuestionRepository(), nil).GetBoard(ctx, date)
}

// CreateQuestion adds a question to the catalog
func (l *Ledger) CreateQuestion(ctx context.Context, question *entities.Question) error {
	return l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return services.NewQuestionService(uow.QuestionRepository(), uow.EventBus()).CreateQuestion(ctx, question)
	})
}

// ResolveQuestion records the winning option of a question
func (l *Ledger) ResolveQuestion(ctx context.Context, questionID int64, option entities.Option) (*entities.Question, error) {
	start := time.Now()

	var question *entities.Question
	err := l.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		question, err = services.NewQuestionService(uow.QuestionRepository(), uow.EventBus()).Resolve(ctx, questionID, option)
		return err
	})
	l.metrics.RecordTicketOperation(operationResolve, resultOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return question, nil
}

// Leaderboard ranks every user over the window. A positive limit keeps the top rows.
func (l *Ledger) Leaderboard(ctx context.Context, window entities.Window, limit int) ([]*entities.Standing, error) {
	standings, err := l.leaderboardService().RankWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	return standings, nil
}

// LeaderboardSince ranks every user over claimed tickets created since windowStart
func (l *Ledger) LeaderboardSince(ctx context.Context, windowStart time.Time) ([]*entities.Standing, error) {
	return l.leaderboardService().Rank(ctx, windowStart)
}

// withUnitOfWork runs fn in a fresh unit of work, committing on success and
// rolling back on error or panic
func (l *Ledger) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := recover(); err != nil {
			uow.Rollback()
			panic(err)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Failed to rollback transaction")
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		if errors.Is(err, entities.ErrMarketClosed) {
			return err
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (l *Ledger) userService(uow UnitOfWork) interfaces.UserService {
	return services.NewUserService(
		uow.UserRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		l.config.StartingTokens,
	)
}

func (l *Ledger) ticketService(uow UnitOfWork) interfaces.TicketService {
	return services.NewTicketService(
		uow.UserRepository(),
		uow.QuestionRepository(),
		uow.TicketRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		l.ticketRules(),
	)
}

// readOnlyTicketService serves listings. It has no event bus, so it must
// never be used for a mutating call.
func (l *Ledger) readOnlyTicketService(repos Repositories) interfaces.TicketService {
	return services.NewTicketService(
		repos.UserRepository(),
		repos.QuestionRepository(),
		repos.TicketRepository(),
		repos.BalanceHistoryRepository(),
		nil,
		l.ticketRules(),
	)
}

func (l *Ledger) leaderboardService() interfaces.LeaderboardService {
	readers := l.uowFactory.Readers()
	return services.NewLeaderboardService(
		readers.UserRepository(),
		readers.TicketRepository(),
		readers.QuestionRepository(),
		l.config.Location,
		l.config.Now,
	)
}

func (l *Ledger) ticketRules() services.TicketRules {
	return services.TicketRules{
		MinWager: l.config.MinWager,
		MaxWager: l.config.MaxWager,
		MaxLegs:  l.config.MaxLegs,
		Now:      l.config.Now,
	}
}

// resultOf classifies an operation error for metrics. Domain rejections
// are expected outcomes, anything else is an error.
func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case isDomainError(err):
		return "rejected"
	default:
		return "error"
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		entities.ErrInsufficientTokens,
		entities.ErrMarketClosed,
		entities.ErrEmptySelection,
		entities.ErrNotFound,
		entities.ErrNotOwner,
		entities.ErrAlreadyClaimed,
		entities.ErrAlreadyVoided,
		entities.ErrInvalidState,
		entities.ErrInvalidWager,
		entities.ErrDuplicateLeg,
		entities.ErrInvalidOption,
		entities.ErrAlreadyResolved,
		entities.ErrTooManyLegs,
		entities.ErrPayoutOverflow,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type noopMetrics struct{}

func (noopMetrics) RecordTicketOperation(string, string, time.Duration) {}
func (noopMetrics) UpdateOpenTickets(int64)                             {}
func (noopMetrics) RecordBalanceTransaction(string)                     {}
