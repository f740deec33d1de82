package repository

import (
	"context"
	"errors"
	"fmt"

	"parlay/application"
	"parlay/database"
	"parlay/domain/entities"
	"parlay/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// marketOpenConstraint is raised by the deferred ticket_legs trigger when a
// leg's question locked before the transaction committed
const marketOpenConstraint = "ticket_legs_market_open"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                 *database.DB
	tx                 pgx.Tx
	ctx                context.Context
	eventPublisher     interfaces.EventPublisher
	userRepo           interfaces.UserRepository
	questionRepo       interfaces.QuestionRepository
	ticketRepo         interfaces.TicketRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// CreateWithPublisher creates a new UnitOfWork whose event bus is the given publisher
func (f *unitOfWorkFactory) CreateWithPublisher(eventPublisher interfaces.EventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:             f.db,
		eventPublisher: eventPublisher,
	}
}

// Readers returns pool-backed repositories. The pool is safe for concurrent use.
func (f *unitOfWorkFactory) Readers() application.Repositories {
	return &readers{
		userRepo:           NewUserRepository(f.db),
		questionRepo:       NewQuestionRepository(f.db),
		ticketRepo:         NewTicketRepository(f.db),
		balanceHistoryRepo: NewBalanceHistoryRepository(f.db),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.questionRepo = newQuestionRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction. A leg whose question locked before the
// commit surfaces as ErrMarketClosed.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == marketOpenConstraint {
			return fmt.Errorf("%w: %s", entities.ErrMarketClosed, pgErr.Message)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// QuestionRepository returns the question repository for this unit of work
func (u *unitOfWork) QuestionRepository() interfaces.QuestionRepository {
	if u.questionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.questionRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// EventBus returns the event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.eventPublisher == nil {
		panic("event publisher not configured")
	}
	return u.eventPublisher
}

type readers struct {
	userRepo           interfaces.UserRepository
	questionRepo       interfaces.QuestionRepository
	ticketRepo         interfaces.TicketRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
}

func (r *readers) UserRepository() interfaces.UserRepository         { return r.userRepo }
func (r *readers) QuestionRepository() interfaces.QuestionRepository { return r.questionRepo }
func (r *readers) TicketRepository() interfaces.TicketRepository     { return r.ticketRepo }
func (r *readers) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return r.balanceHistoryRepo
}
