package infrastructure

import (
	"context"

	"parlay/application"
	"parlay/domain/interfaces"
)

// unitOfWork wraps the repository UnitOfWork and adds event publishing on commit
type unitOfWork struct {
	inner                  application.UnitOfWork
	transactionalPublisher *NATSTransactionalPublisher
	ctx                    context.Context
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success
func (u *unitOfWork) Commit() error {
	if err := u.inner.Commit(); err != nil {
		u.transactionalPublisher.Discard()
		return err
	}

	// The transaction has committed, so events are best effort from here
	_ = u.transactionalPublisher.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	u.transactionalPublisher.Discard()
	return u.inner.Rollback()
}

// Repository getters - delegate to inner UnitOfWork
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	return u.inner.UserRepository()
}

func (u *unitOfWork) QuestionRepository() interfaces.QuestionRepository {
	return u.inner.QuestionRepository()
}

func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	return u.inner.TicketRepository()
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.inner.BalanceHistoryRepository()
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
