package memory

import (
	"context"
	"fmt"
	"time"

	"parlay/application"
	"parlay/domain/entities"
	"parlay/domain/events"
	"parlay/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// UnitOfWorkFactory creates units of work over a Store
type UnitOfWorkFactory struct {
	store          *Store
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a factory whose units of work publish to
// eventPublisher after a successful commit
func NewUnitOfWorkFactory(store *Store, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		store:          store,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork instance
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		store:          f.store,
		eventPublisher: f.eventPublisher,
	}
}

// Readers returns repositories that read and write committed state directly
func (f *UnitOfWorkFactory) Readers() application.Repositories {
	s := f.store
	with := func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.committed)
	}
	return newRepositories(with, s.now, nil)
}

type repositories struct {
	userRepo           *userRepository
	questionRepo       *questionRepository
	ticketRepo         *ticketRepository
	balanceHistoryRepo *balanceHistoryRepository
}

func newRepositories(with access, now func() time.Time, created *[]int64) *repositories {
	return &repositories{
		userRepo:           &userRepository{with: with, now: now},
		questionRepo:       &questionRepository{with: with, now: now},
		ticketRepo:         &ticketRepository{with: with, now: now, created: created},
		balanceHistoryRepo: &balanceHistoryRepository{with: with, now: now},
	}
}

func (r *repositories) UserRepository() interfaces.UserRepository         { return r.userRepo }
func (r *repositories) QuestionRepository() interfaces.QuestionRepository { return r.questionRepo }
func (r *repositories) TicketRepository() interfaces.TicketRepository     { return r.ticketRepo }
func (r *repositories) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return r.balanceHistoryRepo
}

// unitOfWork stages writes on a copy of the committed state
type unitOfWork struct {
	store          *Store
	eventPublisher interfaces.EventPublisher
	working        *state
	created        []int64
	repos          *repositories
	pending        *bufferedPublisher
}

// Begin takes the store lock and snapshots the committed state
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.working != nil {
		return fmt.Errorf("transaction already started")
	}

	u.store.mu.Lock()
	u.working = u.store.committed.clone()
	u.created = nil
	u.repos = newRepositories(func(fn func(*state) error) error {
		return fn(u.working)
	}, u.store.now, &u.created)
	u.pending = &bufferedPublisher{}
	return nil
}

// Commit publishes the staged state, then flushes buffered events. Tickets
// whose questions locked before this moment are rejected like the database
// trigger does.
func (u *unitOfWork) Commit() error {
	if u.working == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.checkMarketsOpen(); err != nil {
		u.release()
		return err
	}

	u.store.committed = u.working
	pending := u.pending
	u.release()

	if u.eventPublisher != nil {
		for _, event := range pending.events {
			if err := u.eventPublisher.Publish(event); err != nil {
				log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish event after commit")
			}
		}
	}
	return nil
}

// Rollback discards the staged state and buffered events
func (u *unitOfWork) Rollback() error {
	if u.working == nil {
		return nil // Nothing to rollback
	}
	u.release()
	return nil
}

func (u *unitOfWork) release() {
	u.working = nil
	u.created = nil
	u.pending = nil
	u.store.mu.Unlock()
}

func (u *unitOfWork) checkMarketsOpen() error {
	now := u.store.now()
	for _, id := range u.created {
		ticket := u.working.tickets[id]
		for _, leg := range ticket.Legs {
			if q := u.working.questions[leg.QuestionID]; q != nil && q.IsLocked(now) {
				return fmt.Errorf("%w: question %d locked before commit", entities.ErrMarketClosed, q.ID)
			}
		}
	}
	return nil
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	return u.started().UserRepository()
}

func (u *unitOfWork) QuestionRepository() interfaces.QuestionRepository {
	return u.started().QuestionRepository()
}

func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	return u.started().TicketRepository()
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.started().BalanceHistoryRepository()
}

// EventBus returns a publisher that holds events until commit
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.pending == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pending
}

func (u *unitOfWork) started() *repositories {
	if u.working == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.repos
}

type bufferedPublisher struct {
	events []events.Event
}

func (p *bufferedPublisher) Publish(event events.Event) error {
	p.events = append(p.events, event)
	return nil
}
