// Package memory is an in-process store implementing the repository contracts.
// Each unit of work holds the store lock from Begin to Commit or Rollback and
// works on a private copy of the state, so units of work are serializable and
// a rolled back one leaves no trace.
package memory

import (
	"maps"
	"sync"
	"time"

	"parlay/domain/entities"
)

// Store holds committed state
type Store struct {
	mu        sync.Mutex
	committed *state
	now       func() time.Time
}

// NewStore creates an empty store. now stamps created rows and is the clock
// used for the commit-time lock check. Defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		committed: newState(),
		now:       now,
	}
}

type state struct {
	users          map[int64]*entities.User
	userOrder      []int64
	questions      map[int64]*entities.Question
	tickets        map[int64]*entities.Ticket
	history        []*entities.BalanceHistory
	nextQuestionID int64
	nextTicketID   int64
	nextHistoryID  int64
}

func newState() *state {
	return &state{
		users:     make(map[int64]*entities.User),
		questions: make(map[int64]*entities.Question),
		tickets:   make(map[int64]*entities.Ticket),
	}
}

// clone copies the maps so a unit of work can stage writes. Rows are replaced
// rather than mutated in place, so sharing row pointers is safe.
func (s *state) clone() *state {
	return &state{
		users:          maps.Clone(s.users),
		userOrder:      append([]int64(nil), s.userOrder...),
		questions:      maps.Clone(s.questions),
		tickets:        maps.Clone(s.tickets),
		history:        append([]*entities.BalanceHistory(nil), s.history...),
		nextQuestionID: s.nextQuestionID,
		nextTicketID:   s.nextTicketID,
		nextHistoryID:  s.nextHistoryID,
	}
}

func copyUser(u *entities.User) *entities.User {
	c := *u
	return &c
}

func copyQuestion(q *entities.Question) *entities.Question {
	c := *q
	if q.WinningOption != nil {
		o := *q.WinningOption
		c.WinningOption = &o
	}
	return &c
}

func copyTicket(t *entities.Ticket) *entities.Ticket {
	c := *t
	c.Legs = append([]entities.Leg(nil), t.Legs...)
	if t.SettledAt != nil {
		at := *t.SettledAt
		c.SettledAt = &at
	}
	return &c
}

func copyHistory(h *entities.BalanceHistory) *entities.BalanceHistory {
	c := *h
	c.TransactionMetadata = maps.Clone(h.TransactionMetadata)
	if h.RelatedTicketID != nil {
		id := *h.RelatedTicketID
		c.RelatedTicketID = &id
	}
	return &c
}
