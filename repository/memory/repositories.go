package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"parlay/domain/entities"
)

// access runs fn against the state the repository is bound to
type access func(fn func(*state) error) error

type userRepository struct {
	with access
	now  func() time.Time
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	var user *entities.User
	err := r.with(func(s *state) error {
		if u, ok := s.users[id]; ok {
			user = copyUser(u)
		}
		return nil
	})
	return user, err
}

func (r *userRepository) Create(ctx context.Context, id int64, username string, startingTokens int64) (*entities.User, error) {
	var user *entities.User
	err := r.with(func(s *state) error {
		if _, ok := s.users[id]; ok {
			return fmt.Errorf("failed to create user %d: already exists", id)
		}
		now := r.now()
		created := &entities.User{
			ID:        id,
			Username:  username,
			Tokens:    startingTokens,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.users[id] = created
		s.userOrder = append(s.userOrder, id)
		user = copyUser(created)
		return nil
	})
	return user, err
}

func (r *userRepository) AdjustBalance(ctx context.Context, id int64, tokenDelta, pointDelta int64) (*entities.User, error) {
	var user *entities.User
	err := r.with(func(s *state) error {
		current, ok := s.users[id]
		if !ok {
			return fmt.Errorf("%w: user %d", entities.ErrNotFound, id)
		}
		if current.Tokens+tokenDelta < 0 {
			return fmt.Errorf("%w: user %d cannot cover %d tokens", entities.ErrInsufficientTokens, id, -tokenDelta)
		}
		updated := copyUser(current)
		updated.Tokens += tokenDelta
		updated.Points += pointDelta
		updated.UpdatedAt = r.now()
		s.users[id] = updated
		user = copyUser(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	var users []*entities.User
	err := r.with(func(s *state) error {
		for _, id := range s.userOrder {
			users = append(users, copyUser(s.users[id]))
		}
		return nil
	})
	return users, err
}

type questionRepository struct {
	with access
	now  func() time.Time
}

func (r *questionRepository) Create(ctx context.Context, question *entities.Question) error {
	return r.with(func(s *state) error {
		s.nextQuestionID++
		question.ID = s.nextQuestionID
		question.CreatedAt = r.now()
		s.questions[question.ID] = copyQuestion(question)
		return nil
	})
}

func (r *questionRepository) GetByID(ctx context.Context, id int64) (*entities.Question, error) {
	var question *entities.Question
	err := r.with(func(s *state) error {
		if q, ok := s.questions[id]; ok {
			question = copyQuestion(q)
		}
		return nil
	})
	return question, err
}

func (r *questionRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Question, error) {
	questions := make(map[int64]*entities.Question, len(ids))
	err := r.with(func(s *state) error {
		for _, id := range ids {
			if q, ok := s.questions[id]; ok {
				questions[id] = copyQuestion(q)
			}
		}
		return nil
	})
	return questions, err
}

// GetByIDsForShare needs no extra locking since the unit of work holds the store
func (r *questionRepository) GetByIDsForShare(ctx context.Context, ids []int64) (map[int64]*entities.Question, error) {
	return r.GetByIDs(ctx, ids)
}

func (r *questionRepository) GetByDate(ctx context.Context, date time.Time) ([]*entities.Question, error) {
	var questions []*entities.Question
	err := r.with(func(s *state) error {
		for _, q := range s.questions {
			if sameDate(q.ScheduledDate, date) {
				questions = append(questions, copyQuestion(q))
			}
		}
		return nil
	})
	slices.SortFunc(questions, func(a, b *entities.Question) int {
		if c := a.LockTime.Compare(b.LockTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return questions, err
}

func (r *questionRepository) SetWinningOption(ctx context.Context, id int64, option entities.Option) (bool, error) {
	var updated bool
	err := r.with(func(s *state) error {
		current, ok := s.questions[id]
		if !ok || current.WinningOption != nil {
			return nil
		}
		next := copyQuestion(current)
		next.WinningOption = &option
		s.questions[id] = next
		updated = true
		return nil
	})
	return updated, err
}

type ticketRepository struct {
	with access
	now  func() time.Time
	// created collects tickets inserted by the unit of work for the commit-time check
	created *[]int64
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	return r.with(func(s *state) error {
		for _, leg := range ticket.Legs {
			if _, ok := s.questions[leg.QuestionID]; !ok {
				return fmt.Errorf("failed to create legs: question %d does not exist", leg.QuestionID)
			}
		}
		s.nextTicketID++
		ticket.ID = s.nextTicketID
		ticket.CreatedAt = r.now()
		s.tickets[ticket.ID] = copyTicket(ticket)
		if r.created != nil {
			*r.created = append(*r.created, ticket.ID)
		}
		return nil
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	err := r.with(func(s *state) error {
		if t, ok := s.tickets[id]; ok {
			ticket = copyTicket(t)
		}
		return nil
	})
	return ticket, err
}

// GetByIDForUpdate needs no extra locking since the unit of work holds the store
func (r *ticketRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) GetByUser(ctx context.Context, userID int64, statuses []entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
	tickets, err := r.filter(func(t *entities.Ticket) bool {
		return t.UserID == userID && slices.Contains(statuses, t.Status)
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(tickets)
	if limit > 0 && len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return tickets, nil
}

func (r *ticketRepository) GetClaimedSince(ctx context.Context, since, until time.Time) ([]*entities.Ticket, error) {
	return r.filter(func(t *entities.Ticket) bool {
		return t.Status == entities.TicketStatusClaimed && !t.CreatedAt.Before(since) && !t.CreatedAt.After(until)
	})
}

// filter returns matching tickets oldest first
func (r *ticketRepository) filter(match func(*entities.Ticket) bool) ([]*entities.Ticket, error) {
	var tickets []*entities.Ticket
	err := r.with(func(s *state) error {
		for _, t := range s.tickets {
			if match(t) {
				tickets = append(tickets, copyTicket(t))
			}
		}
		return nil
	})
	slices.SortFunc(tickets, func(a, b *entities.Ticket) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tickets, err
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.TicketStatus, settledAt time.Time) (bool, error) {
	var updated bool
	err := r.with(func(s *state) error {
		current, ok := s.tickets[id]
		if !ok || current.Status != from {
			return nil
		}
		next := copyTicket(current)
		next.Status = to
		next.SettledAt = &settledAt
		s.tickets[id] = next
		updated = true
		return nil
	})
	return updated, err
}

type balanceHistoryRepository struct {
	with access
	now  func() time.Time
}

func (r *balanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	return r.with(func(s *state) error {
		s.nextHistoryID++
		history.ID = s.nextHistoryID
		history.CreatedAt = r.now()
		s.history = append(s.history, copyHistory(history))
		return nil
	})
}

func (r *balanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	var rows []*entities.BalanceHistory
	err := r.with(func(s *state) error {
		for i := len(s.history) - 1; i >= 0; i-- {
			if s.history[i].UserID != userID {
				continue
			}
			rows = append(rows, copyHistory(s.history[i]))
			if limit > 0 && len(rows) == limit {
				break
			}
		}
		return nil
	})
	return rows, err
}

func (r *balanceHistoryRepository) GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BalanceHistory, error) {
	var rows []*entities.BalanceHistory
	err := r.with(func(s *state) error {
		for _, h := range s.history {
			if h.RelatedTicketID != nil && *h.RelatedTicketID == ticketID {
				rows = append(rows, copyHistory(h))
			}
		}
		return nil
	})
	return rows, err
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
