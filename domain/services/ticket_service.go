package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parlay/domain/entities"
	"parlay/domain/events"
	"parlay/domain/interfaces"
	"parlay/domain/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TicketRules bounds ticket creation
type TicketRules struct {
	MinWager int64
	MaxWager int64
	// MaxLegs caps legs per ticket. Defaults to entities.DefaultMaxLegs.
	MaxLegs int
	// Now is the clock used for lock deadline checks. Defaults to time.Now.
	Now func() time.Time
}

// createTicketRequest is the validated shape of a new ticket
type createTicketRequest struct {
	UserID int64        `validate:"required"`
	Legs   []legRequest `validate:"required,min=1,dive"`
	Wager  int64        `validate:"gte=1"`
}

type legRequest struct {
	QuestionID int64  `validate:"gt=0"`
	Selected   string `validate:"oneof=A B"`
}

// ticketService implements the ticket lifecycle
type ticketService struct {
	userRepo           interfaces.UserRepository
	questionRepo       interfaces.QuestionRepository
	ticketRepo         interfaces.TicketRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	rules              TicketRules
	validate           *validator.Validate
}

// NewTicketService creates a new ticket service
func NewTicketService(
	userRepo interfaces.UserRepository,
	questionRepo interfaces.QuestionRepository,
	ticketRepo interfaces.TicketRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	rules TicketRules,
) interfaces.TicketService {
	if rules.Now == nil {
		rules.Now = time.Now
	}
	if rules.MaxLegs <= 0 {
		rules.MaxLegs = entities.DefaultMaxLegs
	}
	return &ticketService{
		userRepo:           userRepo,
		questionRepo:       questionRepo,
		ticketRepo:         ticketRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		rules:              rules,
		validate:           validator.New(),
	}
}

// CreateTicket stakes the wager on a new open ticket. The lock deadlines are
// checked again right before returning so the caller commits only a ticket
// whose questions were all still open at that moment.
func (s *ticketService) CreateTicket(ctx context.Context, userID int64, legs []entities.Leg, wager int64) (*entities.Ticket, error) {
	if len(legs) == 0 {
		return nil, entities.ErrEmptySelection
	}
	if err := s.validateRequest(ctx, userID, legs, wager); err != nil {
		return nil, err
	}
	if err := entities.ValidateLegs(legs); err != nil {
		return nil, err
	}
	if wager < s.rules.MinWager || wager > s.rules.MaxWager {
		return nil, fmt.Errorf("%w: must be between %d and %d", entities.ErrInvalidWager, s.rules.MinWager, s.rules.MaxWager)
	}
	if err := entities.CheckPayout(len(legs), wager); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", entities.ErrNotFound, userID)
	}

	ticket := &entities.Ticket{
		Reference: uuid.New(),
		UserID:    userID,
		Legs:      append([]entities.Leg(nil), legs...),
		Wager:     wager,
		Status:    entities.TicketStatusOpen,
	}

	questions, err := s.questionRepo.GetByIDs(ctx, ticket.QuestionIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if err := s.checkOpen(ticket, questions); err != nil {
		return nil, err
	}

	if !user.CanAfford(wager) {
		return nil, fmt.Errorf("%w: have %d, need %d", entities.ErrInsufficientTokens, user.Tokens, wager)
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	ticketID := ticket.ID
	if _, err := utils.ApplyBalanceChange(ctx, s.userRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		UserID:          userID,
		TokenDelta:      -wager,
		TransactionType: entities.TransactionTypeTicketStake,
		TicketID:        &ticketID,
		Metadata: map[string]any{
			"reference": ticket.Reference.String(),
			"legs":      len(ticket.Legs),
		},
	}); err != nil {
		return nil, err
	}

	// Re-read under a shared lock with a fresh clock reading
	locked, err := s.questionRepo.GetByIDsForShare(ctx, ticket.QuestionIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to lock questions: %w", err)
	}
	if err := s.checkOpen(ticket, locked); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.TicketCreatedEvent{
		TicketID:  ticket.ID,
		Reference: ticket.Reference.String(),
		UserID:    userID,
		LegCount:  len(ticket.Legs),
		Wager:     wager,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket created event")
	}

	log.WithFields(log.Fields{
		"ticketID":  ticket.ID,
		"reference": ticket.Reference,
		"userID":    userID,
		"legs":      len(ticket.Legs),
		"wager":     wager,
	}).Info("Ticket created")

	return ticket, nil
}

// Claim settles a ready ticket: tokens always come back, points only on a win
func (s *ticketService) Claim(ctx context.Context, userID, ticketID int64) (*entities.ClaimResult, error) {
	ticket, err := s.lockOwnedTicket(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetByIDs(ctx, ticket.QuestionIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if err := ticket.CheckClaimable(questions); err != nil {
		return nil, err
	}

	outcome := ticket.Evaluate(questions)
	result := &entities.ClaimResult{
		TicketID:       ticket.ID,
		Won:            outcome.Won(),
		TokensReturned: ticket.Wager,
	}
	if result.Won {
		if err := entities.CheckPayout(len(ticket.Legs), ticket.Wager); err != nil {
			return nil, err
		}
		result.Points = ticket.Payout()
	}

	if err := s.transition(ctx, ticket, entities.TicketStatusClaimed); err != nil {
		return nil, err
	}

	txType := entities.TransactionTypeTicketRefund
	if result.Won {
		txType = entities.TransactionTypeTicketPayout
	}
	if _, err := utils.ApplyBalanceChange(ctx, s.userRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		UserID:          userID,
		TokenDelta:      ticket.Wager,
		PointDelta:      result.Points,
		TransactionType: txType,
		TicketID:        &ticket.ID,
		Metadata: map[string]any{
			"won":  result.Won,
			"legs": len(ticket.Legs),
		},
	}); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.TicketClaimedEvent{
		TicketID: ticket.ID,
		UserID:   userID,
		Won:      result.Won,
		Points:   result.Points,
		Tokens:   result.TokensReturned,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket claimed event")
	}

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"userID":   userID,
		"won":      result.Won,
		"points":   result.Points,
	}).Info("Ticket claimed")

	return result, nil
}

// Cancel voids an unsettled ticket and returns its stake. No points are ever credited.
func (s *ticketService) Cancel(ctx context.Context, userID, ticketID int64) (*entities.Ticket, error) {
	ticket, err := s.lockOwnedTicket(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.CheckCancellable(); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, ticket, entities.TicketStatusVoided); err != nil {
		return nil, err
	}

	if _, err := utils.ApplyBalanceChange(ctx, s.userRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		UserID:          userID,
		TokenDelta:      ticket.Wager,
		TransactionType: entities.TransactionTypeTicketVoid,
		TicketID:        &ticket.ID,
	}); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.TicketVoidedEvent{
		TicketID: ticket.ID,
		UserID:   userID,
		Tokens:   ticket.Wager,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket voided event")
	}

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"userID":   userID,
		"tokens":   ticket.Wager,
	}).Info("Ticket voided")

	return ticket, nil
}

// ListTickets returns a user's tickets with their derived state, newest first
func (s *ticketService) ListTickets(ctx context.Context, userID int64, filter entities.TicketFilter, limit int) ([]*entities.TicketView, error) {
	tickets, err := s.ticketRepo.GetByUser(ctx, userID, filter.Statuses(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return buildTicketViews(ctx, s.questionRepo, tickets)
}

// ListClaimable returns the user's open tickets whose legs are all decided
func (s *ticketService) ListClaimable(ctx context.Context, userID int64) ([]*entities.Ticket, error) {
	views, err := s.ListTickets(ctx, userID, entities.TicketFilterOpen, 0)
	if err != nil {
		return nil, err
	}

	var ready []*entities.Ticket
	for _, view := range views {
		if view.State == entities.TicketStateReady {
			ready = append(ready, view.Ticket)
		}
	}
	return ready, nil
}

// lockOwnedTicket row-locks the ticket and verifies the caller owns it
func (s *ticketService) lockOwnedTicket(ctx context.Context, userID, ticketID int64) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.GetByIDForUpdate(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket %d", entities.ErrNotFound, ticketID)
	}
	if !ticket.IsOwnedBy(userID) {
		return nil, entities.ErrNotOwner
	}
	return ticket, nil
}

// transition flips an open ticket's settlement flag. The conditional update
// guards against a writer that did not take the row lock.
func (s *ticketService) transition(ctx context.Context, ticket *entities.Ticket, to entities.TicketStatus) error {
	now := s.rules.Now()
	updated, err := s.ticketRepo.UpdateStatus(ctx, ticket.ID, entities.TicketStatusOpen, to, now)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if !updated {
		current, err := s.ticketRepo.GetByID(ctx, ticket.ID)
		if err != nil {
			return fmt.Errorf("failed to reload ticket: %w", err)
		}
		if current != nil {
			if err := current.CheckCancellable(); err != nil {
				return err
			}
		}
		return fmt.Errorf("%w: ticket %d changed concurrently", entities.ErrInvalidState, ticket.ID)
	}

	ticket.Status = to
	ticket.SettledAt = &now
	return nil
}

// checkOpen fails with ErrMarketClosed if any leg's question is locked and
// with ErrNotFound if a question does not exist
func (s *ticketService) checkOpen(ticket *entities.Ticket, questions map[int64]*entities.Question) error {
	now := s.rules.Now()
	for _, leg := range ticket.Legs {
		q, ok := questions[leg.QuestionID]
		if !ok {
			return fmt.Errorf("%w: question %d", entities.ErrNotFound, leg.QuestionID)
		}
		if q.IsLocked(now) {
			return fmt.Errorf("%w: question %d locked at %s", entities.ErrMarketClosed, q.ID, q.LockTime.Format(time.RFC3339))
		}
	}
	return nil
}

func (s *ticketService) validateRequest(ctx context.Context, userID int64, legs []entities.Leg, wager int64) error {
	req := createTicketRequest{UserID: userID, Wager: wager}
	for _, leg := range legs {
		req.Legs = append(req.Legs, legRequest{QuestionID: leg.QuestionID, Selected: string(leg.Selected)})
	}

	if err := s.validate.VarCtx(ctx, legs, fmt.Sprintf("max=%d", s.rules.MaxLegs)); err != nil {
		return fmt.Errorf("%w: %d picked, at most %d allowed", entities.ErrTooManyLegs, len(legs), s.rules.MaxLegs)
	}

	err := s.validate.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			switch fe.Field() {
			case "Selected":
				return fmt.Errorf("%w: %v", entities.ErrInvalidOption, fe.Value())
			case "Wager":
				return fmt.Errorf("%w: %v", entities.ErrInvalidWager, fe.Value())
			case "QuestionID":
				return fmt.Errorf("%w: question %v", entities.ErrNotFound, fe.Value())
			}
		}
	}
	return fmt.Errorf("invalid ticket request: %w", err)
}

// buildTicketViews loads every referenced question once and derives each ticket's state
func buildTicketViews(ctx context.Context, questionRepo interfaces.QuestionRepository, tickets []*entities.Ticket) ([]*entities.TicketView, error) {
	if len(tickets) == 0 {
		return nil, nil
	}

	questions, err := questionRepo.GetByIDs(ctx, collectQuestionIDs(tickets))
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	views := make([]*entities.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		views = append(views, &entities.TicketView{
			Ticket:          ticket,
			State:           ticket.State(questions),
			Outcome:         ticket.Evaluate(questions),
			PotentialPayout: ticket.Payout(),
		})
	}
	return views, nil
}

// collectQuestionIDs returns the distinct question ids across tickets in first-seen order
func collectQuestionIDs(tickets []*entities.Ticket) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, ticket := range tickets {
		for _, id := range ticket.QuestionIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
