package services

import (
	"context"
	"fmt"

	"parlay/domain/entities"
	"parlay/domain/interfaces"
)

const recentTicketCount = 5

// profileService summarises a player's record
type profileService struct {
	userRepo     interfaces.UserRepository
	ticketRepo   interfaces.TicketRepository
	questionRepo interfaces.QuestionRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo interfaces.UserRepository, ticketRepo interfaces.TicketRepository, questionRepo interfaces.QuestionRepository) interfaces.ProfileService {
	return &profileService{
		userRepo:     userRepo,
		ticketRepo:   ticketRepo,
		questionRepo: questionRepo,
	}
}

// GetProfile returns balances plus win and loss counts over claimed tickets.
// Voided tickets count as neither.
func (s *profileService) GetProfile(ctx context.Context, userID int64) (*entities.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", entities.ErrNotFound, userID)
	}

	tickets, err := s.ticketRepo.GetByUser(ctx, userID, entities.TicketFilterAll.Statuses(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	views, err := buildTicketViews(ctx, s.questionRepo, tickets)
	if err != nil {
		return nil, err
	}

	profile := &entities.Profile{User: user}
	for _, view := range views {
		switch view.State {
		case entities.TicketStateSettledWon:
			profile.Wins++
			profile.PointsWon += view.PotentialPayout
		case entities.TicketStateSettledLost:
			profile.Losses++
		case entities.TicketStateVoided:
			profile.Voided++
		default:
			profile.OpenTickets++
		}
	}

	if len(views) > recentTicketCount {
		profile.RecentTickets = views[:recentTicketCount]
	} else {
		profile.RecentTickets = views
	}

	return profile, nil
}
