package services

import (
	"context"
	"fmt"

	"parlay/domain/entities"
	"parlay/domain/interfaces"
	"parlay/domain/utils"

	log "github.com/sirupsen/logrus"
)

// userService handles player registration
type userService struct {
	userRepo           interfaces.UserRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	startingTokens     int64
}

// NewUserService creates a new user service
func NewUserService(
	userRepo interfaces.UserRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	startingTokens int64,
) interfaces.UserService {
	return &userService{
		userRepo:           userRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		startingTokens:     startingTokens,
	}
}

// GetOrCreateUser retrieves an existing user or creates one holding the starting tokens
func (s *userService) GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.Create(ctx, userID, username, s.startingTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		TokensBefore:    0,
		TokensAfter:     user.Tokens,
		TokenDelta:      user.Tokens,
		TransactionType: entities.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"username": username,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"username": username,
		"tokens":   user.Tokens,
	}).Info("Registered new player")

	return user, nil
}
