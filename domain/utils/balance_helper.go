package utils

import (
	"context"
	"fmt"

	"parlay/domain/entities"
	"parlay/domain/events"
	"parlay/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// BalanceChange describes one ledger mutation of a user's tokens and points
type BalanceChange struct {
	UserID          int64
	TokenDelta      int64
	PointDelta      int64
	TransactionType entities.TransactionType
	TicketID        *int64
	Metadata        map[string]any
}

// ApplyBalanceChange adjusts the balance atomically and records the change.
// It is the only path through which services touch balances.
func ApplyBalanceChange(ctx context.Context, userRepo interfaces.UserRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, change BalanceChange) (*entities.User, error) {
	user, err := userRepo.AdjustBalance(ctx, change.UserID, change.TokenDelta, change.PointDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance for user %d: %w", change.UserID, err)
	}

	history := &entities.BalanceHistory{
		UserID:              change.UserID,
		TokensBefore:        user.Tokens - change.TokenDelta,
		TokensAfter:         user.Tokens,
		PointsBefore:        user.Points - change.PointDelta,
		PointsAfter:         user.Points,
		TokenDelta:          change.TokenDelta,
		PointDelta:          change.PointDelta,
		TransactionType:     change.TransactionType,
		TransactionMetadata: change.Metadata,
		RelatedTicketID:     change.TicketID,
	}
	if err := RecordBalanceChange(ctx, balanceHistoryRepo, eventPublisher, history); err != nil {
		return nil, err
	}

	return user, nil
}

// RecordBalanceChange records a balance history entry and emits the matching events
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldTokens:       history.TokensBefore,
		NewTokens:       history.TokensAfter,
		OldPoints:       history.PointsBefore,
		NewPoints:       history.PointsAfter,
		TransactionType: history.TransactionType,
		TicketID:        history.RelatedTicketID,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"oldTokens":       event.OldTokens,
		"newTokens":       event.NewTokens,
		"pointDelta":      history.PointDelta,
		"transactionType": event.TransactionType,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if history.TransactionType == entities.TransactionTypeInitial {
		if username, ok := history.TransactionMetadata["username"].(string); ok {
			userCreatedEvent := events.UserCreatedEvent{
				UserID:         history.UserID,
				Username:       username,
				StartingTokens: history.TokensAfter,
			}
			if err := eventPublisher.Publish(userCreatedEvent); err != nil {
				log.WithError(err).Error("Failed to publish user created event")
			}
		}
	}

	return nil
}
