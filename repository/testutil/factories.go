package testutil

import (
	"time"

	"parlay/domain/entities"

	"github.com/google/uuid"
)

// CreateTestQuestion creates an undecided question locking at lockTime
func CreateTestQuestion(prompt string, lockTime time.Time) *entities.Question {
	return &entities.Question{
		Category:      "NBA",
		Subject:       "Test Matchup",
		Prompt:        prompt,
		OptionA:       "Over",
		OptionB:       "Under",
		LockTime:      lockTime,
		ScheduledDate: lockTime.UTC().Truncate(24 * time.Hour),
	}
}

// CreateTestTicket creates an open ticket picking the given option on every question
func CreateTestTicket(userID int64, wager int64, option entities.Option, questionIDs ...int64) *entities.Ticket {
	legs := make([]entities.Leg, len(questionIDs))
	for i, id := range questionIDs {
		legs[i] = entities.Leg{QuestionID: id, Selected: option}
	}
	return &entities.Ticket{
		Reference: uuid.New(),
		UserID:    userID,
		Legs:      legs,
		Wager:     wager,
		Status:    entities.TicketStatusOpen,
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID int64, tokenDelta int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		UserID:          userID,
		TokensBefore:    5,
		TokensAfter:     5 + tokenDelta,
		TokenDelta:      tokenDelta,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
