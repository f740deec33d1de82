package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"parlay/database"
	"parlay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q queryable
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(db *database.DB) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: db.Pool}
}

// newBalanceHistoryRepositoryWithTx creates a new balance history repository with a transaction
func newBalanceHistoryRepositoryWithTx(tx queryable) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: tx}
}

const balanceHistoryColumns = `id, user_id, tokens_before, tokens_after, points_before, points_after,
	token_delta, point_delta, transaction_type, transaction_metadata, related_ticket_id, created_at`

// Record creates a new balance history entry
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	metadataJSON, err := json.Marshal(history.TransactionMetadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO balance_history
		(user_id, tokens_before, tokens_after, points_before, points_after, token_delta, point_delta,
		 transaction_type, transaction_metadata, related_ticket_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		history.UserID,
		history.TokensBefore,
		history.TokensAfter,
		history.PointsBefore,
		history.PointsAfter,
		history.TokenDelta,
		history.PointDelta,
		string(history.TransactionType),
		metadataJSON,
		history.RelatedTicketID,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance history for user %d: %w", history.UserID, err)
	}

	return nil
}

// GetByUser returns balance history for a specific user, newest first
func (r *BalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT ` + balanceHistoryColumns + `
		FROM balance_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for user %d: %w", userID, err)
	}
	return collectBalanceHistory(rows)
}

// GetByTicket returns every balance change caused by a ticket in the order it happened
func (r *BalanceHistoryRepository) GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT ` + balanceHistoryColumns + `
		FROM balance_history
		WHERE related_ticket_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for ticket %d: %w", ticketID, err)
	}
	return collectBalanceHistory(rows)
}

func collectBalanceHistory(rows pgx.Rows) ([]*entities.BalanceHistory, error) {
	defer rows.Close()

	var histories []*entities.BalanceHistory
	for rows.Next() {
		var history entities.BalanceHistory
		var metadataJSON []byte

		err := rows.Scan(
			&history.ID,
			&history.UserID,
			&history.TokensBefore,
			&history.TokensAfter,
			&history.PointsBefore,
			&history.PointsAfter,
			&history.TokenDelta,
			&history.PointDelta,
			&history.TransactionType,
			&metadataJSON,
			&history.RelatedTicketID,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &history.TransactionMetadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return histories, nil
}
