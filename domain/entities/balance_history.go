package entities

import "time"

// TransactionType classifies a balance mutation
type TransactionType string

const (
	TransactionTypeInitial      TransactionType = "initial"
	TransactionTypeTicketStake  TransactionType = "ticket_stake"
	TransactionTypeTicketRefund TransactionType = "ticket_refund" // tokens returned by claim, win or lose
	TransactionTypeTicketPayout TransactionType = "ticket_payout"
	TransactionTypeTicketVoid   TransactionType = "ticket_void"
)

// BalanceHistory records one atomic change to a user's tokens and points
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              int64           `db:"user_id"`
	TokensBefore        int64           `db:"tokens_before"`
	TokensAfter         int64           `db:"tokens_after"`
	PointsBefore        int64           `db:"points_before"`
	PointsAfter         int64           `db:"points_after"`
	TokenDelta          int64           `db:"token_delta"`
	PointDelta          int64           `db:"point_delta"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedTicketID     *int64          `db:"related_ticket_id"`
	CreatedAt           time.Time       `db:"created_at"`
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeInitial:
		return "Starting tokens"
	case TransactionTypeTicketStake:
		return "Ticket stake"
	case TransactionTypeTicketRefund:
		return "Ticket tokens returned"
	case TransactionTypeTicketPayout:
		return "Ticket won"
	case TransactionTypeTicketVoid:
		return "Ticket cancelled"
	default:
		return string(bh.TransactionType)
	}
}
