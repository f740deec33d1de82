package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parlay/database"
	"parlay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements the TicketRepository interface
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

const ticketColumns = `id, reference, user_id, wager, status, created_at, settled_at`

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.Reference,
		&ticket.UserID,
		&ticket.Wager,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Create inserts the ticket and its legs. Leg order is kept in position.
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (reference, user_id, wager, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.Reference,
		ticket.UserID,
		ticket.Wager,
		string(ticket.Status),
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket for user %d: %w", ticket.UserID, err)
	}

	questionIDs := make([]int64, len(ticket.Legs))
	options := make([]string, len(ticket.Legs))
	for i, leg := range ticket.Legs {
		questionIDs[i] = leg.QuestionID
		options[i] = string(leg.Selected)
	}

	legsQuery := `
		INSERT INTO ticket_legs (ticket_id, question_id, selected_option, position)
		SELECT $1, leg.question_id, leg.selected_option, leg.position
		FROM unnest($2::bigint[], $3::text[]) WITH ORDINALITY AS leg(question_id, selected_option, position)
	`
	if _, err := r.q.Exec(ctx, legsQuery, ticket.ID, questionIDs, options); err != nil {
		return fmt.Errorf("failed to create legs for ticket %d: %w", ticket.ID, err)
	}

	return nil
}

// GetByID retrieves a ticket with its legs
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a ticket holding its row lock until the transaction ends
func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *TicketRepository) getOne(ctx context.Context, query string, id int64) (*entities.Ticket, error) {
	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}

	if err := r.loadLegs(ctx, []*entities.Ticket{ticket}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetByUser returns a user's tickets in the given statuses, newest first
func (r *TicketRepository) GetByUser(ctx context.Context, userID int64, statuses []entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC, id DESC
	`
	args := []any{userID, statusStrings(statuses)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	return r.getMany(ctx, query, args...)
}

// GetClaimedSince returns claimed tickets created within [since, until]
func (r *TicketRepository) GetClaimedSince(ctx context.Context, since, until time.Time) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE status = 'claimed' AND created_at >= $1 AND created_at <= $2
		ORDER BY created_at, id
	`
	return r.getMany(ctx, query, since, until)
}

func (r *TicketRepository) getMany(ctx context.Context, query string, args ...any) ([]*entities.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	if err := r.loadLegs(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// loadLegs fills in the legs of every ticket with one query
func (r *TicketRepository) loadLegs(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	byID := make(map[int64]*entities.Ticket, len(tickets))
	ids := make([]int64, 0, len(tickets))
	for _, ticket := range tickets {
		byID[ticket.ID] = ticket
		ids = append(ids, ticket.ID)
		ticket.Legs = nil
	}

	query := `
		SELECT ticket_id, question_id, selected_option
		FROM ticket_legs
		WHERE ticket_id = ANY($1)
		ORDER BY ticket_id, position
	`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to get ticket legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ticketID int64
			leg      entities.Leg
			selected string
		)
		if err := rows.Scan(&ticketID, &leg.QuestionID, &selected); err != nil {
			return fmt.Errorf("failed to scan ticket leg: %w", err)
		}
		leg.Selected = entities.Option(selected)
		if ticket, ok := byID[ticketID]; ok {
			ticket.Legs = append(ticket.Legs, leg)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate ticket legs: %w", err)
	}
	return nil
}

// UpdateStatus moves a ticket from one status to another only if it is still in from
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.TicketStatus, settledAt time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET status = $3, settled_at = $4
		WHERE id = $1 AND status = $2
	`

	result, err := r.q.Exec(ctx, query, id, string(from), string(to), settledAt)
	if err != nil {
		return false, fmt.Errorf("failed to update status for ticket %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func statusStrings(statuses []entities.TicketStatus) []string {
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status)
	}
	return out
}
