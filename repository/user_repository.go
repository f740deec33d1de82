package repository

import (
	"context"
	"errors"
	"fmt"

	"parlay/database"
	"parlay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, username, tokens, points, created_at, updated_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Tokens,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their Discord ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return user, nil
}

// Create creates a new user holding the starting tokens
func (r *UserRepository) Create(ctx context.Context, id int64, username string, startingTokens int64) (*entities.User, error) {
	query := `
		INSERT INTO users (id, username, tokens)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, id, username, startingTokens))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", id, err)
	}

	return user, nil
}

// AdjustBalance applies both deltas in a single conditional update so tokens
// can never go negative even without a row lock
func (r *UserRepository) AdjustBalance(ctx context.Context, id int64, tokenDelta, pointDelta int64) (*entities.User, error) {
	query := `
		UPDATE users
		SET tokens = tokens + $2, points = points + $3, updated_at = NOW()
		WHERE id = $1 AND tokens + $2 >= 0
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, id, tokenDelta, pointDelta))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to adjust balance for user %d: %w", id, err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check user %d: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", entities.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: user %d cannot cover %d tokens", entities.ErrInsufficientTokens, id, -tokenDelta)
}

// GetAll returns every registered user in registration order
func (r *UserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
