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

// QuestionRepository implements the QuestionRepository interface
type QuestionRepository struct {
	q queryable
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{q: db.Pool}
}

// newQuestionRepositoryWithTx creates a new question repository with a transaction
func newQuestionRepositoryWithTx(tx queryable) *QuestionRepository {
	return &QuestionRepository{q: tx}
}

const questionColumns = `id, category, subject, prompt, option_a, option_b, lock_time, winning_option, scheduled_date, created_at`

func scanQuestion(row pgx.Row) (*entities.Question, error) {
	var (
		question entities.Question
		winning  *string
	)
	err := row.Scan(
		&question.ID,
		&question.Category,
		&question.Subject,
		&question.Prompt,
		&question.OptionA,
		&question.OptionB,
		&question.LockTime,
		&winning,
		&question.ScheduledDate,
		&question.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if winning != nil {
		option := entities.Option(*winning)
		question.WinningOption = &option
	}
	return &question, nil
}

// Create inserts an undecided question
func (r *QuestionRepository) Create(ctx context.Context, question *entities.Question) error {
	query := `
		INSERT INTO questions (category, subject, prompt, option_a, option_b, lock_time, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		question.Category,
		question.Subject,
		question.Prompt,
		question.OptionA,
		question.OptionB,
		question.LockTime,
		dateOnly(question.ScheduledDate),
	).Scan(&question.ID, &question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	question, err := scanQuestion(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}

	return question, nil
}

// GetByIDs returns the questions that exist among ids keyed by id
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ANY($1)`
	return r.queryByIDs(ctx, query, ids)
}

// GetByIDsForShare is GetByIDs holding FOR SHARE row locks, which keeps the
// questions from being rescheduled until the transaction ends
func (r *QuestionRepository) GetByIDsForShare(ctx context.Context, ids []int64) (map[int64]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ANY($1) ORDER BY id FOR SHARE`
	return r.queryByIDs(ctx, query, ids)
}

func (r *QuestionRepository) queryByIDs(ctx context.Context, query string, ids []int64) (map[int64]*entities.Question, error) {
	questions := make(map[int64]*entities.Question, len(ids))
	if len(ids) == 0 {
		return questions, nil
	}

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions[question.ID] = question
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// GetByDate returns the questions scheduled for a calendar date ordered by lock time
func (r *QuestionRepository) GetByDate(ctx context.Context, date time.Time) ([]*entities.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE scheduled_date = $1
		ORDER BY lock_time, id
	`

	rows, err := r.q.Query(ctx, query, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for %s: %w", date.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var questions []*entities.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// SetWinningOption records the outcome only while none is set
func (r *QuestionRepository) SetWinningOption(ctx context.Context, id int64, option entities.Option) (bool, error) {
	query := `
		UPDATE questions
		SET winning_option = $2
		WHERE id = $1 AND winning_option IS NULL
	`

	result, err := r.q.Exec(ctx, query, id, string(option))
	if err != nil {
		return false, fmt.Errorf("failed to set winning option for question %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// dateOnly drops the clock part while keeping the calendar date of t
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
