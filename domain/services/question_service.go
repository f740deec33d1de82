package services

import (
	"context"
	"fmt"
	"time"

	"parlay/domain/entities"
	"parlay/domain/events"
	"parlay/domain/interfaces"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type createQuestionRequest struct {
	Category      string    `validate:"max=50"`
	Subject       string    `validate:"max=100"`
	Prompt        string    `validate:"required,max=500"`
	OptionA       string    `validate:"required,max=100"`
	OptionB       string    `validate:"required,max=100,nefield=OptionA"`
	LockTime      time.Time `validate:"required"`
	ScheduledDate time.Time `validate:"required"`
}

// questionService implements the catalog's board and resolution operations
type questionService struct {
	questionRepo   interfaces.QuestionRepository
	eventPublisher interfaces.EventPublisher
	validate       *validator.Validate
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo interfaces.QuestionRepository, eventPublisher interfaces.EventPublisher) interfaces.QuestionService {
	return &questionService{
		questionRepo:   questionRepo,
		eventPublisher: eventPublisher,
		validate:       validator.New(),
	}
}

// GetBoard returns the questions scheduled for a date ordered by lock time
func (s *questionService) GetBoard(ctx context.Context, date time.Time) ([]*entities.Question, error) {
	questions, err := s.questionRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get board for %s: %w", date.Format(time.DateOnly), err)
	}
	return questions, nil
}

// CreateQuestion validates and stores a new undecided question
func (s *questionService) CreateQuestion(ctx context.Context, question *entities.Question) error {
	req := createQuestionRequest{
		Category:      question.Category,
		Subject:       question.Subject,
		Prompt:        question.Prompt,
		OptionA:       question.OptionA,
		OptionB:       question.OptionB,
		LockTime:      question.LockTime,
		ScheduledDate: question.ScheduledDate,
	}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	question.WinningOption = nil
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	log.WithFields(log.Fields{
		"questionID": question.ID,
		"lockTime":   question.LockTime,
	}).Info("Question created")
	return nil
}

// Resolve records the winning option. Restating the stored outcome is a no-op;
// changing it fails with ErrAlreadyResolved.
func (s *questionService) Resolve(ctx context.Context, questionID int64, option entities.Option) (*entities.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d", entities.ErrNotFound, questionID)
	}

	wasDecided := question.IsDecided()
	if err := question.Resolve(option); err != nil {
		return nil, err
	}
	if wasDecided {
		return question, nil
	}

	updated, err := s.questionRepo.SetWinningOption(ctx, questionID, option)
	if err != nil {
		return nil, fmt.Errorf("failed to set winning option: %w", err)
	}
	if !updated {
		// Someone else decided it in between
		current, err := s.questionRepo.GetByID(ctx, questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload question: %w", err)
		}
		if current == nil || current.WinningOption == nil || *current.WinningOption != option {
			return nil, fmt.Errorf("%w: question %d", entities.ErrAlreadyResolved, questionID)
		}
		return current, nil
	}

	if err := s.eventPublisher.Publish(events.QuestionResolvedEvent{
		QuestionID:    questionID,
		WinningOption: option,
	}); err != nil {
		log.WithError(err).Error("Failed to publish question resolved event")
	}

	log.WithFields(log.Fields{
		"questionID":    questionID,
		"winningOption": option,
	}).Info("Question resolved")

	return question, nil
}
