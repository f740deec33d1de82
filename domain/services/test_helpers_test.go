package services

import (
	"context"
	"testing"
	"time"

	"parlay/domain/entities"
	"parlay/domain/events"
	"parlay/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestUser1ID     = int64(100)
	TestUser2ID     = int64(200)
	TestUser3ID     = int64(300)
	TestTicketID    = int64(42)
	TestQuestion1ID = int64(1)
	TestQuestion2ID = int64(2)
	TestQuestion3ID = int64(3)
)

// testNow is the fixed clock used across service tests
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	UserRepo           *testhelpers.MockUserRepository
	QuestionRepo       *testhelpers.MockQuestionRepository
	TicketRepo         *testhelpers.MockTicketRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	EventPublisher     *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		UserRepo:           &testhelpers.MockUserRepository{},
		QuestionRepo:       &testhelpers.MockQuestionRepository{},
		TicketRepo:         &testhelpers.MockTicketRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.QuestionRepo.AssertExpectations(t)
	m.TicketRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectUserLookup sets up user repository mock expectations
func (h *MockHelper) ExpectUserLookup(userID int64, user *entities.User) {
	h.mocks.UserRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
}

// ExpectUserNotFound sets up user repository mock to return not found
func (h *MockHelper) ExpectUserNotFound(userID int64) {
	h.mocks.UserRepo.On("GetByID", mock.Anything, userID).Return(nil, nil)
}

// ExpectQuestions sets up the unlocked question lookup
func (h *MockHelper) ExpectQuestions(ids []int64, questions map[int64]*entities.Question) {
	h.mocks.QuestionRepo.On("GetByIDs", mock.Anything, ids).Return(questions, nil)
}

// ExpectQuestionsForShare sets up the commit-time question lookup
func (h *MockHelper) ExpectQuestionsForShare(ids []int64, questions map[int64]*entities.Question) {
	h.mocks.QuestionRepo.On("GetByIDsForShare", mock.Anything, ids).Return(questions, nil)
}

// ExpectTicketCreate assigns the given id to the created ticket
func (h *MockHelper) ExpectTicketCreate(id int64) {
	h.mocks.TicketRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Ticket")).
		Run(func(args mock.Arguments) {
			ticket := args.Get(1).(*entities.Ticket)
			ticket.ID = id
			ticket.CreatedAt = testNow
		}).Return(nil)
}

// ExpectTicketLock sets up the row-locked ticket lookup
func (h *MockHelper) ExpectTicketLock(ticket *entities.Ticket) {
	h.mocks.TicketRepo.On("GetByIDForUpdate", mock.Anything, ticket.ID).Return(ticket, nil)
}

// ExpectStatusUpdate sets up the conditional settlement flag update
func (h *MockHelper) ExpectStatusUpdate(ticketID int64, to entities.TicketStatus, updated bool) {
	h.mocks.TicketRepo.On("UpdateStatus", mock.Anything, ticketID, entities.TicketStatusOpen, to, testNow).Return(updated, nil)
}

// ExpectBalanceAdjust sets up an atomic balance update returning the resulting user
func (h *MockHelper) ExpectBalanceAdjust(userID, tokenDelta, pointDelta int64, after *entities.User) {
	h.mocks.UserRepo.On("AdjustBalance", mock.Anything, userID, tokenDelta, pointDelta).Return(after, nil)
}

// ExpectBalanceHistoryRecord sets up balance history repository mock with simple parameters
func (h *MockHelper) ExpectBalanceHistoryRecord(userID, tokenDelta, pointDelta int64, transactionType entities.TransactionType) {
	h.mocks.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(bh *entities.BalanceHistory) bool {
		return bh.UserID == userID &&
			bh.TokenDelta == tokenDelta &&
			bh.PointDelta == pointDelta &&
			bh.TransactionType == transactionType
	})).Return(nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// newQuestion builds an undecided question locking at lockTime
func newQuestion(id int64, lockTime time.Time) *entities.Question {
	return &entities.Question{
		ID:            id,
		Prompt:        "Who wins?",
		OptionA:       "Home",
		OptionB:       "Away",
		LockTime:      lockTime,
		ScheduledDate: lockTime.Truncate(24 * time.Hour),
	}
}

// decidedQuestion builds a question already resolved to o
func decidedQuestion(id int64, o entities.Option) *entities.Question {
	q := newQuestion(id, testNow.Add(-time.Hour))
	q.WinningOption = &o
	return q
}

func questionsByID(qs ...*entities.Question) map[int64]*entities.Question {
	m := make(map[int64]*entities.Question, len(qs))
	for _, q := range qs {
		m[q.ID] = q
	}
	return m
}

// threeLegTicket returns an open 3-leg ticket picking A, B, A
func threeLegTicket(userID int64, wager int64) *entities.Ticket {
	return &entities.Ticket{
		ID:     TestTicketID,
		UserID: userID,
		Wager:  wager,
		Status: entities.TicketStatusOpen,
		Legs: []entities.Leg{
			{QuestionID: TestQuestion1ID, Selected: entities.OptionA},
			{QuestionID: TestQuestion2ID, Selected: entities.OptionB},
			{QuestionID: TestQuestion3ID, Selected: entities.OptionA},
		},
	}
}

func threeLegIDs() []int64 {
	return []int64{TestQuestion1ID, TestQuestion2ID, TestQuestion3ID}
}

func threeLegs() []entities.Leg {
	return threeLegTicket(TestUser1ID, 1).Legs
}

func newTestTicketService(mocks *TestMocks, now func() time.Time) *ticketService {
	return NewTicketService(
		mocks.UserRepo,
		mocks.QuestionRepo,
		mocks.TicketRepo,
		mocks.BalanceHistoryRepo,
		mocks.EventPublisher,
		TicketRules{MinWager: 1, MaxWager: 5, Now: now},
	).(*ticketService)
}
