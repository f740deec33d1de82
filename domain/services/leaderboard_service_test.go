package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"parlay/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func leaderboardRoster() []*entities.User {
	return []*entities.User{
		{ID: TestUser1ID, Username: "alice"},
		{ID: TestUser2ID, Username: "bob"},
		{ID: TestUser3ID, Username: "carol"},
	}
}

func claimed(ticket *entities.Ticket) *entities.Ticket {
	ticket.Status = entities.TicketStatusClaimed
	return ticket
}

func TestRankStandings(t *testing.T) {
	won := questionsByID(
		decidedQuestion(TestQuestion1ID, entities.OptionA),
		decidedQuestion(TestQuestion2ID, entities.OptionB),
		decidedQuestion(TestQuestion3ID, entities.OptionA),
	)
	lost := questionsByID(
		decidedQuestion(TestQuestion1ID, entities.OptionB),
		decidedQuestion(TestQuestion2ID, entities.OptionB),
		decidedQuestion(TestQuestion3ID, entities.OptionA),
	)

	tests := []struct {
		name      string
		tickets   []*entities.Ticket
		questions map[int64]*entities.Question
		expected  []entities.Standing
	}{
		{
			name:      "no tickets zero-fills the roster in roster order",
			tickets:   nil,
			questions: map[int64]*entities.Question{},
			expected: []entities.Standing{
				{Rank: 1, UserID: TestUser1ID, Username: "alice", Points: 0},
				{Rank: 2, UserID: TestUser2ID, Username: "bob", Points: 0},
				{Rank: 3, UserID: TestUser3ID, Username: "carol", Points: 0},
			},
		},
		{
			name:      "winning claimed ticket ranks its owner first",
			tickets:   []*entities.Ticket{claimed(threeLegTicket(TestUser3ID, 2))},
			questions: won,
			expected: []entities.Standing{
				{Rank: 1, UserID: TestUser3ID, Username: "carol", Points: 800},
				{Rank: 2, UserID: TestUser1ID, Username: "alice", Points: 0},
				{Rank: 3, UserID: TestUser2ID, Username: "bob", Points: 0},
			},
		},
		{
			name:      "lost ticket contributes nothing",
			tickets:   []*entities.Ticket{claimed(threeLegTicket(TestUser2ID, 5))},
			questions: lost,
			expected: []entities.Standing{
				{Rank: 1, UserID: TestUser1ID, Username: "alice", Points: 0},
				{Rank: 2, UserID: TestUser2ID, Username: "bob", Points: 0},
				{Rank: 3, UserID: TestUser3ID, Username: "carol", Points: 0},
			},
		},
		{
			name: "voided and unclaimed tickets are ignored",
			tickets: func() []*entities.Ticket {
				voided := threeLegTicket(TestUser2ID, 1)
				voided.Status = entities.TicketStatusVoided
				return []*entities.Ticket{voided, threeLegTicket(TestUser3ID, 1)}
			}(),
			questions: won,
			expected: []entities.Standing{
				{Rank: 1, UserID: TestUser1ID, Username: "alice", Points: 0},
				{Rank: 2, UserID: TestUser2ID, Username: "bob", Points: 0},
				{Rank: 3, UserID: TestUser3ID, Username: "carol", Points: 0},
			},
		},
		{
			name: "equal totals keep roster order and points accumulate",
			tickets: []*entities.Ticket{
				claimed(threeLegTicket(TestUser3ID, 1)),
				claimed(threeLegTicket(TestUser2ID, 1)),
				claimed(threeLegTicket(TestUser1ID, 1)),
				claimed(threeLegTicket(TestUser1ID, 1)),
			},
			questions: won,
			expected: []entities.Standing{
				{Rank: 1, UserID: TestUser1ID, Username: "alice", Points: 800},
				{Rank: 2, UserID: TestUser2ID, Username: "bob", Points: 400},
				{Rank: 3, UserID: TestUser3ID, Username: "carol", Points: 400},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := RankStandings(leaderboardRoster(), tt.tickets, tt.questions)

			require.Len(t, standings, len(tt.expected))
			for i, expected := range tt.expected {
				assert.Equal(t, expected, *standings[i], "row %d", i)
			}
		})
	}
}

func TestLeaderboardService_Rank(t *testing.T) {
	mocks := NewTestMocks()
	windowStart := testNow.Add(-24 * time.Hour)

	mocks.UserRepo.On("GetAll", mock.Anything).Return(leaderboardRoster(), nil)
	mocks.TicketRepo.On("GetClaimedSince", mock.Anything, windowStart, testNow).
		Return([]*entities.Ticket{claimed(threeLegTicket(TestUser2ID, 3))}, nil)
	mocks.QuestionRepo.On("GetByIDs", mock.Anything, threeLegIDs()).Return(questionsByID(
		decidedQuestion(TestQuestion1ID, entities.OptionA),
		decidedQuestion(TestQuestion2ID, entities.OptionB),
		decidedQuestion(TestQuestion3ID, entities.OptionA),
	), nil)

	service := NewLeaderboardService(mocks.UserRepo, mocks.TicketRepo, mocks.QuestionRepo, time.UTC, fixedClock)
	standings, err := service.Rank(context.Background(), windowStart)

	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, TestUser2ID, standings[0].UserID)
	assert.Equal(t, int64(1200), standings[0].Points)
	assert.Equal(t, TestUser1ID, standings[1].UserID)
	assert.Equal(t, TestUser3ID, standings[2].UserID)
	mocks.AssertAllExpectations(t)
}

func TestLeaderboardService_RankWindow(t *testing.T) {
	tests := []struct {
		name          string
		window        entities.Window
		expectedStart time.Time
	}{
		{name: "daily starts at midnight", window: entities.WindowDaily, expectedStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "weekly trails seven days", window: entities.WindowWeekly, expectedStart: testNow.Add(-7 * 24 * time.Hour)},
		{name: "monthly trails thirty days", window: entities.WindowMonthly, expectedStart: testNow.Add(-30 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			mocks.UserRepo.On("GetAll", mock.Anything).Return(leaderboardRoster(), nil)
			mocks.TicketRepo.On("GetClaimedSince", mock.Anything, tt.expectedStart, testNow).Return([]*entities.Ticket{}, nil)

			service := NewLeaderboardService(mocks.UserRepo, mocks.TicketRepo, mocks.QuestionRepo, time.UTC, fixedClock)
			standings, err := service.RankWindow(context.Background(), tt.window)

			require.NoError(t, err)
			assert.Len(t, standings, 3)
			mocks.QuestionRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestLeaderboardService_Rank_Error(t *testing.T) {
	mocks := NewTestMocks()
	mocks.UserRepo.On("GetAll", mock.Anything).Return(leaderboardRoster(), nil)
	mocks.TicketRepo.On("GetClaimedSince", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	service := NewLeaderboardService(mocks.UserRepo, mocks.TicketRepo, mocks.QuestionRepo, time.UTC, fixedClock)
	standings, err := service.Rank(context.Background(), testNow.Add(-time.Hour))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get claimed tickets")
	assert.Nil(t, standings)
}
