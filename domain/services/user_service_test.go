package services

import (
	"context"
	"errors"
	"testing"

	"parlay/domain/entities"
	"parlay/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetOrCreateUser(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*TestMocks, *MockHelper)
		expectedTokens int64
		expectedError  string
	}{
		{
			name: "existing user is returned untouched",
			setupMocks: func(mocks *TestMocks, helper *MockHelper) {
				helper.ExpectUserLookup(TestUser1ID, &entities.User{ID: TestUser1ID, Tokens: 2, Points: 400})
			},
			expectedTokens: 2,
		},
		{
			name: "new user receives starting tokens",
			setupMocks: func(mocks *TestMocks, helper *MockHelper) {
				helper.ExpectUserNotFound(TestUser1ID)
				mocks.UserRepo.On("Create", mock.Anything, TestUser1ID, "alice", int64(5)).
					Return(&entities.User{ID: TestUser1ID, Username: "alice", Tokens: 5}, nil)
				helper.ExpectBalanceHistoryRecord(TestUser1ID, 5, 0, entities.TransactionTypeInitial)
				helper.ExpectEventPublish(events.EventTypeBalanceChange)
				helper.ExpectEventPublish(events.EventTypeUserCreated)
			},
			expectedTokens: 5,
		},
		{
			name: "lookup failure",
			setupMocks: func(mocks *TestMocks, helper *MockHelper) {
				mocks.UserRepo.On("GetByID", mock.Anything, TestUser1ID).Return(nil, errors.New("timeout"))
			},
			expectedError: "failed to get user",
		},
		{
			name: "create failure",
			setupMocks: func(mocks *TestMocks, helper *MockHelper) {
				helper.ExpectUserNotFound(TestUser1ID)
				mocks.UserRepo.On("Create", mock.Anything, TestUser1ID, "alice", int64(5)).Return(nil, errors.New("unique violation"))
			},
			expectedError: "failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			helper := NewMockHelper(mocks)
			tt.setupMocks(mocks, helper)

			service := NewUserService(mocks.UserRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, 5)
			user, err := service.GetOrCreateUser(context.Background(), TestUser1ID, "alice")

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedTokens, user.Tokens)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}
