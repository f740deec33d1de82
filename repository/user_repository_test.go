package repository

import (
	"context"
	"errors"
	"testing"

	"parlay/domain/entities"
	"parlay/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "testuser", 5)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, int64(5), user.Tokens)
		assert.Equal(t, int64(0), user.Points)
		assert.Equal(t, created.CreatedAt, user.CreatedAt)
	})
}

func TestUserRepository_AdjustBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "alice", 5)
	require.NoError(t, err)

	t.Run("debit and credit", func(t *testing.T) {
		user, err := repo.AdjustBalance(ctx, 1, -2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.Tokens)

		user, err = repo.AdjustBalance(ctx, 1, 2, 800)
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.Tokens)
		assert.Equal(t, int64(800), user.Points)
	})

	t.Run("overdraw is rejected without writing", func(t *testing.T) {
		user, err := repo.AdjustBalance(ctx, 1, -6, 100)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrInsufficientTokens))
		assert.Nil(t, user)

		current, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), current.Tokens)
		assert.Equal(t, int64(800), current.Points)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, 404, 1, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrNotFound))
	})
}

func TestUserRepository_GetAll(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, id := range []int64{30, 10, 20} {
		_, err := repo.Create(ctx, id, "user", 5)
		require.NoError(t, err)
	}

	users, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(30), users[0].ID)
	assert.Equal(t, int64(10), users[1].ID)
	assert.Equal(t, int64(20), users[2].ID)
}
