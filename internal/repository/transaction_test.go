package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/model"
)

func newDeposit(goal *model.Goal, amount int64, at time.Time) *model.Transaction {
	return &model.Transaction{
		ID:         uuid.New().String(),
		GoalID:     goal.ID,
		UserID:     goal.UserID,
		Amount:     amount,
		Type:       model.TransactionTypeManual,
		ExecutedAt: at,
	}
}

func TestTransactionRepositoryRecordAndRemove(t *testing.T) {
	database := newTestDB(t)
	goals := NewGoalRepository(database)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	user := createTestUser(t, database, "saver@example.com")
	goal := createTestGoal(t, goals, user.ID, "Laptop", 10000, 2000)

	first := time.Now().Add(-time.Hour)
	updated, err := repo.Record(ctx, newDeposit(goal, 3000, first))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.CurrentAmount)
	assert.Equal(t, int64(3000), updated.TotalDeposited)
	assert.Equal(t, 1, updated.TransactionCount)
	assert.InDelta(t, 50.0, updated.Progress, 0.001)
	assert.False(t, updated.IsCompleted)
	require.NotNil(t, updated.LastDepositDate)

	last := newDeposit(goal, 6000, time.Now())
	updated, err = repo.Record(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, int64(11000), updated.CurrentAmount)
	assert.Equal(t, 2, updated.TransactionCount)
	assert.InDelta(t, 110.0, updated.Progress, 0.001)
	assert.True(t, updated.IsCompleted)

	list, err := repo.Transactions(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, last.ID, list[0].ID)

	updated, err = repo.Remove(ctx, user.ID, goal.ID, last.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.CurrentAmount)
	assert.Equal(t, int64(3000), updated.TotalDeposited)
	assert.Equal(t, 1, updated.TransactionCount)
	assert.False(t, updated.IsCompleted)
	require.NotNil(t, updated.LastDepositDate)
	assert.WithinDuration(t, first, *updated.LastDepositDate, time.Second)

	_, err = repo.Remove(ctx, user.ID, goal.ID, last.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	list, err = repo.Transactions(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransactionRepositoryRecordUnknownGoal(t *testing.T) {
	database := newTestDB(t)
	goals := NewGoalRepository(database)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	user := createTestUser(t, database, "saver@example.com")
	goal := createTestGoal(t, goals, user.ID, "Laptop", 10000, 0)
	require.NoError(t, goals.SoftDelete(ctx, user.ID, goal.ID))

	_, err := repo.Record(ctx, newDeposit(goal, 100, time.Now()))
	assert.ErrorIs(t, err, ErrGoalNotFound)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM transactions`))
	assert.Equal(t, 0, count, "insert must be rolled back")
}
