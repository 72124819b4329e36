package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/db"
	"github.com/timedeposit/timedeposit/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init(db.DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))
	return database
}

func createTestUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	require.NoError(t, NewUserRepository(database).Create(context.Background(), user))
	return user
}

func createTestGoal(t *testing.T, repo GoalRepository, userID, name string, target, current int64) *model.Goal {
	t.Helper()
	ctx := context.Background()

	sortOrder, err := repo.NextSortOrder(ctx, userID)
	require.NoError(t, err)

	now := time.Now()
	goal := &model.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		InitialAmount: current,
		CurrentAmount: current,
		MonthlyAmount: 1000,
		TargetType:    model.GoalTargetTypeDuration,
		SortOrder:     sortOrder,
		Progress:      model.CalculateProgress(current, target),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, goal))
	return goal
}
