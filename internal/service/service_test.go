package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/db"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/repository"
)

var testNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db           *sqlx.DB
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	goalRepo     repository.GoalRepository
	txRepo       repository.TransactionRepository
	email        *EmailService
	auth         *AuthService
	goals        *GoalService
	transactions *TransactionService
	notifier     *recordingNotifier
}

type recordingNotifier struct {
	achieved []*model.Goal
}

func (n *recordingNotifier) GoalAchieved(_ context.Context, _ string, goal *model.Goal) {
	n.achieved = append(n.achieved, goal)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init(db.DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))

	env := &testEnv{
		db:       database,
		users:    repository.NewUserRepository(database),
		profiles: repository.NewProfileRepository(database),
		goalRepo: repository.NewGoalRepository(database),
		txRepo:   repository.NewTransactionRepository(database),
		email:    NewEmailService("", "noreply@example.com", "http://localhost:8090", "Time Deposit", true),
		notifier: &recordingNotifier{},
	}

	env.auth = NewAuthService(env.users, env.profiles, env.email, "test-secret", false, time.Hour)
	env.goals = NewGoalService(env.goalRepo)
	env.goals.now = func() time.Time { return testNow }
	env.transactions = NewTransactionService(env.goalRepo, env.txRepo, env.notifier)
	env.transactions.now = func() time.Time { return testNow }

	return env
}

func (e *testEnv) signUp(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := e.auth.AuthenticateOAuth(context.Background(), OAuthIdentity{
		Provider: "google",
		Email:    email,
		Name:     "Test Saver",
	})
	require.NoError(t, err)
	return user
}

// strictGoalRepo fails the test on any storage access.
type strictGoalRepo struct {
	repository.GoalRepository
	t *testing.T
}

func (r strictGoalRepo) NextSortOrder(context.Context, string) (int, error) {
	r.t.Fatal("unexpected storage access")
	return 0, nil
}

func (r strictGoalRepo) ByID(context.Context, string, string) (*model.Goal, error) {
	r.t.Fatal("unexpected storage access")
	return nil, nil
}

func (r strictGoalRepo) Goals(context.Context, string) ([]*model.Goal, error) {
	r.t.Fatal("unexpected storage access")
	return nil, nil
}

func (r strictGoalRepo) SoftDelete(context.Context, string, string) error {
	r.t.Fatal("unexpected storage access")
	return nil
}
