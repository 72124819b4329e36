package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/planner"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/validation"
)

func TestUserServiceDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "saver@example.com")

	goal, err := env.goals.Create(ctx, user.ID, validation.GoalInput{Name: "Car", TargetAmount: 1000000, TargetMonths: 24}, planner.FieldMonths)
	require.NoError(t, err)

	users := NewUserService(env.users, env.profiles, env.email)
	require.NoError(t, users.DeleteAccount(ctx, user.ID))

	_, err = users.ByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = env.goals.ByID(ctx, user.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	assert.ErrorIs(t, users.DeleteAccount(ctx, ""), ErrUnauthenticated)
}

func TestProfileServiceUpdateSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "saver@example.com")
	profiles := NewProfileService(env.profiles)

	profile, err := profiles.UpdateSettings(ctx, user.ID, "  Hanako  ", false)
	require.NoError(t, err)
	assert.Equal(t, "Hanako", profile.Name)
	assert.False(t, profile.NotificationsEnabled)

	stored, err := profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hanako", stored.Name)
	assert.False(t, stored.NotificationsEnabled)

	_, err = profiles.UpdateSettings(ctx, user.ID, " ", true)
	assert.ErrorIs(t, err, validation.ErrNameRequired)

	_, err = profiles.UpdateSettings(ctx, user.ID, strings.Repeat("名", 101), true)
	assert.ErrorIs(t, err, validation.ErrNameTooLong)
}
