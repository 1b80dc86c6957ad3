package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridecoach/stride/internal/repository"
)

func TestCreateGoalActivatesAndDeactivatesPrior(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	first := e.createGoal(t, user.ID)
	assert.True(t, first.IsActive)

	active, err := e.goals.ActiveGoal(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	second := e.createGoal(t, user.ID)
	assert.True(t, second.IsActive)

	active, err = e.goals.ActiveGoal(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	reloaded, err := e.goals.ByID(first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	goals, err := e.goals.Goals(user.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 2)
}

func TestCreateGoalPersistsOnboardingFields(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run a 10k without stopping", reloaded.GoalText)
	assert.Equal(t, "evening", reloaded.StruggleTime)
	require.NotNil(t, reloaded.FitnessLevel)
	assert.Equal(t, "beginner", *reloaded.FitnessLevel)
	require.NotNil(t, reloaded.WeeklyFrequency)
	assert.Equal(t, 3, *reloaded.WeeklyFrequency)
	assert.Equal(t, []string{"motivation", "time"}, []string(reloaded.ObstacleCategories))
}

func TestCreateGoalUnknownUser(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.goals.CreateGoal("no-such-user", CreateGoalInput{GoalText: "run"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestDeleteGoalCascades(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)

	require.NoError(t, e.goals.DeleteGoal(goal.ID))

	_, err = e.goals.ByID(goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	var count int
	require.NoError(t, e.db.Get(&count, "SELECT COUNT(*) FROM daily_progress"))
	assert.Zero(t, count)
}

func TestDeleteUserCascades(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)
	_, err = e.conversations.Start(user.ID, "", nil)
	require.NoError(t, err)

	require.NoError(t, e.goals.DeleteUser(user.ID))

	_, err = e.goals.ByID(goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	for _, table := range []string{"goals", "daily_progress", "conversation_sessions"} {
		var count int
		require.NoError(t, e.db.Get(&count, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, count, table)
	}

	assert.ErrorIs(t, e.goals.DeleteUser(user.ID), repository.ErrUserNotFound)
}

func TestCurrentUserReturnsEarliest(t *testing.T) {
	e := newTestEnv(t)
	first := e.createUser(t)

	later := testNow.Add(time.Hour)
	e.setNow(func() time.Time { return later })
	_, err := e.goals.CreateUser("Second")
	require.NoError(t, err)

	current, err := e.goals.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}
