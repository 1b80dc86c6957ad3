package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

func TestBuildSnapshotFreshGoal(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	snapshot, err := e.contexts.Build(goal.ID)
	require.NoError(t, err)

	assert.Equal(t, goal.ID, snapshot.GoalID)
	assert.Equal(t, goal.GoalText, snapshot.GoalText)
	assert.Zero(t, snapshot.CurrentStreak)
	assert.Zero(t, snapshot.CompletionsThisWeek)
	assert.True(t, snapshot.CheckInDueToday)
	assert.Nil(t, snapshot.NextRun)
	assert.Nil(t, snapshot.CompletionRate)
	assert.Nil(t, snapshot.CurrentWeek)
	assert.Nil(t, snapshot.WeeksRemaining)
	assert.NotNil(t, snapshot.OverdueTasks)
	assert.Empty(t, snapshot.OverdueTasks)
	assert.Nil(t, snapshot.UpcomingMilestone)
	assert.Zero(t, snapshot.TotalRuns)
	assert.Zero(t, snapshot.TotalDistanceKM)
	assert.Nil(t, snapshot.AverageDifficulty)
	assert.Nil(t, snapshot.OpenConversation)
	assert.True(t, snapshot.BuiltAt.Equal(testNow))
}

func TestBuildSnapshotPopulated(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)
	_, err = e.progress.Record(goal.ID, testNow.AddDate(0, 0, -1), true, nil)
	require.NoError(t, err)

	completed := e.seedRun(testNow.AddDate(0, 0, -1), 5)
	upcoming := e.seedRun(testNow.AddDate(0, 0, 1), 5)
	e.seedSchedule(t, goal.ID, []*model.ScheduledRun{completed, upcoming})

	_, err = e.schedule.RecordSession(goal.ID, RecordSessionInput{
		ScheduledRunID:   &completed.ID,
		ActualDistanceKM: ptr(5.0),
		DifficultyRating: ptr(6),
		PainReported:     true,
	})
	require.NoError(t, err)

	_, err = e.tasks.CreateTask(goal.ID, CreateTaskInput{
		Title:   "Replace worn shoes",
		DueDate: ptr(testNow.AddDate(0, 0, -2)),
	})
	require.NoError(t, err)
	milestone, err := e.tasks.CreateMilestone(goal.ID, CreateMilestoneInput{
		Title:      "First 5k",
		TargetDate: ptr(testNow.AddDate(0, 0, 10)),
	})
	require.NoError(t, err)

	conversation, err := e.conversations.Start(user.ID, model.ConversationPreRun, nil)
	require.NoError(t, err)

	snapshot, err := e.contexts.Build(goal.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.CurrentStreak)
	assert.False(t, snapshot.CheckInDueToday)

	require.NotNil(t, snapshot.NextRun)
	assert.Equal(t, upcoming.ID, snapshot.NextRun.ID)
	require.NotNil(t, snapshot.CompletionRate)
	assert.InDelta(t, 1.0, *snapshot.CompletionRate, 1e-9)
	require.NotNil(t, snapshot.CurrentWeek)
	assert.Equal(t, 2, *snapshot.CurrentWeek)
	require.NotNil(t, snapshot.WeeksRemaining)
	assert.Equal(t, 4, *snapshot.WeeksRemaining)

	require.Len(t, snapshot.OverdueTasks, 1)
	require.NotNil(t, snapshot.UpcomingMilestone)
	assert.Equal(t, milestone.ID, snapshot.UpcomingMilestone.ID)

	assert.Equal(t, 1, snapshot.TotalRuns)
	assert.InDelta(t, 5.0, snapshot.TotalDistanceKM, 1e-9)
	require.NotNil(t, snapshot.AverageDifficulty)
	assert.InDelta(t, 6.0, *snapshot.AverageDifficulty, 1e-9)
	assert.Equal(t, 1, snapshot.RecentPainReports)

	require.NotNil(t, snapshot.OpenConversation)
	assert.Equal(t, conversation.ID, snapshot.OpenConversation.ID)
}

func TestBuildSnapshotIsPureRead(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)

	first, err := e.contexts.Build(goal.ID)
	require.NoError(t, err)
	second, err := e.contexts.Build(goal.ID)
	require.NoError(t, err)

	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.CompletionsThisWeek, second.CompletionsThisWeek)
	assert.Equal(t, first.TotalRuns, second.TotalRuns)
}

func TestBuildSnapshotUnknownGoal(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.contexts.Build("no-such-goal")
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}
