package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpsertsSameDay(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)

	// Re-recording the same day overwrites, it never duplicates.
	_, err = e.progress.Record(goal.ID, testNow.Add(3*time.Hour), false, ptr("felt off"))
	require.NoError(t, err)

	today, err := e.progress.TodayProgress(goal.ID)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.False(t, today.Completed)
	require.NotNil(t, today.Notes)
	assert.Equal(t, "felt off", *today.Notes)

	var count int
	require.NoError(t, e.db.Get(&count, "SELECT COUNT(*) FROM daily_progress WHERE goal_id = $1", goal.ID))
	assert.Equal(t, 1, count)
}

func TestTodayProgressNilWhenUnrecorded(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	today, err := e.progress.TodayProgress(goal.ID)
	require.NoError(t, err)
	assert.Nil(t, today)

	due, err := e.progress.IsCheckInDueToday(goal.ID)
	require.NoError(t, err)
	assert.True(t, due)
}

func TestCurrentStreakConsecutiveDays(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	for _, daysAgo := range []int{0, 1, 2} {
		_, err := e.progress.Record(goal.ID, testNow.AddDate(0, 0, -daysAgo), true, nil)
		require.NoError(t, err)
	}
	// Four days ago leaves a gap, so it must not count.
	_, err := e.progress.Record(goal.ID, testNow.AddDate(0, 0, -4), true, nil)
	require.NoError(t, err)

	streak, err := e.progress.CurrentStreak(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestCurrentStreakSkippedTodayFallsBackToYesterday(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	for _, daysAgo := range []int{0, 1, 2} {
		_, err := e.progress.Record(goal.ID, testNow.AddDate(0, 0, -daysAgo), true, nil)
		require.NoError(t, err)
	}

	streak, err := e.progress.CurrentStreak(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// Flipping today to not-completed leaves yesterday's streak standing.
	_, err = e.progress.Record(goal.ID, testNow, false, nil)
	require.NoError(t, err)

	streak, err = e.progress.CurrentStreak(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestCurrentStreakIgnoresFutureRecords(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, true, nil)
	require.NoError(t, err)
	_, err = e.progress.Record(goal.ID, testNow.AddDate(0, 0, 2), true, nil)
	require.NoError(t, err)

	streak, err := e.progress.CurrentStreak(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestCurrentStreakZeroWithoutRecords(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	streak, err := e.progress.CurrentStreak(goal.ID)
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestCompletionsThisWeekMondayBoundary(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	// testNow is Wednesday 2025-06-11; the week runs Monday 9th through
	// Sunday 15th.
	monday := time.Date(2025, time.June, 9, 8, 0, 0, 0, time.UTC)
	lastSunday := time.Date(2025, time.June, 8, 8, 0, 0, 0, time.UTC)

	for _, day := range []time.Time{monday, testNow, lastSunday} {
		_, err := e.progress.Record(goal.ID, day, true, nil)
		require.NoError(t, err)
	}
	// Non-completed records never count.
	_, err := e.progress.Record(goal.ID, testNow.AddDate(0, 0, -1), false, nil)
	require.NoError(t, err)

	count, err := e.progress.CompletionsThisWeek(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordZeroDayDefaultsToToday(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	progress, err := e.progress.Record(goal.ID, time.Time{}, true, nil)
	require.NoError(t, err)
	assert.True(t, progress.Day.Equal(time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)))

	today, err := e.progress.TodayProgress(goal.ID)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.True(t, today.Completed)
}

func TestSendCheckInReminderRespectsHourAndCheckIn(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	// Morning poll, the configured hour (20) is not reached yet.
	fired, err := e.progress.SendCheckInReminder(goal.ID)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Empty(t, e.notifier.reminded)

	evening := time.Date(2025, time.June, 11, 20, 30, 0, 0, time.UTC)
	e.setNow(func() time.Time { return evening })

	fired, err = e.progress.SendCheckInReminder(goal.ID)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, []string{goal.ID}, e.notifier.reminded)

	// Once today's check-in exists the nudge stays quiet.
	_, err = e.progress.Record(goal.ID, evening, true, nil)
	require.NoError(t, err)

	fired, err = e.progress.SendCheckInReminder(goal.ID)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, []string{goal.ID}, e.notifier.reminded)
}

func TestIsCheckInDueTodayClearsAfterRecord(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)
	goal := e.createGoal(t, user.ID)

	_, err := e.progress.Record(goal.ID, testNow, false, nil)
	require.NoError(t, err)

	due, err := e.progress.IsCheckInDueToday(goal.ID)
	require.NoError(t, err)
	assert.False(t, due)
}
