package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridecoach/stride/internal/model"
)

func TestStartOpensSession(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	session, err := e.conversations.Start(user.ID, model.ConversationPlanning, nil)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
	assert.Equal(t, model.ConversationPlanning, session.ConversationType)

	open, err := e.conversations.Open(user.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, session.ID, open.ID)
}

func TestStartDefaultsToGeneral(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	session, err := e.conversations.Start(user.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ConversationGeneral, session.ConversationType)
}

func TestStartClosesStaleSession(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	stale, err := e.conversations.Start(user.ID, model.ConversationGeneral, nil)
	require.NoError(t, err)

	later := testNow.Add(3 * time.Hour)
	e.setNow(func() time.Time { return later })

	fresh, err := e.conversations.Start(user.ID, model.ConversationMotivation, nil)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, fresh.ID)

	open, err := e.conversations.Open(user.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, fresh.ID, open.ID)

	closed, err := e.convRepo.ByID(stale.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
}

func TestStartCapsStaleSessionDuration(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	stale, err := e.conversations.Start(user.ID, model.ConversationGeneral, nil)
	require.NoError(t, err)

	// Five hours later the crashed call is closed with at most the two-hour
	// idle limit on record.
	later := testNow.Add(5 * time.Hour)
	e.setNow(func() time.Time { return later })

	_, err = e.conversations.Start(user.ID, model.ConversationGeneral, nil)
	require.NoError(t, err)

	closed, err := e.convRepo.ByID(stale.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.True(t, closed.EndTime.Equal(testNow.Add(2*time.Hour)))
}

func TestEndStoresSummary(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	session, err := e.conversations.Start(user.ID, model.ConversationPostRun, nil)
	require.NoError(t, err)

	later := testNow.Add(20 * time.Minute)
	e.setNow(func() time.Time { return later })

	ended, err := e.conversations.End(session.ID, EndSessionInput{
		Transcript:   ptr("Talked through the tempo run."),
		Sentiment:    ptr("positive"),
		KeyTopics:    []string{"pacing", "hydration"},
		TasksCreated: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)
	assert.True(t, ended.EndTime.Equal(later))
	assert.Equal(t, []string{"pacing", "hydration"}, []string(ended.KeyTopics))
	assert.Equal(t, 1, ended.TasksCreated)

	open, err := e.conversations.Open(user.ID)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestEndTwiceRejected(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	session, err := e.conversations.Start(user.ID, model.ConversationGeneral, nil)
	require.NoError(t, err)

	_, err = e.conversations.End(session.ID, EndSessionInput{})
	require.NoError(t, err)

	_, err = e.conversations.End(session.ID, EndSessionInput{})
	assert.ErrorIs(t, err, ErrSessionAlreadyEnded)
}

func TestEndClampsTimeToStart(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t)

	session, err := e.conversations.Start(user.ID, model.ConversationGeneral, nil)
	require.NoError(t, err)

	// A clock that drifted backwards must never produce end < start.
	earlier := testNow.Add(-time.Minute)
	e.setNow(func() time.Time { return earlier })

	ended, err := e.conversations.End(session.ID, EndSessionInput{})
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)
	assert.True(t, ended.EndTime.Equal(session.StartTime))
}
