package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusCanTransition(t *testing.T) {
	terminal := []RunStatus{RunStatusCompleted, RunStatusMissed, RunStatusSkipped, RunStatusRescheduled}

	for _, next := range terminal {
		assert.True(t, RunStatusScheduled.CanTransition(next), "scheduled -> %s", next)
	}

	// Resolved runs have no outgoing edges, in any direction.
	for _, from := range terminal {
		for _, next := range append(terminal, RunStatusScheduled) {
			assert.False(t, from.CanTransition(next), "%s -> %s", from, next)
		}
	}
}

func TestScheduledRunIsPastDue(t *testing.T) {
	now := time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)

	run := &ScheduledRun{Status: RunStatusScheduled, ScheduledAt: now.Add(-time.Hour)}
	assert.True(t, run.IsPastDue(now))

	run.ScheduledAt = now.Add(time.Hour)
	assert.False(t, run.IsPastDue(now))

	run.ScheduledAt = now.Add(-time.Hour)
	run.Status = RunStatusMissed
	assert.False(t, run.IsPastDue(now))
}

func TestRunSessionSignals(t *testing.T) {
	nine, three, five := 9, 3, 5

	assert.True(t, (&RunSession{DifficultyRating: &nine}).WasTooHard())
	assert.True(t, (&RunSession{PainReported: true, DifficultyRating: &five}).WasTooHard())
	assert.True(t, (&RunSession{DifficultyRating: &three}).WasTooEasy())
	assert.False(t, (&RunSession{DifficultyRating: &five}).WasTooHard())
	assert.False(t, (&RunSession{DifficultyRating: &five}).WasTooEasy())
	assert.False(t, (&RunSession{}).WasTooHard())
}
