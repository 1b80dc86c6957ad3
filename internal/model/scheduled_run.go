package model

import (
	"time"
)

type RunType string

const (
	RunTypeEasy     RunType = "easy"
	RunTypeTempo    RunType = "tempo"
	RunTypeLong     RunType = "long"
	RunTypeRecovery RunType = "recovery"
	RunTypeInterval RunType = "interval"
)

type RunStatus string

const (
	RunStatusScheduled   RunStatus = "scheduled"
	RunStatusCompleted   RunStatus = "completed"
	RunStatusMissed      RunStatus = "missed"
	RunStatusRescheduled RunStatus = "rescheduled"
	RunStatusSkipped     RunStatus = "skipped"
)

// CanTransition reports whether the run status state machine allows moving
// from s to next. Only "scheduled" has outgoing edges; a reschedule re-enters
// "scheduled" on the same record with a new datetime.
func (s RunStatus) CanTransition(next RunStatus) bool {
	if s != RunStatusScheduled {
		return false
	}
	switch next {
	case RunStatusCompleted, RunStatusMissed, RunStatusRescheduled, RunStatusSkipped:
		return true
	}
	return false
}

type ScheduledRun struct {
	ID                  string     `db:"id"`
	ScheduleID          string     `db:"schedule_id"`
	ScheduledAt         time.Time  `db:"scheduled_at"`
	DistanceKM          float64    `db:"distance_km"`
	RunType             RunType    `db:"run_type"`
	TargetPace          *string    `db:"target_pace"`
	Status              RunStatus  `db:"status"`
	PreRunCallScheduled bool       `db:"pre_run_call_scheduled"`
	PreRunCallTime      *time.Time `db:"pre_run_call_time"`
	PreRunCallCompleted bool       `db:"pre_run_call_completed"`
	Notes               *string    `db:"notes"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// IsPastDue reports whether the run's scheduled time has passed while the run
// is still unresolved. The notification trigger polls this to mark misses.
func (r *ScheduledRun) IsPastDue(now time.Time) bool {
	return r.Status == RunStatusScheduled && r.ScheduledAt.Before(now)
}
