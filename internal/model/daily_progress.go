package model

import (
	"time"
)

// DailyProgress is the per-day check-in record. There is at most one row per
// (goal, calendar day); re-recording the same day overwrites it.
type DailyProgress struct {
	ID        string    `db:"id"`
	GoalID    string    `db:"goal_id"`
	Day       time.Time `db:"day"` // normalized to local midnight
	Completed bool      `db:"completed"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}
