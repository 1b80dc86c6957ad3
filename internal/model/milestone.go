package model

import (
	"time"
)

type Milestone struct {
	ID                       string     `db:"id"`
	GoalID                   string     `db:"goal_id"`
	Title                    string     `db:"title"`
	Description              *string    `db:"description"`
	TargetDistanceKM         *float64   `db:"target_distance_km"`
	TargetDate               *time.Time `db:"target_date"`
	IsCompleted              bool       `db:"is_completed"`
	CompletedDate            *time.Time `db:"completed_date"`
	CelebrationCallScheduled bool       `db:"celebration_call_scheduled"`
	CreatedAt                time.Time  `db:"created_at"`
}

func (m *Milestone) IsPastDue(now time.Time) bool {
	return !m.IsCompleted && m.TargetDate != nil && m.TargetDate.Before(now)
}
