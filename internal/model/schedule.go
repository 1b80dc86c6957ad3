package model

import (
	"time"
)

type RunningSchedule struct {
	ID                 string     `db:"id"`
	GoalID             string     `db:"goal_id"`
	StartDate          time.Time  `db:"start_date"`
	EndDate            *time.Time `db:"end_date"`
	WeeklyFrequency    int        `db:"weekly_frequency"` // 2..5 runs per week
	FitnessLevel       string     `db:"fitness_level"`
	TargetRaceDistance *float64   `db:"target_race_distance"`
	TargetRaceDate     *time.Time `db:"target_race_date"`
	CurrentWeek        int        `db:"current_week"`
	IsActive           bool       `db:"is_active"`
	Version            int        `db:"version"` // bumped by exactly 1 on each adaptation
	CreatedAt          time.Time  `db:"created_at"`
	LastAdaptedAt      *time.Time `db:"last_adapted_at"`
}

// WeeksRemaining counts whole weeks from now until the schedule end date,
// or nil for open-ended schedules.
func (s *RunningSchedule) WeeksRemaining(now time.Time) *int {
	if s.EndDate == nil {
		return nil
	}
	weeks := int(s.EndDate.Sub(now).Hours() / (24 * 7))
	if weeks < 0 {
		weeks = 0
	}
	return &weeks
}
