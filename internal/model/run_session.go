package model

import (
	"time"
)

const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

const (
	FeelingGreat    = "great"
	FeelingGood     = "good"
	FeelingOkay     = "okay"
	FeelingHard     = "hard"
	FeelingTerrible = "terrible"
)

// RunSession is a completed run as reported by the user, optionally
// fulfilling a ScheduledRun.
type RunSession struct {
	ID                    string    `db:"id"`
	GoalID                string    `db:"goal_id"`
	ScheduledRunID        *string   `db:"scheduled_run_id"`
	ConversationSessionID *string   `db:"conversation_session_id"`
	CompletedDate         time.Time `db:"completed_date"`
	ActualDistanceKM      *float64  `db:"actual_distance_km"`
	DurationMin           *int      `db:"duration_min"`
	DifficultyRating      *int      `db:"difficulty_rating"` // clamped to 1..10
	PainReported          bool      `db:"pain_reported"`
	PainLocation          *string   `db:"pain_location"`
	PainDescription       *string   `db:"pain_description"`
	EnergyLevel           *string   `db:"energy_level"`
	OverallFeeling        *string   `db:"overall_feeling"`
	Notes                 *string   `db:"notes"`
	WeatherConditions     *string   `db:"weather_conditions"`
}

// AveragePace returns minutes per km, or nil when distance or duration is
// missing.
func (s *RunSession) AveragePace() *float64 {
	if s.ActualDistanceKM == nil || s.DurationMin == nil || *s.ActualDistanceKM <= 0 {
		return nil
	}
	pace := float64(*s.DurationMin) / *s.ActualDistanceKM
	return &pace
}

func (s *RunSession) WasTooHard() bool {
	return s.PainReported || (s.DifficultyRating != nil && *s.DifficultyRating >= 8)
}

func (s *RunSession) WasTooEasy() bool {
	return s.DifficultyRating != nil && *s.DifficultyRating <= 3
}
