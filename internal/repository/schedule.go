package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrScheduleNotFound = errors.New("running schedule not found")
)

type ScheduleRepository interface {
	CreateWithRuns(schedule *model.RunningSchedule, runs []*model.ScheduledRun) error
	ByID(scheduleID string) (*model.RunningSchedule, error)
	ActiveByGoal(goalID string) (*model.RunningSchedule, error)
	AdaptFutureRuns(scheduleID string, adaptedAt time.Time, runs []*model.ScheduledRun) error
	SetCurrentWeek(scheduleID string, week int) error
}

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// CreateWithRuns inserts the schedule and its generated runs atomically,
// deactivating any previous schedule for the goal.
func (r *scheduleRepository) CreateWithRuns(schedule *model.RunningSchedule, runs []*model.ScheduledRun) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE running_schedules SET is_active = FALSE WHERE goal_id = $1`, schedule.GoalID)
	if err != nil {
		return err
	}

	query := `INSERT INTO running_schedules (id, goal_id, start_date, end_date, weekly_frequency,
	              fitness_level, target_race_distance, target_race_date, current_week, is_active,
	              version, created_at, last_adapted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(query,
		schedule.ID,
		schedule.GoalID,
		schedule.StartDate,
		schedule.EndDate,
		schedule.WeeklyFrequency,
		schedule.FitnessLevel,
		schedule.TargetRaceDistance,
		schedule.TargetRaceDate,
		schedule.CurrentWeek,
		schedule.IsActive,
		schedule.Version,
		schedule.CreatedAt,
		schedule.LastAdaptedAt,
	)
	if err != nil {
		return err
	}

	runQuery := `INSERT INTO scheduled_runs (id, schedule_id, scheduled_at, distance_km, run_type,
	                 target_pace, status, pre_run_call_scheduled, pre_run_call_time,
	                 pre_run_call_completed, notes, created_at, updated_at)
	             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, run := range runs {
		_, err = tx.Exec(runQuery,
			run.ID,
			run.ScheduleID,
			run.ScheduledAt,
			run.DistanceKM,
			run.RunType,
			run.TargetPace,
			run.Status,
			run.PreRunCallScheduled,
			run.PreRunCallTime,
			run.PreRunCallCompleted,
			run.Notes,
			run.CreatedAt,
			run.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *scheduleRepository) ByID(scheduleID string) (*model.RunningSchedule, error) {
	schedule := &model.RunningSchedule{}
	query := `SELECT * FROM running_schedules WHERE id = $1`

	err := r.db.Get(schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}

	return schedule, err
}

func (r *scheduleRepository) ActiveByGoal(goalID string) (*model.RunningSchedule, error) {
	schedule := &model.RunningSchedule{}
	query := `SELECT * FROM running_schedules WHERE goal_id = $1 AND is_active = TRUE
	          ORDER BY created_at DESC LIMIT 1`

	err := r.db.Get(schedule, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}

	return schedule, err
}

// AdaptFutureRuns bumps the schedule version and rewrites the adjusted future
// runs in one transaction, so a half-adapted schedule can never be observed.
// Each run update is guarded on status so history is never touched.
func (r *scheduleRepository) AdaptFutureRuns(scheduleID string, adaptedAt time.Time, runs []*model.ScheduledRun) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE running_schedules SET version = version + 1, last_adapted_at = $1 WHERE id = $2`,
		adaptedAt, scheduleID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}

	query := `UPDATE scheduled_runs SET distance_km = $1, updated_at = $2
	          WHERE id = $3 AND status = $4`

	for _, run := range runs {
		_, err = tx.Exec(query, run.DistanceKM, adaptedAt, run.ID, model.RunStatusScheduled)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *scheduleRepository) SetCurrentWeek(scheduleID string, week int) error {
	query := `UPDATE running_schedules SET current_week = $1 WHERE id = $2`
	result, err := r.db.Exec(query, week, scheduleID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrScheduleNotFound
	}

	return nil
}
