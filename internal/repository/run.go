package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrRunNotFound = errors.New("scheduled run not found")
)

type RunRepository interface {
	ByID(runID string) (*model.ScheduledRun, error)
	BySchedule(scheduleID string) ([]*model.ScheduledRun, error)
	Upcoming(scheduleID string, now time.Time) ([]*model.ScheduledRun, error)
	Past(scheduleID string, now time.Time) ([]*model.ScheduledRun, error)
	PastDue(scheduleID string, now time.Time) ([]*model.ScheduledRun, error)
	SetStatus(runID string, status model.RunStatus, updatedAt time.Time) error
	Reschedule(runID string, scheduledAt, updatedAt time.Time) error
}

type runRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) ByID(runID string) (*model.ScheduledRun, error) {
	run := &model.ScheduledRun{}
	query := `SELECT * FROM scheduled_runs WHERE id = $1`

	err := r.db.Get(run, query, runID)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}

	return run, err
}

func (r *runRepository) BySchedule(scheduleID string) ([]*model.ScheduledRun, error) {
	var runs []*model.ScheduledRun
	query := `SELECT * FROM scheduled_runs WHERE schedule_id = $1 ORDER BY scheduled_at ASC`

	err := r.db.Select(&runs, query, scheduleID)
	if err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *runRepository) Upcoming(scheduleID string, now time.Time) ([]*model.ScheduledRun, error) {
	var runs []*model.ScheduledRun
	query := `SELECT * FROM scheduled_runs
	          WHERE schedule_id = $1 AND status = $2 AND scheduled_at > $3
	          ORDER BY scheduled_at ASC`

	err := r.db.Select(&runs, query, scheduleID, model.RunStatusScheduled, now)
	if err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *runRepository) Past(scheduleID string, now time.Time) ([]*model.ScheduledRun, error) {
	var runs []*model.ScheduledRun
	query := `SELECT * FROM scheduled_runs
	          WHERE schedule_id = $1 AND scheduled_at <= $2
	          ORDER BY scheduled_at ASC`

	err := r.db.Select(&runs, query, scheduleID, now)
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// PastDue lists runs whose time has passed while still "scheduled". The
// notification trigger polls this to decide what to mark missed.
func (r *runRepository) PastDue(scheduleID string, now time.Time) ([]*model.ScheduledRun, error) {
	var runs []*model.ScheduledRun
	query := `SELECT * FROM scheduled_runs
	          WHERE schedule_id = $1 AND status = $2 AND scheduled_at <= $3
	          ORDER BY scheduled_at ASC`

	err := r.db.Select(&runs, query, scheduleID, model.RunStatusScheduled, now)
	if err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *runRepository) SetStatus(runID string, status model.RunStatus, updatedAt time.Time) error {
	query := `UPDATE scheduled_runs SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(query, status, updatedAt, runID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

func (r *runRepository) Reschedule(runID string, scheduledAt, updatedAt time.Time) error {
	query := `UPDATE scheduled_runs SET scheduled_at = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(query, scheduledAt, updatedAt, runID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}
