package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrProgressNotFound = errors.New("daily progress not found")
)

type ProgressRepository interface {
	Upsert(progress *model.DailyProgress) error
	ByDay(goalID string, day time.Time) (*model.DailyProgress, error)
	CompletedDaysDesc(goalID string) ([]time.Time, error)
	CountCompletedBetween(goalID string, from, to time.Time) (int, error)
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert writes the record for its day, overwriting an existing one. The
// UNIQUE (goal_id, day) index makes repeated check-ins idempotent.
func (r *progressRepository) Upsert(progress *model.DailyProgress) error {
	query := `INSERT INTO daily_progress (id, goal_id, day, completed, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (goal_id, day) DO UPDATE
	          SET completed = excluded.completed, notes = excluded.notes`

	_, err := r.db.Exec(query,
		progress.ID,
		progress.GoalID,
		progress.Day,
		progress.Completed,
		progress.Notes,
		progress.CreatedAt,
	)

	return err
}

func (r *progressRepository) ByDay(goalID string, day time.Time) (*model.DailyProgress, error) {
	progress := &model.DailyProgress{}
	query := `SELECT * FROM daily_progress WHERE goal_id = $1 AND day = $2`

	err := r.db.Get(progress, query, goalID, day)
	if err == sql.ErrNoRows {
		return nil, ErrProgressNotFound
	}

	return progress, err
}

// CompletedDaysDesc returns the days with a completed record, most recent
// first. Used by the streak walk.
func (r *progressRepository) CompletedDaysDesc(goalID string) ([]time.Time, error) {
	var days []time.Time
	query := `SELECT day FROM daily_progress WHERE goal_id = $1 AND completed = TRUE
	          ORDER BY day DESC`

	err := r.db.Select(&days, query, goalID)
	if err != nil {
		return nil, err
	}

	return days, nil
}

func (r *progressRepository) CountCompletedBetween(goalID string, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM daily_progress
	          WHERE goal_id = $1 AND completed = TRUE AND day >= $2 AND day < $3`

	err := r.db.QueryRow(query, goalID, from, to).Scan(&count)
	return count, err
}
