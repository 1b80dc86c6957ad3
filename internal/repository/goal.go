package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	CreateAndActivate(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ActiveByUser(userID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	Delete(goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// CreateAndActivate inserts the goal and deactivates every other goal of the
// same user in a single transaction, so at most one goal is ever active.
func (r *goalRepository) CreateAndActivate(goal *model.Goal) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE goals SET is_active = FALSE WHERE user_id = $1`, goal.UserID)
	if err != nil {
		return err
	}

	query := `INSERT INTO goals (id, user_id, goal_text, why_it_matters, biggest_obstacle, struggle_time,
	              is_active, created_at, fitness_level, weekly_frequency, target_race_distance,
	              target_race_date, obstacle_categories)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(query,
		goal.ID,
		goal.UserID,
		goal.GoalText,
		goal.WhyItMatters,
		goal.BiggestObstacle,
		goal.StruggleTime,
		goal.IsActive,
		goal.CreatedAt,
		goal.FitnessLevel,
		goal.WeeklyFrequency,
		goal.TargetRaceDistance,
		goal.TargetRaceDate,
		goal.ObstacleCategories,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) ActiveByUser(userID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND is_active = TRUE
	          ORDER BY created_at DESC LIMIT 1`

	err := r.db.Get(goal, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Delete(goalID string) error {
	query := `DELETE FROM goals WHERE id = $1`
	result, err := r.db.Exec(query, goalID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
