package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

type MilestoneRepository interface {
	Create(milestone *model.Milestone) error
	ByID(milestoneID string) (*model.Milestone, error)
	Incomplete(goalID string) ([]*model.Milestone, error)
	Upcoming(goalID string) (*model.Milestone, error)
	Complete(milestoneID string, completedAt time.Time) error
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

func (r *milestoneRepository) Create(milestone *model.Milestone) error {
	query := `INSERT INTO milestones (id, goal_id, title, description, target_distance_km,
	              target_date, is_completed, completed_date, celebration_call_scheduled, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		milestone.ID,
		milestone.GoalID,
		milestone.Title,
		milestone.Description,
		milestone.TargetDistanceKM,
		milestone.TargetDate,
		milestone.IsCompleted,
		milestone.CompletedDate,
		milestone.CelebrationCallScheduled,
		milestone.CreatedAt,
	)

	return err
}

func (r *milestoneRepository) ByID(milestoneID string) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT * FROM milestones WHERE id = $1`

	err := r.db.Get(milestone, query, milestoneID)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}

	return milestone, err
}

func (r *milestoneRepository) Incomplete(goalID string) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones WHERE goal_id = $1 AND is_completed = FALSE
	          ORDER BY target_date IS NULL, target_date ASC`

	err := r.db.Select(&milestones, query, goalID)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// Upcoming returns the incomplete milestone with the earliest target date;
// milestones without a target date sort last.
func (r *milestoneRepository) Upcoming(goalID string) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT * FROM milestones WHERE goal_id = $1 AND is_completed = FALSE
	          ORDER BY target_date IS NULL, target_date ASC LIMIT 1`

	err := r.db.Get(milestone, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}

	return milestone, err
}

func (r *milestoneRepository) Complete(milestoneID string, completedAt time.Time) error {
	query := `UPDATE milestones SET is_completed = TRUE, completed_date = $1 WHERE id = $2`
	result, err := r.db.Exec(query, completedAt, milestoneID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}
