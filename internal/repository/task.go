package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrTaskNotFound = errors.New("coach task not found")
)

type TaskRepository interface {
	Create(task *model.CoachTask) error
	ByID(taskID string) (*model.CoachTask, error)
	Active(goalID string) ([]*model.CoachTask, error)
	Overdue(goalID string, now time.Time) ([]*model.CoachTask, error)
	Complete(taskID string, completedAt time.Time) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.CoachTask) error {
	query := `INSERT INTO coach_tasks (id, goal_id, title, description, due_date, is_completed,
	              completed_date, created_by_coach, conversation_session_id, related_run_id,
	              category, priority, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		task.ID,
		task.GoalID,
		task.Title,
		task.Description,
		task.DueDate,
		task.IsCompleted,
		task.CompletedDate,
		task.CreatedByCoach,
		task.ConversationSessionID,
		task.RelatedRunID,
		task.Category,
		task.Priority,
		task.CreatedAt,
	)

	return err
}

func (r *taskRepository) ByID(taskID string) (*model.CoachTask, error) {
	task := &model.CoachTask{}
	query := `SELECT * FROM coach_tasks WHERE id = $1`

	err := r.db.Get(task, query, taskID)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

func (r *taskRepository) Active(goalID string) ([]*model.CoachTask, error) {
	var tasks []*model.CoachTask
	query := `SELECT * FROM coach_tasks WHERE goal_id = $1 AND is_completed = FALSE
	          ORDER BY created_at ASC`

	err := r.db.Select(&tasks, query, goalID)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Overdue is derived at read time; overdue-ness is never stored.
func (r *taskRepository) Overdue(goalID string, now time.Time) ([]*model.CoachTask, error) {
	var tasks []*model.CoachTask
	query := `SELECT * FROM coach_tasks
	          WHERE goal_id = $1 AND is_completed = FALSE AND due_date IS NOT NULL AND due_date < $2
	          ORDER BY due_date ASC`

	err := r.db.Select(&tasks, query, goalID, now)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) Complete(taskID string, completedAt time.Time) error {
	query := `UPDATE coach_tasks SET is_completed = TRUE, completed_date = $1 WHERE id = $2`
	result, err := r.db.Exec(query, completedAt, taskID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
