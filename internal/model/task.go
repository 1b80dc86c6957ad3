package model

import (
	"time"
)

type TaskCategory string

const (
	TaskCategoryGear       TaskCategory = "gear"
	TaskCategoryNutrition  TaskCategory = "nutrition"
	TaskCategoryHydration  TaskCategory = "hydration"
	TaskCategoryScheduling TaskCategory = "scheduling"
	TaskCategoryRecovery   TaskCategory = "recovery"
	TaskCategoryOther      TaskCategory = "other"
)

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// CoachTask is an action item, usually created by the coach mid-conversation.
type CoachTask struct {
	ID                    string       `db:"id"`
	GoalID                string       `db:"goal_id"`
	Title                 string       `db:"title"`
	Description           *string      `db:"description"`
	DueDate               *time.Time   `db:"due_date"`
	IsCompleted           bool         `db:"is_completed"`
	CompletedDate         *time.Time   `db:"completed_date"`
	CreatedByCoach        bool         `db:"created_by_coach"`
	ConversationSessionID *string      `db:"conversation_session_id"`
	RelatedRunID          *string      `db:"related_run_id"`
	Category              TaskCategory `db:"category"`
	Priority              TaskPriority `db:"priority"`
	CreatedAt             time.Time    `db:"created_at"`
}

// IsOverdue is derived, never stored.
func (t *CoachTask) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueDate != nil && t.DueDate.Before(now)
}
