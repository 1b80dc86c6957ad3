package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

// CoachNotifier receives fire-and-forget signals for the conversational
// layer; implementations must not block the caller.
type CoachNotifier interface {
	CelebrateMilestone(goal *model.Goal, milestone *model.Milestone)
	CheckInReminder(goal *model.Goal)
}

// TaskService owns coach tasks and milestones.
type TaskService struct {
	goalRepo      repository.GoalRepository
	repo          repository.TaskRepository
	milestoneRepo repository.MilestoneRepository
	notifier      CoachNotifier
	now           func() time.Time
}

func NewTaskService(
	goalRepo repository.GoalRepository,
	repo repository.TaskRepository,
	milestoneRepo repository.MilestoneRepository,
	notifier CoachNotifier,
) *TaskService {
	return &TaskService{
		goalRepo:      goalRepo,
		repo:          repo,
		milestoneRepo: milestoneRepo,
		notifier:      notifier,
		now:           time.Now,
	}
}

type CreateTaskInput struct {
	Title                 string
	Description           *string
	DueDate               *time.Time
	CreatedByCoach        bool
	ConversationSessionID *string
	RelatedRunID          *string
	Category              model.TaskCategory
	Priority              model.TaskPriority
}

func (s *TaskService) CreateTask(goalID string, input CreateTaskInput) (*model.CoachTask, error) {
	if _, err := s.goalRepo.ByID(goalID); err != nil {
		return nil, err
	}

	if input.Category == "" {
		input.Category = model.TaskCategoryOther
	}
	if input.Priority == "" {
		input.Priority = model.TaskPriorityMedium
	}

	task := &model.CoachTask{
		ID:                    uuid.New().String(),
		GoalID:                goalID,
		Title:                 input.Title,
		Description:           input.Description,
		DueDate:               input.DueDate,
		CreatedByCoach:        input.CreatedByCoach,
		ConversationSessionID: input.ConversationSessionID,
		RelatedRunID:          input.RelatedRunID,
		Category:              input.Category,
		Priority:              input.Priority,
		CreatedAt:             s.now(),
	}

	err := s.repo.Create(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task for goal %s: %w", goalID, err)
	}

	return task, nil
}

func (s *TaskService) ActiveTasks(goalID string) ([]*model.CoachTask, error) {
	return s.repo.Active(goalID)
}

func (s *TaskService) OverdueTasks(goalID string) ([]*model.CoachTask, error) {
	return s.repo.Overdue(goalID, s.now())
}

// CompleteTask marks the task done. Completing an already-completed task is
// a no-op, not an error.
func (s *TaskService) CompleteTask(taskID string) (*model.CoachTask, error) {
	task, err := s.repo.ByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.IsCompleted {
		return task, nil
	}

	err = s.repo.Complete(taskID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}

	return s.repo.ByID(taskID)
}

type CreateMilestoneInput struct {
	Title                    string
	Description              *string
	TargetDistanceKM         *float64
	TargetDate               *time.Time
	CelebrationCallScheduled bool
}

func (s *TaskService) CreateMilestone(goalID string, input CreateMilestoneInput) (*model.Milestone, error) {
	if _, err := s.goalRepo.ByID(goalID); err != nil {
		return nil, err
	}

	milestone := &model.Milestone{
		ID:                       uuid.New().String(),
		GoalID:                   goalID,
		Title:                    input.Title,
		Description:              input.Description,
		TargetDistanceKM:         input.TargetDistanceKM,
		TargetDate:               input.TargetDate,
		CelebrationCallScheduled: input.CelebrationCallScheduled,
		CreatedAt:                s.now(),
	}

	err := s.milestoneRepo.Create(milestone)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone for goal %s: %w", goalID, err)
	}

	return milestone, nil
}

// IncompleteMilestones lists everything still to be reached, earliest target
// first.
func (s *TaskService) IncompleteMilestones(goalID string) ([]*model.Milestone, error) {
	return s.milestoneRepo.Incomplete(goalID)
}

// UpcomingMilestone returns the incomplete milestone with the earliest target
// date (no target date sorts last), or nil when everything is done.
func (s *TaskService) UpcomingMilestone(goalID string) (*model.Milestone, error) {
	milestone, err := s.milestoneRepo.Upcoming(goalID)
	if errors.Is(err, repository.ErrMilestoneNotFound) {
		return nil, nil
	}
	return milestone, err
}

// CompleteMilestone marks the milestone done (idempotent) and, when a
// celebration call was requested, signals the notifier exactly once on the
// transition to completed.
func (s *TaskService) CompleteMilestone(milestoneID string) (*model.Milestone, error) {
	milestone, err := s.milestoneRepo.ByID(milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.IsCompleted {
		return milestone, nil
	}

	err = s.milestoneRepo.Complete(milestoneID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to complete milestone %s: %w", milestoneID, err)
	}

	milestone, err = s.milestoneRepo.ByID(milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.CelebrationCallScheduled && s.notifier != nil {
		goal, err := s.goalRepo.ByID(milestone.GoalID)
		if err != nil {
			slog.Error("failed to load goal for celebration", "error", err, "milestone_id", milestoneID)
		} else {
			s.notifier.CelebrateMilestone(goal, milestone)
		}
	}

	return milestone, nil
}
