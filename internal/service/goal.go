package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

type GoalService struct {
	userRepo repository.UserRepository
	repo     repository.GoalRepository
	now      func() time.Time
}

func NewGoalService(userRepo repository.UserRepository, repo repository.GoalRepository) *GoalService {
	return &GoalService{
		userRepo: userRepo,
		repo:     repo,
		now:      time.Now,
	}
}

func (s *GoalService) CreateUser(name string) (*model.User, error) {
	user := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: s.now(),
	}

	err := s.userRepo.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CurrentUser returns the installation's user (the earliest created one).
func (s *GoalService) CurrentUser() (*model.User, error) {
	return s.userRepo.First()
}

// CreateGoalInput carries the onboarding answers plus the optional running
// specialization.
type CreateGoalInput struct {
	GoalText           string
	WhyItMatters       string
	BiggestObstacle    string
	StruggleTime       string
	FitnessLevel       *string
	WeeklyFrequency    *int
	TargetRaceDistance *float64
	TargetRaceDate     *time.Time
	ObstacleCategories []string
}

// CreateGoal inserts the new goal as active and deactivates every prior goal
// of the user in the same transaction.
func (s *GoalService) CreateGoal(userID string, input CreateGoalInput) (*model.Goal, error) {
	if _, err := s.userRepo.ByID(userID); err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:                 uuid.New().String(),
		UserID:             userID,
		GoalText:           input.GoalText,
		WhyItMatters:       input.WhyItMatters,
		BiggestObstacle:    input.BiggestObstacle,
		StruggleTime:       input.StruggleTime,
		IsActive:           true,
		CreatedAt:          s.now(),
		FitnessLevel:       input.FitnessLevel,
		WeeklyFrequency:    input.WeeklyFrequency,
		TargetRaceDistance: input.TargetRaceDistance,
		TargetRaceDate:     input.TargetRaceDate,
		ObstacleCategories: input.ObstacleCategories,
	}

	err := s.repo.CreateAndActivate(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(goalID string) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

func (s *GoalService) ActiveGoal(userID string) (*model.Goal, error) {
	return s.repo.ActiveByUser(userID)
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	return s.repo.Goals(userID)
}

// DeleteGoal removes the goal; owned children go with it via cascade.
func (s *GoalService) DeleteGoal(goalID string) error {
	return s.repo.Delete(goalID)
}

// DeleteUser removes the user, cascading through goals and conversation
// sessions to every owned record.
func (s *GoalService) DeleteUser(userID string) error {
	return s.userRepo.Delete(userID)
}
