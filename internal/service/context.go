package service

import (
	"errors"
	"time"

	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

const painLookbackDays = 14

// ContextSnapshot is the read-only aggregate handed to the conversational
// layer at call start. It is recomputed from the store on every build; no
// field is cached between calls.
type ContextSnapshot struct {
	GoalID          string  `json:"goal_id"`
	GoalText        string  `json:"goal_text"`
	WhyItMatters    string  `json:"why_it_matters"`
	BiggestObstacle string  `json:"biggest_obstacle"`
	StruggleTime    string  `json:"struggle_time"`
	FitnessLevel    *string `json:"fitness_level,omitempty"`

	CurrentStreak       int `json:"current_streak"`
	CompletionsThisWeek int `json:"completions_this_week"`
	CheckInDueToday     bool `json:"check_in_due_today"`

	NextRun        *model.ScheduledRun `json:"next_run,omitempty"`
	CompletionRate *float64            `json:"completion_rate,omitempty"`
	CurrentWeek    *int                `json:"current_week,omitempty"`
	WeeksRemaining *int                `json:"weeks_remaining,omitempty"`

	OverdueTasks      []*model.CoachTask `json:"overdue_tasks"`
	UpcomingMilestone *model.Milestone   `json:"upcoming_milestone,omitempty"`

	TotalRuns         int      `json:"total_runs"`
	TotalDistanceKM   float64  `json:"total_distance_km"`
	AverageDifficulty *float64 `json:"average_difficulty,omitempty"`
	RecentPainReports int      `json:"recent_pain_reports"`

	OpenConversation *model.ConversationSession `json:"open_conversation,omitempty"`

	BuiltAt time.Time `json:"built_at"`
}

// ContextService assembles the coaching context from the three engines.
type ContextService struct {
	goals         *GoalService
	progress      *ProgressService
	schedule      *ScheduleService
	tasks         *TaskService
	conversations *ConversationService
	sessionRepo   repository.SessionRepository
	now           func() time.Time
}

func NewContextService(
	goals *GoalService,
	progress *ProgressService,
	schedule *ScheduleService,
	tasks *TaskService,
	conversations *ConversationService,
	sessionRepo repository.SessionRepository,
) *ContextService {
	return &ContextService{
		goals:         goals,
		progress:      progress,
		schedule:      schedule,
		tasks:         tasks,
		conversations: conversations,
		sessionRepo:   sessionRepo,
		now:           time.Now,
	}
}

// Build assembles the snapshot for a goal. Pure read; safe to call at
// conversation start and again after any mid-call tool invocation.
func (s *ContextService) Build(goalID string) (*ContextSnapshot, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		return nil, err
	}

	snapshot := &ContextSnapshot{
		GoalID:          goal.ID,
		GoalText:        goal.GoalText,
		WhyItMatters:    goal.WhyItMatters,
		BiggestObstacle: goal.BiggestObstacle,
		StruggleTime:    goal.StruggleTime,
		FitnessLevel:    goal.FitnessLevel,
		OverdueTasks:    []*model.CoachTask{},
		BuiltAt:         s.now(),
	}

	snapshot.CurrentStreak, err = s.progress.CurrentStreak(goalID)
	if err != nil {
		return nil, err
	}
	snapshot.CompletionsThisWeek, err = s.progress.CompletionsThisWeek(goalID)
	if err != nil {
		return nil, err
	}
	snapshot.CheckInDueToday, err = s.progress.IsCheckInDueToday(goalID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.schedule.ActiveSchedule(goalID)
	if err != nil && !errors.Is(err, repository.ErrScheduleNotFound) {
		return nil, err
	}
	if schedule != nil {
		snapshot.NextRun, err = s.schedule.NextRun(schedule.ID)
		if err != nil {
			return nil, err
		}
		rate, err := s.schedule.CompletionRate(schedule.ID)
		if err != nil {
			return nil, err
		}
		snapshot.CompletionRate = &rate

		week := schedule.CurrentWeek
		snapshot.CurrentWeek = &week
		snapshot.WeeksRemaining = schedule.WeeksRemaining(s.now())
	}

	overdue, err := s.tasks.OverdueTasks(goalID)
	if err != nil {
		return nil, err
	}
	if overdue != nil {
		snapshot.OverdueTasks = overdue
	}

	snapshot.UpcomingMilestone, err = s.tasks.UpcomingMilestone(goalID)
	if err != nil {
		return nil, err
	}

	agg, err := s.sessionRepo.Aggregates(goalID)
	if err != nil {
		return nil, err
	}
	snapshot.TotalRuns = agg.TotalRuns
	snapshot.TotalDistanceKM = agg.TotalDistanceKM
	snapshot.AverageDifficulty = agg.AverageDifficulty

	since := s.now().AddDate(0, 0, -painLookbackDays)
	snapshot.RecentPainReports, err = s.sessionRepo.CountPainSince(goalID, since)
	if err != nil {
		return nil, err
	}

	snapshot.OpenConversation, err = s.conversations.Open(goal.UserID)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
