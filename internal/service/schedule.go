package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

var (
	ErrInvalidTransition = errors.New("invalid run status transition")
	ErrRunNotFulfillable = errors.New("run cannot be completed without a session")
	ErrPastReschedule    = errors.New("reschedule time must be in the future")
	ErrNoRecentSessions  = errors.New("no recent sessions to evaluate")
)

// ScheduleConfig tunes plan generation and adaptation.
type ScheduleConfig struct {
	PlanHorizonWeeks int
	AdaptWindow      int     // recent sessions inspected
	AdaptThreshold   float64 // majority fraction that trips an adjustment
	AdaptDecrease    float64 // e.g. 0.15 reduces distances by 15%
	AdaptIncrease    float64
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		PlanHorizonWeeks: 4,
		AdaptWindow:      3,
		AdaptThreshold:   0.5,
		AdaptDecrease:    0.15,
		AdaptIncrease:    0.10,
	}
}

// ScheduleService owns the running plan: generation, the run status state
// machine, completion metrics, and adaptation.
type ScheduleService struct {
	goalRepo    repository.GoalRepository
	repo        repository.ScheduleRepository
	runRepo     repository.RunRepository
	sessionRepo repository.SessionRepository
	cfg         ScheduleConfig
	now         func() time.Time
}

func NewScheduleService(
	goalRepo repository.GoalRepository,
	repo repository.ScheduleRepository,
	runRepo repository.RunRepository,
	sessionRepo repository.SessionRepository,
	cfg ScheduleConfig,
) *ScheduleService {
	return &ScheduleService{
		goalRepo:    goalRepo,
		repo:        repo,
		runRepo:     runRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Weekday slots and run type mix per weekly frequency. The last slot of the
// week is always the long run.
var weekdaySlots = map[int][]time.Weekday{
	2: {time.Tuesday, time.Saturday},
	3: {time.Tuesday, time.Thursday, time.Saturday},
	4: {time.Monday, time.Wednesday, time.Friday, time.Saturday},
	5: {time.Monday, time.Tuesday, time.Thursday, time.Friday, time.Sunday},
}

var runTypeMix = map[int][]model.RunType{
	2: {model.RunTypeEasy, model.RunTypeLong},
	3: {model.RunTypeEasy, model.RunTypeTempo, model.RunTypeLong},
	4: {model.RunTypeEasy, model.RunTypeTempo, model.RunTypeRecovery, model.RunTypeLong},
	5: {model.RunTypeEasy, model.RunTypeInterval, model.RunTypeTempo, model.RunTypeRecovery, model.RunTypeLong},
}

var baseDistanceKM = map[string]map[model.RunType]float64{
	model.FitnessLevelBeginner: {
		model.RunTypeEasy: 3, model.RunTypeTempo: 3, model.RunTypeInterval: 2.5,
		model.RunTypeRecovery: 2, model.RunTypeLong: 5,
	},
	model.FitnessLevelIntermediate: {
		model.RunTypeEasy: 5, model.RunTypeTempo: 5, model.RunTypeInterval: 4,
		model.RunTypeRecovery: 3, model.RunTypeLong: 9,
	},
	model.FitnessLevelAdvanced: {
		model.RunTypeEasy: 8, model.RunTypeTempo: 7, model.RunTypeInterval: 6,
		model.RunTypeRecovery: 5, model.RunTypeLong: 14,
	},
}

const runHour = 7 // morning runs

// CreatePlan generates a schedule with runs over the configured horizon and
// stores everything atomically. Any previous schedule for the goal is
// deactivated.
func (s *ScheduleService) CreatePlan(goalID string, weeklyFrequency int, fitnessLevel string, targetRaceDistance *float64, targetRaceDate *time.Time) (*model.RunningSchedule, error) {
	if _, err := s.goalRepo.ByID(goalID); err != nil {
		return nil, err
	}

	slots, ok := weekdaySlots[weeklyFrequency]
	if !ok {
		return nil, fmt.Errorf("unsupported weekly frequency %d: want 2-5", weeklyFrequency)
	}
	base, ok := baseDistanceKM[fitnessLevel]
	if !ok {
		return nil, fmt.Errorf("unknown fitness level %q", fitnessLevel)
	}

	now := s.now()
	start := startOfDay(now)
	end := start.AddDate(0, 0, 7*s.cfg.PlanHorizonWeeks)

	schedule := &model.RunningSchedule{
		ID:                 uuid.New().String(),
		GoalID:             goalID,
		StartDate:          start,
		EndDate:            &end,
		WeeklyFrequency:    weeklyFrequency,
		FitnessLevel:       fitnessLevel,
		TargetRaceDistance: targetRaceDistance,
		TargetRaceDate:     targetRaceDate,
		CurrentWeek:        1,
		IsActive:           true,
		Version:            1,
		CreatedAt:          now,
	}

	mix := runTypeMix[weeklyFrequency]
	weekStart := startOfWeek(now)
	var runs []*model.ScheduledRun

	for week := 0; week < s.cfg.PlanHorizonWeeks; week++ {
		for i, weekday := range slots {
			day := weekStart.AddDate(0, 0, 7*week+int(weekday-time.Monday))
			at := time.Date(day.Year(), day.Month(), day.Day(), runHour, 0, 0, 0, day.Location())
			if !at.After(now) {
				continue // never plan a run in the past
			}

			runType := mix[i]
			distance := roundKM(base[runType] * (1 + 0.05*float64(week)))

			runs = append(runs, &model.ScheduledRun{
				ID:          uuid.New().String(),
				ScheduleID:  schedule.ID,
				ScheduledAt: at,
				DistanceKM:  distance,
				RunType:     runType,
				Status:      model.RunStatusScheduled,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	err := s.repo.CreateWithRuns(schedule, runs)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan for goal %s: %w", goalID, err)
	}

	return schedule, nil
}

// ActiveSchedule returns the goal's active schedule with current_week
// advanced to the calendar week now falls in. The lazy advance keeps the
// stored week honest without a background loop.
func (s *ScheduleService) ActiveSchedule(goalID string) (*model.RunningSchedule, error) {
	schedule, err := s.repo.ActiveByGoal(goalID)
	if err != nil {
		return nil, err
	}

	week := calendarWeek(schedule.StartDate, s.now())
	if week != schedule.CurrentWeek {
		err = s.repo.SetCurrentWeek(schedule.ID, week)
		if err != nil {
			return nil, fmt.Errorf("failed to advance week for schedule %s: %w", schedule.ID, err)
		}
		schedule.CurrentWeek = week
	}

	return schedule, nil
}

// calendarWeek is the 1-based week of the plan that now falls in, counted
// from the Monday of the start date's week.
func calendarWeek(start, now time.Time) int {
	weeks := int(startOfWeek(now).Sub(startOfWeek(start)).Hours() / (24 * 7))
	if weeks < 0 {
		weeks = 0
	}
	return weeks + 1
}

// UpcomingRuns lists runs still scheduled in the future, soonest first.
func (s *ScheduleService) UpcomingRuns(scheduleID string) ([]*model.ScheduledRun, error) {
	return s.runRepo.Upcoming(scheduleID, s.now())
}

// NextRun returns the first upcoming run, or nil when none remain.
func (s *ScheduleService) NextRun(scheduleID string) (*model.ScheduledRun, error) {
	runs, err := s.runRepo.Upcoming(scheduleID, s.now())
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// CompletionRate is the fraction of past-due runs that were completed.
// No past runs means 0.0, never a division error.
func (s *ScheduleService) CompletionRate(scheduleID string) (float64, error) {
	past, err := s.runRepo.Past(scheduleID, s.now())
	if err != nil {
		return 0, err
	}
	if len(past) == 0 {
		return 0, nil
	}

	completed := 0
	for _, run := range past {
		if run.Status == model.RunStatusCompleted {
			completed++
		}
	}

	return float64(completed) / float64(len(past)), nil
}

// PastDueRuns lists unresolved runs whose time has passed. The notification
// trigger decides when to poll and which to mark missed.
func (s *ScheduleService) PastDueRuns(scheduleID string) ([]*model.ScheduledRun, error) {
	return s.runRepo.PastDue(scheduleID, s.now())
}

// MarkMissed transitions a past-due run to missed.
func (s *ScheduleService) MarkMissed(runID string) error {
	run, err := s.runRepo.ByID(runID)
	if err != nil {
		return err
	}

	if !run.Status.CanTransition(model.RunStatusMissed) {
		return fmt.Errorf("run %s is %s: %w", runID, run.Status, ErrInvalidTransition)
	}
	if !run.IsPastDue(s.now()) {
		return fmt.Errorf("run %s is not past due: %w", runID, ErrInvalidTransition)
	}

	return s.runRepo.SetStatus(runID, model.RunStatusMissed, s.now())
}

// Skip marks a scheduled run skipped by explicit user choice.
func (s *ScheduleService) Skip(runID string) error {
	run, err := s.runRepo.ByID(runID)
	if err != nil {
		return err
	}

	if !run.Status.CanTransition(model.RunStatusSkipped) {
		return fmt.Errorf("run %s is %s: %w", runID, run.Status, ErrInvalidTransition)
	}

	return s.runRepo.SetStatus(runID, model.RunStatusSkipped, s.now())
}

// Reschedule moves a scheduled run to a future datetime. The run re-enters
// the scheduled state on the same record, preserving its identity.
func (s *ScheduleService) Reschedule(runID string, newTime time.Time) error {
	run, err := s.runRepo.ByID(runID)
	if err != nil {
		return err
	}

	if !run.Status.CanTransition(model.RunStatusRescheduled) {
		return fmt.Errorf("run %s is %s: %w", runID, run.Status, ErrInvalidTransition)
	}
	if !newTime.After(s.now()) {
		return fmt.Errorf("run %s: %w", runID, ErrPastReschedule)
	}

	return s.runRepo.Reschedule(runID, newTime, s.now())
}

// RecordSessionInput carries the user's post-run report.
type RecordSessionInput struct {
	ScheduledRunID        *string
	ConversationSessionID *string
	ActualDistanceKM      *float64
	DurationMin           *int
	DifficultyRating      *int
	PainReported          bool
	PainLocation          *string
	PainDescription       *string
	EnergyLevel           *string
	OverallFeeling        *string
	Notes                 *string
	WeatherConditions     *string
}

// RecordSession stores a completed run. When the session fulfills a scheduled
// run, that run transitions to completed in the same transaction; a run can
// only reach completed through a session.
func (s *ScheduleService) RecordSession(goalID string, input RecordSessionInput) (*model.RunSession, error) {
	if _, err := s.goalRepo.ByID(goalID); err != nil {
		return nil, err
	}

	session := &model.RunSession{
		ID:                    uuid.New().String(),
		GoalID:                goalID,
		ScheduledRunID:        input.ScheduledRunID,
		ConversationSessionID: input.ConversationSessionID,
		CompletedDate:         s.now(),
		ActualDistanceKM:      input.ActualDistanceKM,
		DurationMin:           input.DurationMin,
		DifficultyRating:      clampRating(input.DifficultyRating),
		PainReported:          input.PainReported,
		PainLocation:          input.PainLocation,
		PainDescription:       input.PainDescription,
		EnergyLevel:           input.EnergyLevel,
		OverallFeeling:        input.OverallFeeling,
		Notes:                 input.Notes,
		WeatherConditions:     input.WeatherConditions,
	}

	if input.ScheduledRunID == nil {
		err := s.sessionRepo.Create(session)
		if err != nil {
			return nil, fmt.Errorf("failed to record session for goal %s: %w", goalID, err)
		}
		return session, nil
	}

	run, err := s.runRepo.ByID(*input.ScheduledRunID)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransition(model.RunStatusCompleted) {
		return nil, fmt.Errorf("run %s is %s: %w", run.ID, run.Status, ErrInvalidTransition)
	}

	err = s.sessionRepo.CreateFulfilling(session, run)
	if err != nil {
		return nil, fmt.Errorf("failed to record session fulfilling run %s: %w", run.ID, err)
	}

	return session, nil
}

// Adapt classifies the most recent sessions and, when a clear majority ran
// too hard (difficulty >= 8 or pain) or too easy (difficulty <= 3), rescales
// all future scheduled runs and bumps the schedule version. Historical runs
// are never touched. Returns adapted=false when the signals are mixed.
func (s *ScheduleService) Adapt(scheduleID string) (schedule *model.RunningSchedule, adapted bool, err error) {
	schedule, err = s.repo.ByID(scheduleID)
	if err != nil {
		return nil, false, err
	}

	sessions, err := s.sessionRepo.Recent(schedule.GoalID, s.cfg.AdaptWindow)
	if err != nil {
		return nil, false, err
	}
	if len(sessions) == 0 {
		return nil, false, fmt.Errorf("schedule %s: %w", scheduleID, ErrNoRecentSessions)
	}

	tooHard, tooEasy := 0, 0
	for _, session := range sessions {
		if session.WasTooHard() {
			tooHard++
		} else if session.WasTooEasy() {
			tooEasy++
		}
	}

	var factor float64
	total := float64(len(sessions))
	switch {
	case float64(tooHard)/total > s.cfg.AdaptThreshold:
		factor = 1 - s.cfg.AdaptDecrease
	case float64(tooEasy)/total > s.cfg.AdaptThreshold:
		factor = 1 + s.cfg.AdaptIncrease
	default:
		return schedule, false, nil
	}

	now := s.now()
	future, err := s.runRepo.Upcoming(scheduleID, now)
	if err != nil {
		return nil, false, err
	}
	for _, run := range future {
		run.DistanceKM = roundKM(run.DistanceKM * factor)
	}

	err = s.repo.AdaptFutureRuns(scheduleID, now, future)
	if err != nil {
		return nil, false, fmt.Errorf("failed to adapt schedule %s: %w", scheduleID, err)
	}

	schedule, err = s.repo.ByID(scheduleID)
	if err != nil {
		return nil, false, err
	}

	return schedule, true, nil
}

func clampRating(rating *int) *int {
	if rating == nil {
		return nil
	}
	v := *rating
	if v < 1 {
		v = 1
	}
	if v > 10 {
		v = 10
	}
	return &v
}

// roundKM rounds to 0.1 km with a 1 km floor.
func roundKM(km float64) float64 {
	km = math.Round(km*10) / 10
	if km < 1 {
		km = 1
	}
	return km
}
