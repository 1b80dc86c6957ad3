package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

// ProgressService tracks daily check-ins and derives streak and weekly
// completion metrics. Derivation queries never fail on missing data; they
// return zero values.
type ProgressService struct {
	goalRepo    repository.GoalRepository
	repo        repository.ProgressRepository
	notifier    CoachNotifier
	checkInHour int // hour of day the daily check-in becomes due
	now         func() time.Time
}

func NewProgressService(goalRepo repository.GoalRepository, repo repository.ProgressRepository, notifier CoachNotifier, checkInHour int) *ProgressService {
	return &ProgressService{
		goalRepo:    goalRepo,
		repo:        repo,
		notifier:    notifier,
		checkInHour: checkInHour,
		now:         time.Now,
	}
}

// Record upserts the check-in for the given day (normalized to midnight).
// A zero day means today. Last write wins; repeated calls for the same day
// are not an error.
func (s *ProgressService) Record(goalID string, day time.Time, completed bool, notes *string) (*model.DailyProgress, error) {
	if _, err := s.goalRepo.ByID(goalID); err != nil {
		return nil, err
	}

	if day.IsZero() {
		day = s.now()
	}

	progress := &model.DailyProgress{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Day:       startOfDay(day),
		Completed: completed,
		Notes:     notes,
		CreatedAt: s.now(),
	}

	err := s.repo.Upsert(progress)
	if err != nil {
		return nil, fmt.Errorf("failed to record progress for goal %s: %w", goalID, err)
	}

	return progress, nil
}

// TodayProgress returns today's record, or nil if none exists yet.
func (s *ProgressService) TodayProgress(goalID string) (*model.DailyProgress, error) {
	progress, err := s.repo.ByDay(goalID, startOfDay(s.now()))
	if errors.Is(err, repository.ErrProgressNotFound) {
		return nil, nil
	}
	return progress, err
}

// CurrentStreak counts the consecutive days with a completed record, walking
// backward from today. A day with a non-completed record breaks the streak
// the same as a missing day. Today itself gets a grace: while today has no
// completed record yet, the streak is measured ending yesterday, so skipping
// today's check-in drops the streak to yesterday's count rather than zero.
func (s *ProgressService) CurrentStreak(goalID string) (int, error) {
	days, err := s.repo.CompletedDaysDesc(goalID)
	if err != nil {
		return 0, err
	}

	today := startOfDay(s.now())

	idx := 0
	for idx < len(days) && startOfDay(days[idx]).After(today) {
		idx++ // future-dated records never extend a streak ending today
	}

	cursor := today
	if idx < len(days) && startOfDay(days[idx]).Before(today) {
		cursor = today.AddDate(0, 0, -1)
	}

	streak := 0
	for ; idx < len(days); idx++ {
		if !startOfDay(days[idx]).Equal(cursor) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak, nil
}

// CompletionsThisWeek counts completed records in the current ISO week
// (Monday start).
func (s *ProgressService) CompletionsThisWeek(goalID string) (int, error) {
	from := startOfWeek(s.now())
	to := from.AddDate(0, 0, 7)
	return s.repo.CountCompletedBetween(goalID, from, to)
}

// IsCheckInDueToday reports whether no check-in has been recorded today.
// The notification trigger uses this to decide on the evening reminder.
func (s *ProgressService) IsCheckInDueToday(goalID string) (bool, error) {
	progress, err := s.TodayProgress(goalID)
	if err != nil {
		return false, err
	}
	return progress == nil, nil
}

// SendCheckInReminder fires the evening nudge when it is due: the configured
// hour has been reached and no check-in exists for today. The notification
// trigger polls this endpoint; repeated polls before the hour or after a
// check-in are cheap no-ops. Returns whether a reminder was sent.
func (s *ProgressService) SendCheckInReminder(goalID string) (bool, error) {
	goal, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return false, err
	}

	if s.now().Hour() < s.checkInHour {
		return false, nil
	}

	due, err := s.IsCheckInDueToday(goalID)
	if err != nil {
		return false, err
	}
	if !due {
		return false, nil
	}

	if s.notifier != nil {
		s.notifier.CheckInReminder(goal)
	}
	return true, nil
}
