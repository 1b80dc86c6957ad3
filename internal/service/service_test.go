package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/stridecoach/stride/internal/db"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

// testNow is a fixed Wednesday morning so weekday math stays stable.
var testNow = time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	celebrated []string
	reminded   []string
}

func (f *fakeNotifier) CelebrateMilestone(goal *model.Goal, milestone *model.Milestone) {
	f.celebrated = append(f.celebrated, milestone.ID)
}

func (f *fakeNotifier) CheckInReminder(goal *model.Goal) {
	f.reminded = append(f.reminded, goal.ID)
}

type testEnv struct {
	db *sqlx.DB

	userRepo      repository.UserRepository
	goalRepo      repository.GoalRepository
	progressRepo  repository.ProgressRepository
	scheduleRepo  repository.ScheduleRepository
	runRepo       repository.RunRepository
	sessionRepo   repository.SessionRepository
	taskRepo      repository.TaskRepository
	milestoneRepo repository.MilestoneRepository
	convRepo      repository.ConversationRepository

	notifier *fakeNotifier

	goals         *GoalService
	progress      *ProgressService
	schedule      *ScheduleService
	tasks         *TaskService
	conversations *ConversationService
	contexts      *ContextService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stride_test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	e := &testEnv{
		db:            database,
		userRepo:      repository.NewUserRepository(database),
		goalRepo:      repository.NewGoalRepository(database),
		progressRepo:  repository.NewProgressRepository(database),
		scheduleRepo:  repository.NewScheduleRepository(database),
		runRepo:       repository.NewRunRepository(database),
		sessionRepo:   repository.NewSessionRepository(database),
		taskRepo:      repository.NewTaskRepository(database),
		milestoneRepo: repository.NewMilestoneRepository(database),
		convRepo:      repository.NewConversationRepository(database),
		notifier:      &fakeNotifier{},
	}

	e.goals = NewGoalService(e.userRepo, e.goalRepo)
	e.progress = NewProgressService(e.goalRepo, e.progressRepo, e.notifier, 20)
	e.schedule = NewScheduleService(e.goalRepo, e.scheduleRepo, e.runRepo, e.sessionRepo, DefaultScheduleConfig())
	e.tasks = NewTaskService(e.goalRepo, e.taskRepo, e.milestoneRepo, e.notifier)
	e.conversations = NewConversationService(e.userRepo, e.convRepo, 2*time.Hour)
	e.contexts = NewContextService(e.goals, e.progress, e.schedule, e.tasks, e.conversations, e.sessionRepo)

	e.setNow(func() time.Time { return testNow })
	return e
}

func (e *testEnv) setNow(now func() time.Time) {
	e.goals.now = now
	e.progress.now = now
	e.schedule.now = now
	e.tasks.now = now
	e.conversations.now = now
	e.contexts.now = now
}

func (e *testEnv) createUser(t *testing.T) *model.User {
	t.Helper()
	user, err := e.goals.CreateUser("Jamie")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createGoal(t *testing.T, userID string) *model.Goal {
	t.Helper()
	fitness := model.FitnessLevelBeginner
	frequency := 3
	goal, err := e.goals.CreateGoal(userID, CreateGoalInput{
		GoalText:           "Run a 10k without stopping",
		WhyItMatters:       "Prove to myself I can stick with something",
		BiggestObstacle:    "Losing motivation after a bad week",
		StruggleTime:       "evening",
		FitnessLevel:       &fitness,
		WeeklyFrequency:    &frequency,
		ObstacleCategories: []string{"motivation", "time"},
	})
	require.NoError(t, err)
	return goal
}

// seedSchedule inserts a schedule with handcrafted runs so tests control the
// past/future split exactly.
func (e *testEnv) seedSchedule(t *testing.T, goalID string, runs []*model.ScheduledRun) *model.RunningSchedule {
	t.Helper()
	end := testNow.AddDate(0, 0, 28)
	schedule := &model.RunningSchedule{
		ID:              uuid.New().String(),
		GoalID:          goalID,
		StartDate:       testNow.AddDate(0, 0, -7),
		EndDate:         &end,
		WeeklyFrequency: 3,
		FitnessLevel:    model.FitnessLevelBeginner,
		CurrentWeek:     1,
		IsActive:        true,
		Version:         1,
		CreatedAt:       testNow,
	}
	for _, run := range runs {
		run.ScheduleID = schedule.ID
	}
	require.NoError(t, e.scheduleRepo.CreateWithRuns(schedule, runs))
	return schedule
}

func (e *testEnv) seedRun(at time.Time, distanceKM float64) *model.ScheduledRun {
	return &model.ScheduledRun{
		ID:          uuid.New().String(),
		ScheduledAt: at,
		DistanceKM:  distanceKM,
		RunType:     model.RunTypeEasy,
		Status:      model.RunStatusScheduled,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

func (e *testEnv) recordSessions(t *testing.T, goalID string, difficulties ...int) {
	t.Helper()
	for _, difficulty := range difficulties {
		d := difficulty
		_, err := e.schedule.RecordSession(goalID, RecordSessionInput{DifficultyRating: &d})
		require.NoError(t, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
