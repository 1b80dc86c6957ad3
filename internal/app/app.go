package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/config"
	"github.com/stridecoach/stride/internal/db"
	"github.com/stridecoach/stride/internal/notify"
	"github.com/stridecoach/stride/internal/repository"
	"github.com/stridecoach/stride/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	GoalService         *service.GoalService
	ProgressService     *service.ProgressService
	ScheduleService     *service.ScheduleService
	TaskService         *service.TaskService
	ContextService      *service.ContextService
	ConversationService *service.ConversationService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	scheduleRepository := repository.NewScheduleRepository(database)
	runRepository := repository.NewRunRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	taskRepository := repository.NewTaskRepository(database)
	milestoneRepository := repository.NewMilestoneRepository(database)
	conversationRepository := repository.NewConversationRepository(database)

	// Notifier
	notifier := notify.NewEmailNotifier(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.UserEmail,
		cfg.CoachName,
		cfg.IsDevelopment(),
	)

	// Services
	goalService := service.NewGoalService(userRepository, goalRepository)
	progressService := service.NewProgressService(goalRepository, progressRepository, notifier, cfg.CheckInHour)
	scheduleService := service.NewScheduleService(
		goalRepository,
		scheduleRepository,
		runRepository,
		sessionRepository,
		service.ScheduleConfig{
			PlanHorizonWeeks: cfg.PlanHorizonWeeks,
			AdaptWindow:      cfg.AdaptWindow,
			AdaptThreshold:   cfg.AdaptThreshold,
			AdaptDecrease:    cfg.AdaptDecrease,
			AdaptIncrease:    cfg.AdaptIncrease,
		},
	)
	taskService := service.NewTaskService(goalRepository, taskRepository, milestoneRepository, notifier)
	conversationService := service.NewConversationService(userRepository, conversationRepository, cfg.SessionIdleLimit)
	contextService := service.NewContextService(
		goalService,
		progressService,
		scheduleService,
		taskService,
		conversationService,
		sessionRepository,
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		GoalService:         goalService,
		ProgressService:     progressService,
		ScheduleService:     scheduleService,
		TaskService:         taskService,
		ContextService:      contextService,
		ConversationService: conversationService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
