package routes

import (
	"net/http"

	"github.com/stridecoach/stride/internal/app"
	"github.com/stridecoach/stride/internal/handler"
	"github.com/stridecoach/stride/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	goal := handler.NewGoalHandler(app.GoalService)
	progress := handler.NewProgressHandler(app.ProgressService)
	schedule := handler.NewScheduleHandler(app.ScheduleService)
	run := handler.NewRunHandler(app.ScheduleService)
	task := handler.NewTaskHandler(app.TaskService)
	contextH := handler.NewContextHandler(app.ContextService)
	conversation := handler.NewConversationHandler(app.ConversationService)

	mux := http.NewServeMux()

	// Users and goals
	mux.HandleFunc("POST /api/users", goal.CreateUser)
	mux.HandleFunc("GET /api/users/current", goal.CurrentUser)
	mux.HandleFunc("DELETE /api/users/{id}", goal.DeleteUser)
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("GET /api/users/{userID}/goals/active", goal.Active)
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Delete)

	// Daily progress (dialogue tool + notification trigger)
	mux.HandleFunc("POST /api/goals/{goalID}/progress", progress.Record)
	mux.HandleFunc("GET /api/goals/{goalID}/progress/summary", progress.Summary)
	mux.HandleFunc("POST /api/goals/{goalID}/check-in-reminder", progress.Reminder)

	// Coaching context (conversation start + mid-call refresh)
	mux.HandleFunc("GET /api/goals/{goalID}/context", contextH.Build)

	// Running schedule
	mux.HandleFunc("POST /api/goals/{goalID}/schedule", schedule.CreatePlan)
	mux.HandleFunc("GET /api/goals/{goalID}/schedule", schedule.Active)
	mux.HandleFunc("GET /api/schedules/{id}/runs/upcoming", schedule.UpcomingRuns)
	mux.HandleFunc("GET /api/schedules/{id}/runs/next", schedule.NextRun)
	mux.HandleFunc("GET /api/schedules/{id}/runs/past-due", schedule.PastDueRuns)
	mux.HandleFunc("GET /api/schedules/{id}/completion-rate", schedule.CompletionRate)
	mux.HandleFunc("POST /api/schedules/{id}/adapt", schedule.Adapt)

	// Scheduled runs and sessions
	mux.HandleFunc("POST /api/goals/{goalID}/runs", run.RecordSession)
	mux.HandleFunc("POST /api/runs/{id}/reschedule", run.Reschedule)
	mux.HandleFunc("POST /api/runs/{id}/skip", run.Skip)
	mux.HandleFunc("POST /api/runs/{id}/missed", run.MarkMissed)

	// Tasks and milestones
	mux.HandleFunc("POST /api/goals/{goalID}/tasks", task.Create)
	mux.HandleFunc("GET /api/goals/{goalID}/tasks/active", task.Active)
	mux.HandleFunc("GET /api/goals/{goalID}/tasks/overdue", task.Overdue)
	mux.HandleFunc("POST /api/tasks/{id}/complete", task.Complete)
	mux.HandleFunc("POST /api/goals/{goalID}/milestones", task.CreateMilestone)
	mux.HandleFunc("GET /api/goals/{goalID}/milestones", task.Milestones)
	mux.HandleFunc("GET /api/goals/{goalID}/milestones/upcoming", task.UpcomingMilestone)
	mux.HandleFunc("POST /api/milestones/{id}/complete", task.CompleteMilestone)

	// Conversation sessions
	mux.HandleFunc("POST /api/conversations", conversation.Start)
	mux.HandleFunc("POST /api/conversations/{id}/end", conversation.End)

	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
