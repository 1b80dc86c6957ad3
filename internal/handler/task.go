package handler

import (
	"net/http"
	"time"

	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type createTaskRequest struct {
	Title                 string     `json:"title"`
	Description           *string    `json:"description"`
	DueDate               *time.Time `json:"due_date"`
	CreatedByCoach        bool       `json:"created_by_coach"`
	ConversationSessionID *string    `json:"conversation_session_id"`
	RelatedRunID          *string    `json:"related_run_id"`
	Category              string     `json:"category"`
	Priority              string     `json:"priority"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	var req createTaskRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	task, err := h.taskService.CreateTask(goalID, service.CreateTaskInput{
		Title:                 req.Title,
		Description:           req.Description,
		DueDate:               req.DueDate,
		CreatedByCoach:        req.CreatedByCoach,
		ConversationSessionID: req.ConversationSessionID,
		RelatedRunID:          req.RelatedRunID,
		Category:              model.TaskCategory(req.Category),
		Priority:              model.TaskPriority(req.Priority),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Active(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	tasks, err := h.taskService.ActiveTasks(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	tasks, err := h.taskService.OverdueTasks(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")

	task, err := h.taskService.CompleteTask(taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type createMilestoneRequest struct {
	Title                    string     `json:"title"`
	Description              *string    `json:"description"`
	TargetDistanceKM         *float64   `json:"target_distance_km"`
	TargetDate               *time.Time `json:"target_date"`
	CelebrationCallScheduled bool       `json:"celebration_call_scheduled"`
}

func (h *TaskHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	var req createMilestoneRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	milestone, err := h.taskService.CreateMilestone(goalID, service.CreateMilestoneInput{
		Title:                    req.Title,
		Description:              req.Description,
		TargetDistanceKM:         req.TargetDistanceKM,
		TargetDate:               req.TargetDate,
		CelebrationCallScheduled: req.CelebrationCallScheduled,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, milestone)
}

func (h *TaskHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	milestones, err := h.taskService.IncompleteMilestones(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, milestones)
}

func (h *TaskHandler) UpcomingMilestone(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	milestone, err := h.taskService.UpcomingMilestone(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, milestone)
}

func (h *TaskHandler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	milestoneID := r.PathValue("id")

	milestone, err := h.taskService.CompleteMilestone(milestoneID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, milestone)
}
