package handler

import (
	"net/http"
	"time"

	"github.com/stridecoach/stride/internal/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

type recordProgressRequest struct {
	Day       *time.Time `json:"day"` // defaults to today
	Completed bool       `json:"completed"`
	Notes     *string    `json:"notes"`
}

func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	var req recordProgressRequest
	if !decode(w, r, &req) {
		return
	}

	// A zero day lets the service default to its own clock
	var day time.Time
	if req.Day != nil {
		day = *req.Day
	}

	progress, err := h.progressService.Record(goalID, day, req.Completed, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

type progressSummary struct {
	CurrentStreak       int  `json:"current_streak"`
	CompletionsThisWeek int  `json:"completions_this_week"`
	CheckInDueToday     bool `json:"check_in_due_today"`
}

func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	streak, err := h.progressService.CurrentStreak(goalID)
	if err != nil {
		writeError(w, err)
		return
	}
	week, err := h.progressService.CompletionsThisWeek(goalID)
	if err != nil {
		writeError(w, err)
		return
	}
	due, err := h.progressService.IsCheckInDueToday(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progressSummary{
		CurrentStreak:       streak,
		CompletionsThisWeek: week,
		CheckInDueToday:     due,
	})
}

type reminderResponse struct {
	Fired bool `json:"fired"`
}

// Reminder is polled by the notification trigger; it sends the evening
// check-in nudge when due.
func (h *ProgressHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	fired, err := h.progressService.SendCheckInReminder(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reminderResponse{Fired: fired})
}
