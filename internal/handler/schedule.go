package handler

import (
	"net/http"
	"time"

	"github.com/stridecoach/stride/internal/service"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

type createPlanRequest struct {
	WeeklyFrequency    int        `json:"weekly_frequency"`
	FitnessLevel       string     `json:"fitness_level"`
	TargetRaceDistance *float64   `json:"target_race_distance"`
	TargetRaceDate     *time.Time `json:"target_race_date"`
}

func (h *ScheduleHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	var req createPlanRequest
	if !decode(w, r, &req) {
		return
	}

	schedule, err := h.scheduleService.CreatePlan(goalID, req.WeeklyFrequency, req.FitnessLevel, req.TargetRaceDistance, req.TargetRaceDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

func (h *ScheduleHandler) Active(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	schedule, err := h.scheduleService.ActiveSchedule(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func (h *ScheduleHandler) UpcomingRuns(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")

	runs, err := h.scheduleService.UpcomingRuns(scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// NextRun serves the notification trigger's "when is the next actionable
// event" query.
func (h *ScheduleHandler) NextRun(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")

	run, err := h.scheduleService.NextRun(scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

type completionRateResponse struct {
	CompletionRate float64 `json:"completion_rate"`
}

func (h *ScheduleHandler) CompletionRate(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")

	rate, err := h.scheduleService.CompletionRate(scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completionRateResponse{CompletionRate: rate})
}

func (h *ScheduleHandler) PastDueRuns(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")

	runs, err := h.scheduleService.PastDueRuns(scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

type adaptResponse struct {
	Adapted  bool `json:"adapted"`
	Version  int  `json:"version"`
	Schedule any  `json:"schedule"`
}

func (h *ScheduleHandler) Adapt(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")

	schedule, adapted, err := h.scheduleService.Adapt(scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adaptResponse{
		Adapted:  adapted,
		Version:  schedule.Version,
		Schedule: schedule,
	})
}
