package handler

import (
	"net/http"
	"time"

	"github.com/stridecoach/stride/internal/service"
)

type RunHandler struct {
	scheduleService *service.ScheduleService
}

func NewRunHandler(scheduleService *service.ScheduleService) *RunHandler {
	return &RunHandler{
		scheduleService: scheduleService,
	}
}

type recordSessionRequest struct {
	ScheduledRunID        *string  `json:"scheduled_run_id"`
	ConversationSessionID *string  `json:"conversation_session_id"`
	ActualDistanceKM      *float64 `json:"actual_distance_km"`
	DurationMin           *int     `json:"duration_min"`
	DifficultyRating      *int     `json:"difficulty_rating"`
	PainReported          bool     `json:"pain_reported"`
	PainLocation          *string  `json:"pain_location"`
	PainDescription       *string  `json:"pain_description"`
	EnergyLevel           *string  `json:"energy_level"`
	OverallFeeling        *string  `json:"overall_feeling"`
	Notes                 *string  `json:"notes"`
	WeatherConditions     *string  `json:"weather_conditions"`
}

// RecordSession is the "mark run complete" tool the coach invokes mid-call.
func (h *RunHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	var req recordSessionRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.scheduleService.RecordSession(goalID, service.RecordSessionInput{
		ScheduledRunID:        req.ScheduledRunID,
		ConversationSessionID: req.ConversationSessionID,
		ActualDistanceKM:      req.ActualDistanceKM,
		DurationMin:           req.DurationMin,
		DifficultyRating:      req.DifficultyRating,
		PainReported:          req.PainReported,
		PainLocation:          req.PainLocation,
		PainDescription:       req.PainDescription,
		EnergyLevel:           req.EnergyLevel,
		OverallFeeling:        req.OverallFeeling,
		Notes:                 req.Notes,
		WeatherConditions:     req.WeatherConditions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (h *RunHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	var req rescheduleRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.scheduleService.Reschedule(runID, req.ScheduledAt)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) Skip(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	err := h.scheduleService.Skip(runID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) MarkMissed(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	err := h.scheduleService.MarkMissed(runID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
