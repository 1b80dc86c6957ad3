package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stridecoach/stride/internal/repository"
	"github.com/stridecoach/stride/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps engine errors onto HTTP statuses: missing entities are 404,
// rejected state transitions are 409, invalid schedule input is 422.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case isNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSessionAlreadyEnded):
		status = http.StatusConflict
	case errors.Is(err, service.ErrPastReschedule),
		errors.Is(err, service.ErrNoRecentSessions):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrGoalNotFound) ||
		errors.Is(err, repository.ErrScheduleNotFound) ||
		errors.Is(err, repository.ErrRunNotFound) ||
		errors.Is(err, repository.ErrSessionNotFound) ||
		errors.Is(err, repository.ErrTaskNotFound) ||
		errors.Is(err, repository.ErrMilestoneNotFound) ||
		errors.Is(err, repository.ErrConversationNotFound)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
