package handler

import (
	"net/http"
	"time"

	"github.com/stridecoach/stride/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createUserRequest struct {
	Name string `json:"name"`
}

func (h *GoalHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	user, err := h.goalService.CreateUser(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *GoalHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.goalService.CurrentUser()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type createGoalRequest struct {
	UserID             string     `json:"user_id"`
	GoalText           string     `json:"goal_text"`
	WhyItMatters       string     `json:"why_it_matters"`
	BiggestObstacle    string     `json:"biggest_obstacle"`
	StruggleTime       string     `json:"struggle_time"`
	FitnessLevel       *string    `json:"fitness_level"`
	WeeklyFrequency    *int       `json:"weekly_frequency"`
	TargetRaceDistance *float64   `json:"target_race_distance"`
	TargetRaceDate     *time.Time `json:"target_race_date"`
	ObstacleCategories []string   `json:"obstacle_categories"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" || req.GoalText == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and goal_text are required"})
		return
	}

	goal, err := h.goalService.CreateGoal(req.UserID, service.CreateGoalInput{
		GoalText:           req.GoalText,
		WhyItMatters:       req.WhyItMatters,
		BiggestObstacle:    req.BiggestObstacle,
		StruggleTime:       req.StruggleTime,
		FitnessLevel:       req.FitnessLevel,
		WeeklyFrequency:    req.WeeklyFrequency,
		TargetRaceDistance: req.TargetRaceDistance,
		TargetRaceDate:     req.TargetRaceDate,
		ObstacleCategories: req.ObstacleCategories,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	goal, err := h.goalService.ActiveGoal(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	err := h.goalService.DeleteGoal(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	err := h.goalService.DeleteUser(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
