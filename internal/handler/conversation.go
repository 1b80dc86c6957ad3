package handler

import (
	"net/http"

	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/service"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
}

func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

type startConversationRequest struct {
	UserID           string  `json:"user_id"`
	ConversationType string  `json:"conversation_type"`
	RelatedRunID     *string `json:"related_run_id"`
}

func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	session, err := h.conversationService.Start(req.UserID, model.ConversationType(req.ConversationType), req.RelatedRunID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

type endConversationRequest struct {
	Transcript   *string  `json:"transcript"`
	Sentiment    *string  `json:"sentiment"`
	KeyTopics    []string `json:"key_topics"`
	TasksCreated int      `json:"tasks_created"`
}

func (h *ConversationHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req endConversationRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.conversationService.End(sessionID, service.EndSessionInput{
		Transcript:   req.Transcript,
		Sentiment:    req.Sentiment,
		KeyTopics:    req.KeyTopics,
		TasksCreated: req.TasksCreated,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
