package handler

import (
	"net/http"

	"github.com/stridecoach/stride/internal/service"
)

type ContextHandler struct {
	contextService *service.ContextService
}

func NewContextHandler(contextService *service.ContextService) *ContextHandler {
	return &ContextHandler{
		contextService: contextService,
	}
}

// Build returns the coaching context snapshot. The dialogue component calls
// this at conversation start and again after any mid-call tool invocation.
func (h *ContextHandler) Build(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goalID")

	snapshot, err := h.contextService.Build(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
