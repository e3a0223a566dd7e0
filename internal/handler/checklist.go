package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/studyquest/internal/auth"
	"github.com/sakif/studyquest/internal/service"
)

// ChecklistHandler serves /api/checklists.
type ChecklistHandler struct {
	checklists *service.ChecklistService
	logger     *slog.Logger
}

func NewChecklistHandler(checklists *service.ChecklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{checklists: checklists, logger: logger}
}

// HandleList returns every milestone with the caller's status.
//
// HTTP: GET /api/checklists
func (h *ChecklistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	list, err := h.checklists.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleToggle flips the caller's completion of one milestone.
//
// HTTP: PUT /api/checklists/{id}/toggle (also mounted at /complete)
func (h *ChecklistHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.checklists.Toggle(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
