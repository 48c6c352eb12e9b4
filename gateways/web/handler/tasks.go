package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/callsight/backend/pkg/json"
)

func (h *handler) TaskProgressHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.ownerID(r); err != nil {
		json.WriteError(w, http.StatusForbidden, err)
		return
	}

	taskID := chi.URLParam(r, "id")
	report, ok := h.tracker.Get(taskID)
	if !ok {
		json.WriteError(w, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}

	json.WriteJSON(w, http.StatusOK, report)
}
