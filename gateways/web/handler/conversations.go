package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/callsight/backend/pkg/json"
	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
	"github.com/callsight/backend/services/conversation/storage"
)

func (h *handler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(r)
	if err != nil {
		json.WriteError(w, http.StatusForbidden, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid conversation id"))
		return
	}

	conv, err := h.conversations.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		json.WriteError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		json.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	// Ownership filtering: other owners' records look like missing ones.
	if conv.OwnerID != owner {
		json.WriteError(w, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	json.WriteJSON(w, http.StatusOK, conv)
}

func (h *handler) SearchConversationsHandler(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(r)
	if err != nil {
		json.WriteError(w, http.StatusForbidden, err)
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, err)
		return
	}

	results, err := h.conversations.Search(r.Context(), owner, filters)
	if err != nil {
		json.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	if results == nil {
		results = []*entity.Conversation{}
	}

	json.WriteJSON(w, http.StatusOK, results)
}

func (h *handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(r)
	if err != nil {
		json.WriteError(w, http.StatusForbidden, err)
		return
	}

	stats, err := h.conversations.Stats(r.Context(), owner)
	if err != nil {
		json.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, stats)
}

func parseFilters(r *http.Request) (entity.Filters, error) {
	q := r.URL.Query()
	filters := entity.Filters{
		Query:     q.Get("q"),
		Phase:     analysis.Phase(q.Get("phase")),
		Sentiment: analysis.Sentiment(q.Get("sentiment")),
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return entity.Filters{}, fmt.Errorf("invalid start_date: %w", err)
		}
		filters.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return entity.Filters{}, fmt.Errorf("invalid end_date: %w", err)
		}
		filters.EndDate = &t
	}

	return filters, nil
}
