package handler

import (
	"net/http"
	"strconv"
)

const defaultIntakeLimit = 100

// handleAdminIntakes lists stored questionnaire submissions. The route is
// wrapped with a role check at registration time.
func (h *Handler) handleAdminIntakes(w http.ResponseWriter, r *http.Request) {
	limit := defaultIntakeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	subs, err := h.intakes.ListIntakes(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":       len(subs),
		"submissions": subs,
	})
}
