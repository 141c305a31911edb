package handler

import (
	"net/http"

	"github.com/verdant-health/clinsight/internal/domain"
)

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	result, err := s.Orchestrator.Predict(r.Context(), req.Symptoms)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := map[string]any{
		"condition":   result.Condition,
		"confidence":  result.Confidence,
		"probability": result.Probability,
	}
	// The insufficient-symptoms note is a caveat on a shown result, never a
	// suppressed one.
	if result.Note == domain.NoteInsufficientSymptoms {
		resp["warning"] = string(result.Note)
	}
	respondJSON(w, http.StatusOK, resp)
}
