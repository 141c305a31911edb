package handler

import (
	"net/http"

	"github.com/verdant-health/clinsight/internal/identity"
)

func (h *Handler) handleQuestionnaireState(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	if s.Engine.InSummary() {
		respondJSON(w, http.StatusOK, map[string]any{
			"summary": true,
			"answers": s.Engine.Answers(),
		})
		return
	}

	q, index, total, _ := s.Engine.Current()
	respondJSON(w, http.StatusOK, map[string]any{
		"summary":  false,
		"question": q,
		"index":    index,
		"total":    total,
		"answers":  s.Engine.Answers(),
	})
}

func (h *Handler) handleQuestionnaireSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID int    `json:"questionId"`
		Option     string `json:"option"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	if err := s.Engine.SelectOption(req.QuestionID, req.Option); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"answers": s.Engine.Answers()})
}

func (h *Handler) handleQuestionnaireDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID int    `json:"questionId"`
		Details    string `json:"details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	if err := s.Engine.SetDetails(req.QuestionID, req.Details); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"answers": s.Engine.Answers()})
}

func (h *Handler) handleQuestionnaireNext(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if err := s.Engine.Next(); err != nil {
		respondError(w, err)
		return
	}
	h.handleQuestionnaireState(w, r)
}

func (h *Handler) handleQuestionnairePrevious(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if err := s.Engine.Previous(); err != nil {
		respondError(w, err)
		return
	}
	h.handleQuestionnaireState(w, r)
}

func (h *Handler) handleQuestionnaireSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	id := identity.Ambient{}.Current(r.Context())
	if err := s.Engine.Submit(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
