package handler

import (
	"net/http"

	"github.com/verdant-health/clinsight/internal/interpret"
)

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"models": h.cfg.Models()})
}

func (h *Handler) handleSelectModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	model, ok := h.cfg.FindModel(req.Model)
	if !ok {
		httpError(w, http.StatusBadRequest, "unknown model")
		return
	}

	s := h.session(w, r)
	s.Orchestrator.SelectModel(model)
	respondJSON(w, http.StatusOK, map[string]string{"model": model.Name})
}

func (h *Handler) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	result, err := s.Orchestrator.Dispatch(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"label":      result.Label,
		"confidence": result.Confidence,
		"percent":    result.Percent(),
	})
}

func (h *Handler) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := interpret.Kind(req.Tab)
	if kind != interpret.KindInterpretation && kind != interpret.KindConsultation {
		httpError(w, http.StatusBadRequest, "unknown tab")
		return
	}

	s := h.session(w, r)
	text, err := s.Orchestrator.Interpret(r.Context(), kind)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"tab": req.Tab, "content": text})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if err := s.Orchestrator.Reset(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(s.Orchestrator.State())})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	o := s.Orchestrator

	resp := map[string]any{
		"state": string(o.State()),
		"mode":  string(o.Mode()),
	}
	if model := o.SelectedModel(); model != nil {
		resp["model"] = model.Name
	}
	if result := o.Result(); result != nil {
		resp["result"] = map[string]any{
			"label":      result.Label,
			"confidence": result.Confidence,
			"percent":    result.Percent(),
		}
	}
	if msg := o.LastError(); msg != "" {
		resp["error"] = msg
	}
	respondJSON(w, http.StatusOK, resp)
}
