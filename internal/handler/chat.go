package handler

import (
	"net/http"
	"strings"

	"github.com/verdant-health/clinsight/internal/config"
)

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpError(w, http.StatusBadRequest, "empty message")
		return
	}

	reply, err := h.interpret.Chat(r.Context(), req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (h *Handler) handleChatSamples(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"samples": config.SampleQuestions})
}
