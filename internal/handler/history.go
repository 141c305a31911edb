package handler

import (
	"net/http"
)

// handleHistory returns every record of the current browser session, newest
// first. The ledger stores in insertion order so we reverse the snapshot.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	records := s.Ledger.All()
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": records,
	})
}
