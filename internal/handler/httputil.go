package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verdant-health/clinsight/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondError maps a domain error onto an HTTP status. Validation failures
// are the caller's fault; provider and persistence failures are gateways.
func respondError(w http.ResponseWriter, err error) {
	var dispatchErr *domain.DispatchError

	switch {
	case errors.As(err, &dispatchErr):
		httpError(w, http.StatusBadGateway, dispatchErr.ProviderMessage)
	case errors.Is(err, domain.ErrAlreadyInFlight):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSuperseded):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrPersistence):
		httpError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrInvalidMediaType),
		errors.Is(err, domain.ErrNoActiveStream),
		errors.Is(err, domain.ErrNoDeviceAvailable),
		errors.Is(err, domain.ErrNoInput),
		errors.Is(err, domain.ErrNoModel),
		errors.Is(err, domain.ErrNoResult),
		errors.Is(err, domain.ErrInvalidSymptomInput),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrNoSelection):
		httpError(w, http.StatusBadRequest, err.Error())
	default:
		httpError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
