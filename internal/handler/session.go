package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/verdant-health/clinsight/internal/config"
	"github.com/verdant-health/clinsight/internal/service"
)

// session resolves the browser session for a request, minting a session
// cookie on first contact. All diagnostic state hangs off this session and
// is gone once the registry sweeps it.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *service.Session {
	if c, err := r.Cookie(config.SessionCookieName); err == nil && c.Value != "" {
		return h.registry.GetOrCreate(c.Value)
	}

	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return h.registry.GetOrCreate(sid)
}
