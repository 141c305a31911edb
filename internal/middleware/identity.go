package middleware

import (
	"net/http"

	"github.com/verdant-health/clinsight/internal/config"
	"github.com/verdant-health/clinsight/internal/domain"
	"github.com/verdant-health/clinsight/internal/identity"
)

// IdentityLoader returns middleware that reads the ambient identity cookies
// into the request context. Missing cookies fall back to Guest/Anonymous;
// this core never issues or mutates identity.
func IdentityLoader() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := domain.GuestIdentity()
			if c, err := r.Cookie(config.UsernameCookie); err == nil && c.Value != "" {
				id.Username = c.Value
			}
			if c, err := r.Cookie(config.RoleCookie); err == nil && c.Value != "" {
				id.Role = c.Value
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole gates a handler on the ambient role. The role check is
// enforced here, not advisory.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok || id.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
