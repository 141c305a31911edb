package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that caps requests per client per minute.
// Clients are keyed by remote address; limiters for quiet clients are
// recycled lazily when the map grows large.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	const maxClients = 4096

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limit := rate.Limit(float64(perMinute) / 60.0)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if len(limiters) > maxClients {
			limiters = make(map[string]*rate.Limiter)
		}
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(limit, perMinute)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiterFor(host).Allow() {
				slog.Debug("rate limited", "client", host)
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
