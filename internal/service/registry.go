// Package service holds per-browser-session state: each session gets its own
// orchestrator, questionnaire engine, ledger, and camera bridge, kept only in
// memory and swept away after inactivity.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verdant-health/clinsight/internal/capture"
	"github.com/verdant-health/clinsight/internal/ledger"
	"github.com/verdant-health/clinsight/internal/orchestrator"
	"github.com/verdant-health/clinsight/internal/questionnaire"
)

// Session bundles everything owned by one browser tab.
type Session struct {
	ID           string
	Orchestrator *orchestrator.Orchestrator
	Engine       *questionnaire.Engine
	Ledger       *ledger.Ledger
	Bridge       *capture.Bridge

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// NewSessionFn builds the component set for a fresh session.
type NewSessionFn func(id string) *Session

// Registry tracks live sessions by id. There is no cross-session shared
// state; dropping a session discards its entire history.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	create   NewSessionFn
}

func NewRegistry(ttl time.Duration, create NewSessionFn) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		create:   create,
	}
}

// GetOrCreate returns the session for id, creating it on first use.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = r.create(id)
		r.sessions[id] = s
	}
	s.touch(time.Now())
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle past the TTL and releases their camera streams.
func (r *Registry) Sweep(ctx context.Context, now time.Time) {
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if now.Sub(s.seen()) > r.ttl {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		if err := s.Orchestrator.Release(ctx); err != nil {
			slog.Error("release camera on session sweep", "error", err, "session", s.ID)
		}
	}
	if len(stale) > 0 {
		slog.Info("swept idle sessions", "count", len(stale))
	}
}

// Run sweeps on an interval until the context is canceled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(ctx, now)
		}
	}
}
