// Package identity exposes the ambient read-only identity a request carries.
// The core never writes identity; it only tags session records with it.
package identity

import (
	"context"

	"github.com/verdant-health/clinsight/internal/domain"
)

// Provider resolves the identity for the current request context.
type Provider interface {
	Current(ctx context.Context) domain.Identity
}

type ctxKey struct{}

// WithIdentity stores an identity in the context.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts an identity from the context.
func FromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok
}

// Ambient reads the identity placed in the context by transport middleware,
// defaulting to Guest/Anonymous when none is present.
type Ambient struct{}

func (Ambient) Current(ctx context.Context) domain.Identity {
	if id, ok := FromContext(ctx); ok {
		if id.Username == "" {
			id.Username = domain.GuestUsername
		}
		if id.Role == "" {
			id.Role = domain.GuestRole
		}
		return id
	}
	return domain.GuestIdentity()
}
