// Package auth holds the request-scoped authenticated identity and the
// ownership rule that gates mutations of owned resources.
package auth

import (
	"context"
	"strings"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// ErrUnauthorized means the operation needs an authenticated caller.
var ErrUnauthorized = apperr.New(apperr.ErrUnauthorized, "Unauthorized")

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID    int64
	Email string
	Name  string
	Roles []string
}

// HasRole reports whether the identity carries role.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanMutate reports whether identity may update or delete a resource owned by ownerID.
func CanMutate(identity *Identity, ownerID int64) bool {
	if identity == nil {
		return false
	}
	return identity.ID == ownerID || identity.HasRole(RoleAdmin)
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the identity stored by WithIdentity, or nil.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(ctxKey{}).(*Identity)
	return identity
}

// BearerToken extracts the token from an Authorization header value.
// ok is false when the header is not a non-empty bearer credential.
func BearerToken(header string) (token string, ok bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
