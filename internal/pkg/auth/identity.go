package auth

import "context"

// PrincipalKind tells which account table an identity belongs to.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Identity is the caller resolved from a verified token. It is passed by value
// so handlers never look at raw claims.
type Identity struct {
	ID      int64         `json:"id"`
	Kind    PrincipalKind `json:"kind"`
	IsAdmin bool          `json:"isAdmin"`
}

// IsUser reports whether the identity came from a user-issued token.
func (i Identity) IsUser() bool {
	return i.Kind == PrincipalUser
}

type identityKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
