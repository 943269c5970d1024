// Package identity carries the authenticated caller through a request.
package identity

import "context"

// Identity is derived from a verified token and lives only for the duration
// of one request.
type Identity struct {
	AccountID int64
	Email     string
	Username  string
}

type ctxKey struct{}

// WithIdentity returns a child context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached by the authentication guard.
// ok is false when the request never passed the guard.
func FromContext(ctx context.Context) (id Identity, ok bool) {
	id, ok = ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
