package shared

import "context"

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the identity from context, nil when absent.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityContextKey{}).(*Identity)
	return ident
}
