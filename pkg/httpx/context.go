package httpx

import "context"

type ctxKey string

const (
	CtxKeyPrincipal ctxKey = "principal"
	CtxKeyToken     ctxKey = "token"
)

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal[P any](ctx context.Context, p P) context.Context {
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the caller stored by AuthnMiddleware.
func PrincipalFromContext[P any](ctx context.Context) (P, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(P)
	return p, ok
}

// TokenFromContext returns the raw bearer token the caller presented.
func TokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyToken).(string)
	return v
}
