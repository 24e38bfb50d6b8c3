package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/smartoffice/authcore/pkg/slogx"
)

// InvalidCredentialsDescription is the only text a failed bearer check reveals.
const InvalidCredentialsDescription = "Could not validate credentials"

// Resolver maps a bearer token to the caller it was issued for.
type Resolver[P any] interface {
	Resolve(ctx context.Context, token string) (P, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc[P any] func(ctx context.Context, token string) (P, error)

func (f ResolverFunc[P]) Resolve(ctx context.Context, token string) (P, error) {
	return f(ctx, token)
}

// AuthErrorHandler writes the response for a failed resolution.
type AuthErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// AuthnMiddleware requires a bearer token, resolves it and stores the caller
// in the request context. A missing or malformed header always gets a bearer
// challenge; resolution errors go to onError, or a challenge when nil.
func AuthnMiddleware[P any](res Resolver[P], onError AuthErrorHandler) Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			WriteBearerError(w, InvalidCredentialsDescription)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := BearerToken(r)
			if !ok {
				WriteBearerError(w, InvalidCredentialsDescription)
				return
			}

			p, err := res.Resolve(ctx, raw)
			if err != nil {
				slogx.FromContext(ctx).Debug("bearer resolution failed", "err", err)
				onError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyToken, raw)
			ctx = WithPrincipal(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the credentials of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WriteBearerError writes an RFC 6750 invalid_token challenge.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
