package jwtx

import (
	"context"
	"errors"
	"time"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
	VerifyContext(ctx context.Context, token string) (Claims, error)
}

// Signer mints tokens for authenticated users.
type Signer interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// ErrInvalidToken is the only error Verify returns. Malformed, expired,
// tampered and wrong-algorithm tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("jwtx: invalid token")

var (
	ErrEmptySecret          = errors.New("jwtx: signing secret is empty")
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported signing algorithm")
)
