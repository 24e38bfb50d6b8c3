package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is used when neither the caller nor the codec
// configuration supplies a lifetime.
const DefaultAccessTokenTTL = 30 * time.Minute

// Claims are the access-token claims. Subject carries the user id; exp and
// iat are set by the codec at issuance.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`
}

// NewAccessClaims builds the claims for a freshly authenticated user.
func NewAccessClaims(userID, email string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            email,
	}
}

// ExpiresIn returns the remaining lifetime relative to now, zero once expired
// or when no expiry is present.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
