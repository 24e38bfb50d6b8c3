package jwtx

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartoffice/authcore/pkg/slogx"
)

// Config holds the per-deployment signing settings.
type Config struct {
	// Secret is the shared HMAC key.
	Secret []byte

	// Algorithm is one of HS256, HS384 or HS512. Empty means HS256.
	Algorithm string

	// TTL is the default token lifetime. Zero means DefaultAccessTokenTTL.
	TTL time.Duration

	// Issuer is written to iss and, when set, required on verification.
	Issuer string

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Codec issues and verifies HMAC-signed JWTs. It holds no mutable state and
// is safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

var (
	_ Signer   = (*Codec)(nil)
	_ Verifier = (*Codec)(nil)
)

// NewCodec validates cfg and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	var method jwt.SigningMethod
	switch alg {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	c := &Codec{
		secret: append([]byte(nil), cfg.Secret...),
		method: method,
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		// exp is whole seconds; exp == now counts as expired.
		jwt.WithTimeFunc(func() time.Time { return c.now().Truncate(time.Second) }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	c.parser = jwt.NewParser(opts...)

	return c, nil
}

// TTL returns the default token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Algorithm returns the JWS alg header value used for signing.
func (c *Codec) Algorithm() string { return c.method.Alg() }

// Issue signs claims with exp = now + ttl and iat = now. A non-positive ttl
// falls back to the configured default.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.Issuer == "" {
		claims.Issuer = c.issuer
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks structure, algorithm, signature and expiry.
func (c *Codec) Verify(token string) (Claims, error) {
	return c.VerifyContext(context.Background(), token)
}

// VerifyContext is Verify with the rejection cause logged at debug level on
// the context logger.
func (c *Codec) VerifyContext(ctx context.Context, token string) (Claims, error) {
	var claims Claims
	parsed, err := c.parser.ParseWithClaims(token, &claims, c.keyFunc)
	if err != nil {
		slogx.FromContext(ctx).Debug("token rejected", "cause", err.Error())
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		slogx.FromContext(ctx).Debug("token rejected", "cause", "missing subject")
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return c.secret, nil
}
