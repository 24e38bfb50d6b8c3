package authsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session carries an access token for authenticated operations.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func newSession(client *SDKClient, token *TokenResponse) *Session {
	return &Session{
		client:      client,
		accessToken: token.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
}

// AccessToken returns the bearer token used by the session.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is the local estimate of when the token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Expired reports whether the token's lifetime has passed.
func (s *Session) Expired() bool {
	return !time.Now().Before(s.ExpiresAt())
}

// Me returns the profile of the session's user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var user UserResponse
	if err := s.call(ctx, http.MethodGet, "/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetupTOTP requests a new secret and QR code. Nothing is stored until EnableTOTP.
func (s *Session) SetupTOTP(ctx context.Context) (*TOTPSetupResponse, error) {
	var setup TOTPSetupResponse
	if err := s.call(ctx, http.MethodPost, "/v1/auth/2fa/setup", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

// EnableTOTP persists secret once code proves the authenticator holds it.
func (s *Session) EnableTOTP(ctx context.Context, secret, code string) (*TOTPStatusResponse, error) {
	var status TOTPStatusResponse
	req := TOTPEnableRequest{Secret: secret, Code: code}
	if err := s.call(ctx, http.MethodPost, "/v1/auth/2fa/enable", req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DisableTOTP removes two-factor authentication; code must be current.
func (s *Session) DisableTOTP(ctx context.Context, code string) (*TOTPStatusResponse, error) {
	var status TOTPStatusResponse
	if err := s.call(ctx, http.MethodPost, "/v1/auth/2fa/disable", TOTPCodeRequest{Code: code}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// VerifyTOTP checks a code without changing any state.
func (s *Session) VerifyTOTP(ctx context.Context, code string) (*TOTPVerifyResponse, error) {
	var result TOTPVerifyResponse
	if err := s.call(ctx, http.MethodPost, "/v1/auth/2fa/verify", TOTPCodeRequest{Code: code}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Session) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := s.client.doRequest(ctx, method, path, s.AccessToken(), body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
