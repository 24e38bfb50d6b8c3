package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartoffice/authcore/pkg/authsdk"
	"github.com/smartoffice/authcore/pkg/httpx"
)

func newServer(t *testing.T, mux *http.ServeMux) *authsdk.SDKClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return authsdk.NewSDKClient(srv.URL + "/")
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		switch {
		case req.Password != "Correct1":
			httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials, "Incorrect email or password")
		case req.TOTPCode == "":
			httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeTOTPRequired, "TOTP code required")
		default:
			httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800})
		}
	})
	client := newServer(t, mux)
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, authsdk.LoginRequest{Email: "a@example.com", Password: "nope"})

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials))
	})

	t.Run("totp required", func(t *testing.T) {
		_, err := client.Login(ctx, authsdk.LoginRequest{Email: "a@example.com", Password: "Correct1"})

		var totpErr *authsdk.TOTPRequiredError
		require.ErrorAs(t, err, &totpErr)
		require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeTOTPRequired))
	})

	t.Run("success", func(t *testing.T) {
		session, err := client.Login(ctx, authsdk.LoginRequest{Email: "a@example.com", Password: "Correct1", TOTPCode: "123456"})
		require.NoError(t, err)
		require.Equal(t, "tok", session.AccessToken())
		require.False(t, session.Expired())
		require.WithinDuration(t, time.Now().Add(30*time.Minute), session.ExpiresAt(), 5*time.Second)
	})
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "taken" {
			httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeAccountExists, "Email or username already registered")
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{ID: "u-1", Email: req.Email, Username: req.Username, IsActive: true})
	})
	client := newServer(t, mux)

	user, err := client.Register(context.Background(), authsdk.RegisterRequest{Email: "a@example.com", Username: "ada", Password: "Sup3rSecret"})
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.True(t, user.IsActive)
	require.False(t, user.TOTPEnabled)

	_, err = client.Register(context.Background(), authsdk.RegisterRequest{Email: "b@example.com", Username: "taken", Password: "Sup3rSecret"})
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeAccountExists))
}

func TestSessionSendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{ID: "u-1", TOTPEnabled: true})
	})
	mux.HandleFunc("POST /v1/auth/2fa/setup", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPSetupResponse{Secret: "ABC", QRCodeURI: "otpauth://totp/x", QRCodePNG: []byte{0x89, 'P', 'N', 'G'}})
	})
	mux.HandleFunc("POST /v1/auth/2fa/enable", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.TOTPEnableRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ABC", req.Secret)
		require.Equal(t, "123456", req.Code)
		httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPStatusResponse{Enabled: true})
	})
	mux.HandleFunc("POST /v1/auth/2fa/disable", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeNotEnrolled, "2FA is not enabled")
	})
	mux.HandleFunc("POST /v1/auth/2fa/verify", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.TOTPCodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPVerifyResponse{Verified: req.Code == "654321"})
	})
	client := newServer(t, mux)
	ctx := context.Background()

	session := client.NewSessionFromToken("tok", 60)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "u-1", me.ID)

	setup, err := session.SetupTOTP(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, setup.QRCodePNG)

	status, err := session.EnableTOTP(ctx, setup.Secret, "123456")
	require.NoError(t, err)
	require.True(t, status.Enabled)

	_, err = session.DisableTOTP(ctx, "123456")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeNotEnrolled))

	verified, err := session.VerifyTOTP(ctx, "654321")
	require.NoError(t, err)
	require.True(t, verified.Verified)

	_, err = client.NewSessionFromToken("other", 60).Me(ctx)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidToken))
}

func TestExpiredSession(t *testing.T) {
	session := authsdk.NewSDKClient("http://unused").NewSessionFromToken("tok", 0)
	require.True(t, session.Expired())
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	client := newServer(t, mux)

	_, err := client.GetReadiness(context.Background())

	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
}
