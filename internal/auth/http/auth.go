package http

import (
	"net/http"
	"strings"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/service"
	"github.com/smartoffice/authcore/pkg/authsdk"
	"github.com/smartoffice/authcore/pkg/httpx"
)

var loginStatuses = reasonStatus{
	domain.ReasonInvalidCredentials: http.StatusUnauthorized,
	domain.ReasonAccountInactive:    http.StatusUnauthorized,
	domain.ReasonTOTPRequired:       http.StatusBadRequest,
	domain.ReasonInvalidTOTPCode:    http.StatusUnauthorized,
}

var registerStatuses = reasonStatus{
	domain.ReasonAccountExists: http.StatusBadRequest,
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register a new account
//	@Description	Creates an active account without two-factor authentication.
//	@Description	A taken email or username is reported as account_exists without saying which.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	authsdk.UserResponse	"Created account"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request, invalid_input or account_exists"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, registerStatuses)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user.Profile())
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in
//	@Description	Exchanges email, password and, when two-factor authentication is enabled, a TOTP code for a bearer token.
//	@Description	Unknown emails and wrong passwords are indistinguishable.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse	"Access token"
//	@Failure		400		{object}	authsdk.ErrorResponse	"totp_required, invalid_input or invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials, account_inactive or invalid_totp_code"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeInvalidInput(w, "email", "is required")
		return
	}
	if req.Password == "" {
		writeInvalidInput(w, "password", "is required")
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		writeServiceError(w, r, err, loginStatuses)
		return
	}
	if !result.Authenticated() {
		writeServiceError(w, r, result.Reason, loginStatuses)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result.TokenResponse())
}
