package http

import (
	"net/http"
	"regexp"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/service"
	"github.com/smartoffice/authcore/pkg/authsdk"
	"github.com/smartoffice/authcore/pkg/httpx"
)

var (
	codePattern   = regexp.MustCompile(`^\d{6}$`)
	secretPattern = regexp.MustCompile(`^[A-Z2-7]{32}$`)
)

var (
	setupStatuses = reasonStatus{
		domain.ReasonAlreadyEnrolled: http.StatusBadRequest,
	}
	enableStatuses = reasonStatus{
		domain.ReasonAlreadyEnrolled: http.StatusBadRequest,
		domain.ReasonInvalidTOTPCode: http.StatusBadRequest,
	}
	disableStatuses = reasonStatus{
		domain.ReasonNotEnrolled:     http.StatusBadRequest,
		domain.ReasonInvalidTOTPCode: http.StatusUnauthorized,
	}
)

// MFAHandler handles TOTP enrollment endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleSetup handles POST /v1/auth/2fa/setup
//
//	@Summary		Start TOTP enrollment
//	@Description	Generates a secret with its provisioning URI and QR code. Nothing is stored until enable succeeds.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TOTPSetupResponse	"Secret and QR code"
//	@Failure		400	{object}	authsdk.ErrorResponse		"already_enrolled"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/2fa/setup [post].
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	setup, err := h.MFAService.Setup(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, setupStatuses)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPSetupResponse{
		Secret:    setup.Secret,
		QRCodeURI: setup.ProvisioningURI,
		QRCodePNG: setup.QRCodePNG,
	})
}

// HandleEnable handles POST /v1/auth/2fa/enable
//
//	@Summary		Enable TOTP
//	@Description	Stores the secret from setup once the code proves the authenticator app holds it.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TOTPEnableRequest	true	"Secret and current code"
//	@Success		200		{object}	authsdk.TOTPStatusResponse	"Enabled"
//	@Failure		400		{object}	authsdk.ErrorResponse		"already_enrolled, invalid_totp_code or invalid_input"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/2fa/enable [post].
func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req authsdk.TOTPEnableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !secretPattern.MatchString(req.Secret) {
		writeInvalidInput(w, "secret", "must be 32 base32 characters")
		return
	}
	if !codePattern.MatchString(req.Code) {
		writeInvalidInput(w, "code", "must be 6 digits")
		return
	}

	if _, err := h.MFAService.Enable(r.Context(), user.ID, req.Secret, req.Code); err != nil {
		writeServiceError(w, r, err, enableStatuses)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPStatusResponse{
		Enabled: true,
		Message: "Two-factor authentication enabled successfully",
	})
}

// HandleDisable handles POST /v1/auth/2fa/disable
//
//	@Summary		Disable TOTP
//	@Description	Removes the stored secret. Requires a current code.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TOTPCodeRequest		true	"Current code"
//	@Success		200		{object}	authsdk.TOTPStatusResponse	"Disabled"
//	@Failure		400		{object}	authsdk.ErrorResponse		"not_enrolled or invalid_input"
//	@Failure		401		{object}	authsdk.ErrorResponse		"invalid_totp_code or invalid access token"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/2fa/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req authsdk.TOTPCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !codePattern.MatchString(req.Code) {
		writeInvalidInput(w, "code", "must be 6 digits")
		return
	}

	if _, err := h.MFAService.Disable(r.Context(), user.ID, req.Code); err != nil {
		writeServiceError(w, r, err, disableStatuses)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPStatusResponse{
		Enabled: false,
		Message: "Two-factor authentication disabled successfully",
	})
}

// HandleVerify handles POST /v1/auth/2fa/verify
//
//	@Summary		Check a TOTP code
//	@Description	Reports whether the code is currently valid. Never changes state and never fails for a wrong code.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TOTPCodeRequest		true	"Code to check"
//	@Success		200		{object}	authsdk.TOTPVerifyResponse	"Verification result"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_input"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/2fa/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req authsdk.TOTPCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !codePattern.MatchString(req.Code) {
		writeInvalidInput(w, "code", "must be 6 digits")
		return
	}

	result, err := h.MFAService.Verify(r.Context(), user.ID, req.Code)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}

	resp := authsdk.TOTPVerifyResponse{Verified: result.Verified}
	switch {
	case result.Verified:
		resp.Message = "TOTP code verified successfully"
	case !user.TOTPEnabled():
		resp.Message = "TOTP is not enabled for this account"
	default:
		resp.Message = "Invalid TOTP code"
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func writeInvalidInput(w http.ResponseWriter, field, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, string(domain.ReasonInvalidInput), field+": "+msg)
}
