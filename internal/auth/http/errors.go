package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/service"
	"github.com/smartoffice/authcore/pkg/authsdk"
	"github.com/smartoffice/authcore/pkg/httpx"
	"github.com/smartoffice/authcore/pkg/jwtx"
	"github.com/smartoffice/authcore/pkg/slogx"
)

// reasonStatus maps a rejection to its HTTP status. A missing entry is a
// programming error and is answered as a server error.
type reasonStatus map[domain.Reason]int

// writeServiceError writes the response for an error returned by a service.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, statuses reasonStatus) {
	log := slogx.FromContext(r.Context())

	var invalid *service.InvalidInputError
	if errors.As(err, &invalid) {
		httpx.WriteError(w, http.StatusBadRequest, string(domain.ReasonInvalidInput), invalid.Error())
		return
	}

	var reason domain.Reason
	if errors.As(err, &reason) {
		if status, ok := statuses[reason]; ok {
			writeReason(w, status, reason)
			return
		}
		log.Error("unmapped rejection reason", "reason", string(reason))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	if errors.Is(err, service.ErrUserNotFound) {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if errors.Is(err, context.Canceled) {
		log.Info("request cancelled", "err", err)
	} else {
		log.Error("request failed", "err", err)
	}
	authsdk.ErrServerError.WriteError(w)
}

func writeReason(w http.ResponseWriter, status int, reason domain.Reason) {
	httpx.WriteError(w, status, string(reason), reason.Description())
}

// writeAuthnError answers a failed bearer resolution.
func writeAuthnError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, jwtx.ErrInvalidToken):
		httpx.WriteBearerError(w, httpx.InvalidCredentialsDescription)
	case errors.Is(err, domain.ReasonAccountInactive):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		writeReason(w, http.StatusUnauthorized, domain.ReasonAccountInactive)
	default:
		slogx.FromContext(r.Context()).Error("resolve bearer token", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// currentUser returns the user resolved by the authn middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user, ok := httpx.PrincipalFromContext[domain.User](r.Context())
	if !ok || user.ID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return domain.User{}, false
	}
	return user, true
}

// decodeBody decodes a JSON request or writes an invalid_request response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("failed to parse request", "err", err)
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid JSON body").WriteError(w)
		return false
	}
	return true
}
