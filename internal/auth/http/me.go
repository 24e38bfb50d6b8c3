package http

import (
	"net/http"

	"github.com/smartoffice/authcore/pkg/httpx"
)

// MeHandler handles GET /v1/auth/me
//
//	@Summary		Current user
//	@Description	Returns the profile of the user the bearer token was issued for.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"Profile"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token, or inactive account"
//	@Router			/v1/auth/me [get].
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, user.Profile())
	}
}
