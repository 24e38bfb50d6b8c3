/*
Package authsdk provides a client SDK for the Smart Office authentication service.

# Overview

The package is organized around two types:

  - SDKClient: unauthenticated operations (health, registration, login)
  - Session: operations that carry the caller's access token

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Create an account
	user, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:    "ada@example.com",
		Username: "ada",
		Password: "Sup3rSecret",
	})

	// Log in
	session, err := client.Login(ctx, authsdk.LoginRequest{Email: "ada@example.com", Password: "Sup3rSecret"})

# Two-factor authentication

Accounts with TOTP enabled need a code on every login. Without one the server
answers with a totp_required error, surfaced as *TOTPRequiredError:

	session, err := client.Login(ctx, req)
	var totpErr *authsdk.TOTPRequiredError
	if errors.As(err, &totpErr) {
		req.TOTPCode = promptForCode()
		session, err = client.Login(ctx, req)
	}

Enrollment is a two step exchange: SetupTOTP returns a fresh secret and its
QR code, EnableTOTP sends the secret back with a code from the
authenticator app.

	setup, err := session.SetupTOTP(ctx)
	status, err := session.EnableTOTP(ctx, setup.Secret, code)

# Error Handling

Every non-2xx response becomes an *APIError carrying the HTTP status and the
server's error code. Use IsCode to branch on a specific code:

	if authsdk.IsCode(err, authsdk.ErrorCodeInvalidTOTPCode) {
		// ask again
	}

# Tokens

Access tokens are not refreshed. Session.Expired reports when the token has
passed its expires_in and a new Login is needed. Sessions are safe for
concurrent use.
*/
package authsdk
