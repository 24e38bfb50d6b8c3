package authsdk

import "time"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is a machine readable code (e.g. "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Registration and Login
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	// Email must be a syntactically valid address; it is matched case-insensitively
	Email string `json:"email"`

	// Username is 3-50 characters of letters, digits, underscores and hyphens
	Username string `json:"username"`

	// Password is 8-100 characters with an upper case letter, a lower case letter and a digit
	Password string `json:"password"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// TOTPCode is required once two-factor authentication is enabled
	TOTPCode string `json:"totp_code,omitempty"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	// AccessToken is the signed JWT to send as "Authorization: Bearer <token>"
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expires_in"`
}

// UserResponse is the public profile of an account.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// ============================================================================
// Two-factor authentication
// ============================================================================

// TOTPSetupResponse carries a freshly generated, not yet persisted secret.
type TOTPSetupResponse struct {
	// Secret is the base32 shared secret
	Secret string `json:"secret"`

	// QRCodeURI is the otpauth:// provisioning URI
	QRCodeURI string `json:"qr_code_uri"`

	// QRCodePNG is the provisioning URI rendered as a PNG image
	QRCodePNG []byte `json:"qr_code_png" swaggertype:"string" format:"base64"`
}

// TOTPEnableRequest is the body of POST /v1/auth/2fa/enable.
type TOTPEnableRequest struct {
	// Secret is the value returned by setup
	Secret string `json:"secret"`

	// Code is the current 6 digit code for Secret
	Code string `json:"code"`
}

// TOTPCodeRequest is the body of POST /v1/auth/2fa/disable and /v1/auth/2fa/verify.
type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// TOTPStatusResponse is returned by enable and disable.
type TOTPStatusResponse struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// TOTPVerifyResponse is returned by verify.
type TOTPVerifyResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status ("ok" or "unavailable")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of the service dependencies.
type HealthChecks struct {
	// Database indicates the user store status
	Database string `json:"database"`

	// Redis indicates the replay guard cache status, omitted when not configured
	Redis string `json:"redis,omitempty"`
}
