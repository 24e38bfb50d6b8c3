package domain

// Reason is a security outcome. Reasons are returned as values, never raised
// for system failures.
type Reason string

const (
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonAccountInactive    Reason = "account_inactive"
	ReasonTOTPRequired       Reason = "totp_required"
	ReasonInvalidTOTPCode    Reason = "invalid_totp_code"
	ReasonAlreadyEnrolled    Reason = "already_enrolled"
	ReasonNotEnrolled        Reason = "not_enrolled"
	ReasonTokenExpired       Reason = "token_expired"
	ReasonTokenMalformed     Reason = "token_malformed"
	ReasonAccountExists      Reason = "account_exists"
	ReasonInvalidInput       Reason = "invalid_input"
)

func (r Reason) Error() string { return string(r) }

// Description is the human readable text sent to clients.
func (r Reason) Description() string {
	switch r {
	case ReasonInvalidCredentials:
		return "Incorrect email or password"
	case ReasonAccountInactive:
		return "Account is inactive"
	case ReasonTOTPRequired:
		return "TOTP code required"
	case ReasonInvalidTOTPCode:
		return "Invalid TOTP code"
	case ReasonAlreadyEnrolled:
		return "2FA is already enabled"
	case ReasonNotEnrolled:
		return "2FA is not enabled"
	case ReasonTokenExpired, ReasonTokenMalformed:
		return "Could not validate credentials"
	case ReasonAccountExists:
		return "Email or username already registered"
	case ReasonInvalidInput:
		return "Invalid request"
	default:
		return string(r)
	}
}

// Outcome is the terminal variant of a login attempt.
type Outcome string

const (
	OutcomeAuthenticated Outcome = "authenticated"
	OutcomeTOTPRequired  Outcome = "totp_required"
	OutcomeRejected      Outcome = "rejected"
)

// LoginState tracks how far a login attempt progressed.
type LoginState string

const (
	StateStart              LoginState = "START"
	StateCredentialsChecked LoginState = "CREDENTIALS_CHECKED"
	StateTOTPRequired       LoginState = "TOTP_REQUIRED"
	StateTOTPChecked        LoginState = "TOTP_CHECKED"
	StateAuthenticated      LoginState = "AUTHENTICATED"
	StateRejected           LoginState = "REJECTED"
)

// LoginResult is Authenticated(token), TOTPRequired or Rejected(reason).
type LoginResult struct {
	Outcome   Outcome
	Reason    Reason // set unless Outcome is OutcomeAuthenticated
	Token     string
	ExpiresIn int64 // seconds
	State     LoginState
}

func (r LoginResult) Authenticated() bool { return r.Outcome == OutcomeAuthenticated }

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (r LoginResult) TokenResponse() TokenResponse {
	return TokenResponse{AccessToken: r.Token, TokenType: "bearer", ExpiresIn: r.ExpiresIn}
}

type SetupResult struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       []byte
}

type EnableResult struct {
	Enabled bool
}

type VerifyResult struct {
	Verified bool
}
