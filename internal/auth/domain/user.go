package domain

import "time"

type User struct {
	ID           string // UUIDv4
	Email        string
	Username     string
	PasswordHash string  // bcrypt encoded
	TOTPSecret   *string // base32, nil when 2FA is not enrolled
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TOTPEnabled reports whether a TOTP secret is persisted for the user.
func (u User) TOTPEnabled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// UserProfile is the public view of a user returned by /me and registration.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		TOTPEnabled: u.TOTPEnabled(),
		CreatedAt:   u.CreatedAt,
	}
}
