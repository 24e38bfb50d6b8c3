package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/pkg/cryptox"
	"github.com/smartoffice/authcore/pkg/jwtx"
	"github.com/smartoffice/authcore/pkg/slogx"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 100
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// InvalidInputError describes which registration field failed validation.
// Its Reason is always domain.ReasonInvalidInput.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string { return e.Field + ": " + e.Message }

func (e *InvalidInputError) Unwrap() error { return domain.ReasonInvalidInput }

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type UserService struct {
	Store  store.Store
	Tokens jwtx.Verifier
}

// Register validates input and creates an active user without 2FA. A taken
// email or username yields domain.ReasonAccountExists without saying which.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	l := slogx.FromContext(ctx)

	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegistration(in); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("registration rejected", slog.String("reason", string(domain.ReasonAccountExists)))
			return domain.User{}, domain.ReasonAccountExists
		}
		return domain.User{}, unavailable(err)
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	l.Info("user registered", slog.String("user_id", created.ID))
	return created, nil
}

// CurrentUser resolves a bearer token to an active user. Bad tokens and
// vanished users both return jwtx.ErrInvalidToken.
func (s *UserService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.Tokens.VerifyContext(ctx, token)
	if err != nil {
		return domain.User{}, jwtx.ErrInvalidToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Debug("token subject not found", slog.String("user_id", claims.Subject))
			return domain.User{}, jwtx.ErrInvalidToken
		}
		return domain.User{}, unavailable(err)
	}
	if !user.IsActive {
		return domain.User{}, domain.ReasonAccountInactive
	}
	return user, nil
}

func validateRegistration(in RegisterInput) error {
	if len(in.Email) > 254 || !emailPattern.MatchString(in.Email) {
		return &InvalidInputError{Field: "email", Message: "must be a valid email address"}
	}

	if n := len(in.Username); n < minUsernameLen || n > maxUsernameLen {
		return &InvalidInputError{Field: "username", Message: "must be between 3 and 50 characters"}
	}
	if !usernamePattern.MatchString(in.Username) {
		return &InvalidInputError{Field: "username", Message: "may only contain letters, numbers, underscores and hyphens"}
	}

	if n := len([]rune(in.Password)); n < minPasswordLen || n > maxPasswordLen {
		return &InvalidInputError{Field: "password", Message: "must be between 8 and 100 characters"}
	}
	var upper, lower, digit bool
	for _, r := range in.Password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return &InvalidInputError{Field: "password", Message: "must contain at least one uppercase letter"}
	}
	if !lower {
		return &InvalidInputError{Field: "password", Message: "must contain at least one lowercase letter"}
	}
	if !digit {
		return &InvalidInputError{Field: "password", Message: "must contain at least one digit"}
	}
	return nil
}
