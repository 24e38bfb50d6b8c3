package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/pkg/cryptox"
	"github.com/smartoffice/authcore/pkg/slogx"
)

const (
	DevUserEmail    = "dev@example.com"
	DevUserUsername = "devuser"
)

// BootstrapService seeds the development account. It never runs outside
// the dev environment.
type BootstrapService struct {
	Store store.Store

	// Password for the dev account. Empty generates a random one, which is
	// logged once at warn level.
	Password string
}

// SeedDevUser creates dev@example.com without 2FA if it does not exist.
// It reports whether a user was created.
func (s *BootstrapService) SeedDevUser(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	password := s.Password
	generated := false
	if password == "" {
		p, err := cryptox.GeneratePassword()
		if err != nil {
			return false, err
		}
		password, generated = p, true
	}

	created := false
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, DevUserEmail)
		if err == nil {
			l.Info("development user already exists",
				slog.String("user_id", existing.ID),
				slog.Bool("totp_enabled", existing.TOTPEnabled()),
			)
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := cryptox.HashPassword(password)
		if err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID:           uuid.NewString(),
			Email:        DevUserEmail,
			Username:     DevUserUsername,
			PasswordHash: hash,
			IsActive:     true,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, unavailable(err)
	}

	if created {
		if generated {
			l.Warn("development user created with generated password",
				slog.String("email", DevUserEmail),
				slog.String("password", password),
			)
		} else {
			l.Info("development user created", slog.String("email", DevUserEmail))
		}
	}
	return created, nil
}
