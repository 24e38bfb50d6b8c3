package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/pkg/slogx"
	"github.com/smartoffice/authcore/pkg/totpx"
)

type MFAConfig struct {
	Store  store.Store
	TOTP   *totpx.Manager
	Issuer string // shown in authenticator apps, e.g. "Smart Office AI"
	QRSize int
}

// MFAService handles TOTP enrollment. Enable and Disable write at most once,
// and only after the code has been verified.
type MFAService struct {
	store  store.Store
	totp   *totpx.Manager
	issuer string
	qrSize int
}

func NewMFAService(cfg MFAConfig) *MFAService {
	size := cfg.QRSize
	if size <= 0 {
		size = totpx.DefaultQRSize
	}
	return &MFAService{
		store:  cfg.Store,
		totp:   cfg.TOTP,
		issuer: cfg.Issuer,
		qrSize: size,
	}
}

// Setup generates a fresh secret and its enrollment artifacts. Nothing is
// persisted; the client sends the secret back to Enable with a code.
func (s *MFAService) Setup(ctx context.Context, userID string) (domain.SetupResult, error) {
	ctx, span := tracer.Start(ctx, "MFAService.Setup")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.SetupResult{}, err
	}
	if user.TOTPEnabled() {
		return domain.SetupResult{}, domain.ReasonAlreadyEnrolled
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return domain.SetupResult{}, err
	}
	uri, err := s.totp.ProvisioningURI(secret, user.Username, s.issuer)
	if err != nil {
		return domain.SetupResult{}, err
	}
	png, err := s.totp.QRCodePNG(uri, s.qrSize)
	if err != nil {
		return domain.SetupResult{}, err
	}

	slogx.FromContext(ctx).Info("totp setup issued", slog.String("user_id", user.ID))

	return domain.SetupResult{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCodePNG:       png,
	}, nil
}

// Enable persists secret once code proves the user's authenticator holds it.
// The write only succeeds while no secret is stored, so of two concurrent
// enrollments exactly one wins and the other gets ReasonAlreadyEnrolled.
func (s *MFAService) Enable(ctx context.Context, userID, secret, code string) (domain.EnableResult, error) {
	ctx, span := tracer.Start(ctx, "MFAService.Enable")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	l := slogx.FromContext(ctx).With(slog.String("user_id", userID))

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.EnableResult{}, err
	}
	if user.TOTPEnabled() {
		return domain.EnableResult{}, domain.ReasonAlreadyEnrolled
	}

	if !s.totp.Verify(secret, code) {
		l.Info("totp enable rejected", slog.String("reason", string(domain.ReasonInvalidTOTPCode)))
		return domain.EnableResult{}, domain.ReasonInvalidTOTPCode
	}

	if err := ctx.Err(); err != nil {
		return domain.EnableResult{}, err
	}
	swapped, err := s.store.Users().SwapTOTPSecret(ctx, user.ID, nil, &secret)
	if err != nil {
		return domain.EnableResult{}, mapStoreErr(err)
	}
	if !swapped {
		// A concurrent Enable persisted its secret first.
		l.Info("totp enable rejected", slog.String("reason", string(domain.ReasonAlreadyEnrolled)))
		return domain.EnableResult{}, domain.ReasonAlreadyEnrolled
	}

	l.Info("totp enabled")
	return domain.EnableResult{Enabled: true}, nil
}

// Disable clears the persisted secret after verifying a current code. If the
// secret changed after it was read, nothing is cleared and the caller gets
// ReasonNotEnrolled.
func (s *MFAService) Disable(ctx context.Context, userID, code string) (domain.EnableResult, error) {
	ctx, span := tracer.Start(ctx, "MFAService.Disable")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	l := slogx.FromContext(ctx).With(slog.String("user_id", userID))

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.EnableResult{}, err
	}
	if !user.TOTPEnabled() {
		return domain.EnableResult{}, domain.ReasonNotEnrolled
	}

	if !s.totp.Verify(*user.TOTPSecret, code) {
		l.Warn("totp disable rejected", slog.String("reason", string(domain.ReasonInvalidTOTPCode)))
		return domain.EnableResult{}, domain.ReasonInvalidTOTPCode
	}

	if err := ctx.Err(); err != nil {
		return domain.EnableResult{}, err
	}
	// Only the secret the code was checked against may be cleared.
	swapped, err := s.store.Users().SwapTOTPSecret(ctx, user.ID, user.TOTPSecret, nil)
	if err != nil {
		return domain.EnableResult{}, mapStoreErr(err)
	}
	if !swapped {
		l.Info("totp disable rejected", slog.String("reason", string(domain.ReasonNotEnrolled)))
		return domain.EnableResult{}, domain.ReasonNotEnrolled
	}

	l.Info("totp disabled")
	return domain.EnableResult{Enabled: false}, nil
}

// Verify checks a code against the persisted secret without side effects.
// A user without 2FA simply gets Verified false.
func (s *MFAService) Verify(ctx context.Context, userID, code string) (domain.VerifyResult, error) {
	ctx, span := tracer.Start(ctx, "MFAService.Verify")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	if !user.TOTPEnabled() {
		return domain.VerifyResult{Verified: false}, nil
	}
	return domain.VerifyResult{Verified: s.totp.Verify(*user.TOTPSecret, code)}, nil
}

func (s *MFAService) loadUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return user, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("store: %w", err)
	}
	return unavailable(err)
}
