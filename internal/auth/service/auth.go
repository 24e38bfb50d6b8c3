package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/replay"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/pkg/cryptox"
	"github.com/smartoffice/authcore/pkg/jwtx"
	"github.com/smartoffice/authcore/pkg/slogx"
	"github.com/smartoffice/authcore/pkg/totpx"
)

const tracerName = "github.com/smartoffice/authcore/internal/auth/service"

var tracer = otel.Tracer(tracerName)

type AuthConfig struct {
	Store  store.Store
	Tokens jwtx.Signer
	TOTP   *totpx.Manager

	// Replay claims the matched TOTP step after a successful login code.
	// Nil disables replay protection.
	Replay replay.Guard
}

// AuthService runs the login state machine. Every attempt reads the store
// once and runs exactly one bcrypt comparison, whether or not the email is
// known, so response time does not reveal registered addresses.
type AuthService struct {
	store  store.Store
	tokens jwtx.Signer
	totp   *totpx.Manager
	replay replay.Guard

	dummyHash      string
	verifyPassword func(password, hash string) bool
}

func NewAuthService(cfg AuthConfig) (*AuthService, error) {
	if cfg.Store == nil || cfg.Tokens == nil || cfg.TOTP == nil {
		return nil, errors.New("auth service: store, tokens and totp are required")
	}

	seed, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, fmt.Errorf("auth service: dummy password: %w", err)
	}
	dummy, err := cryptox.HashPassword(seed)
	if err != nil {
		return nil, fmt.Errorf("auth service: dummy hash: %w", err)
	}

	return &AuthService{
		store:          cfg.Store,
		tokens:         cfg.Tokens,
		totp:           cfg.TOTP,
		replay:         cfg.Replay,
		dummyHash:      dummy,
		verifyPassword: cryptox.VerifyPassword,
	}, nil
}

// Login authenticates email and password and, for enrolled users, the TOTP
// code. An empty totpCode means none was supplied. Rejections come back as
// results; the error is reserved for system failures.
func (s *AuthService) Login(ctx context.Context, email, password, totpCode string) (domain.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	l := slogx.FromContext(ctx)

	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store lookup failed")
			return domain.LoginResult{}, unavailable(err)
		}
		// Unknown email still pays for one bcrypt comparison.
		s.verifyPassword(password, s.dummyHash)
		l.Info("login rejected",
			slog.String("reason", string(domain.ReasonInvalidCredentials)),
			slog.String("email_fp", cryptox.FingerprintToken(email)),
		)
		return rejected(span, domain.ReasonInvalidCredentials), nil
	}

	l = l.With(slog.String("user_id", user.ID))
	span.SetAttributes(attribute.String("user.id", user.ID))

	if !s.verifyPassword(password, user.PasswordHash) {
		l.Info("login rejected", slog.String("reason", string(domain.ReasonInvalidCredentials)))
		return rejected(span, domain.ReasonInvalidCredentials), nil
	}

	// CREDENTIALS_CHECKED
	if !user.IsActive {
		l.Info("login rejected", slog.String("reason", string(domain.ReasonAccountInactive)))
		return rejected(span, domain.ReasonAccountInactive), nil
	}

	if !user.TOTPEnabled() {
		return s.authenticate(ctx, span, user)
	}

	if totpCode == "" {
		l.Info("login requires totp")
		span.SetAttributes(attribute.String("auth.outcome", string(domain.OutcomeTOTPRequired)))
		return domain.LoginResult{
			Outcome: domain.OutcomeTOTPRequired,
			Reason:  domain.ReasonTOTPRequired,
			State:   domain.StateTOTPRequired,
		}, nil
	}

	counter, ok := s.totp.MatchNow(*user.TOTPSecret, totpCode)
	if !ok {
		l.Info("login rejected", slog.String("reason", string(domain.ReasonInvalidTOTPCode)))
		return rejected(span, domain.ReasonInvalidTOTPCode), nil
	}

	if s.replay != nil {
		if err := ctx.Err(); err != nil {
			return domain.LoginResult{}, err
		}
		claimed, err := s.replay.Claim(ctx, user.ID, counter)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "replay guard failed")
			return domain.LoginResult{}, unavailable(err)
		}
		if !claimed {
			l.Warn("login rejected: totp code replayed", slog.Int64("counter", counter))
			return rejected(span, domain.ReasonInvalidTOTPCode), nil
		}
	}

	// TOTP_CHECKED
	return s.authenticate(ctx, span, user)
}

func (s *AuthService) authenticate(ctx context.Context, span trace.Span, user domain.User) (domain.LoginResult, error) {
	token, err := s.tokens.Issue(jwtx.NewAccessClaims(user.ID, user.Email), 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return domain.LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	slogx.FromContext(ctx).Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.Bool("totp", user.TOTPEnabled()),
	)
	span.SetAttributes(attribute.String("auth.outcome", string(domain.OutcomeAuthenticated)))

	return domain.LoginResult{
		Outcome:   domain.OutcomeAuthenticated,
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		State:     domain.StateAuthenticated,
	}, nil
}

func rejected(span trace.Span, reason domain.Reason) domain.LoginResult {
	span.SetAttributes(
		attribute.String("auth.outcome", string(domain.OutcomeRejected)),
		attribute.String("auth.reason", string(reason)),
	)
	return domain.LoginResult{
		Outcome: domain.OutcomeRejected,
		Reason:  reason,
		State:   domain.StateRejected,
	}
}
