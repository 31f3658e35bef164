package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/mail"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/pkg/cryptox"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// DefaultCodeTTL is how long an emailed verification code stays redeemable.
const DefaultCodeTTL = 15 * time.Minute

type VerificationService struct {
	Store      store.Store
	Identities *IdentityService
	Mailer     mail.Mailer
	CodeTTL    time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

func (s *VerificationService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultCodeTTL
	}
	return s.CodeTTL
}

// IssueCode stores a fresh code for ident, replacing any outstanding one, and
// mails it. Mail failures are logged and never returned.
func (s *VerificationService) IssueCode(ctx context.Context, ident domain.Identity) error {
	l := slogx.FromContext(ctx)

	code, err := cryptox.RandomInt(domain.MinVerificationCode, domain.MaxVerificationCode)
	if err != nil {
		return fmt.Errorf("%w: generate code: %w", ErrInternal, err)
	}

	now := nowOr(s.Now)
	ttl := s.codeTTL()
	err = s.Store.Codes().PutCode(ctx, domain.VerificationCode{
		Email:     ident.Email,
		Code:      code,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("%w: store code: %w", ErrInternal, err)
	}

	msg := mail.VerificationCodeMessage(ident.Name, ident.Email, code, ttl)
	if err := s.Mailer.Send(ctx, msg); err != nil {
		l.Warn("failed to send verification code",
			slog.String("identity_id", ident.ID),
			slog.Any("error", err),
		)
		return nil
	}

	l.Info("verification code issued", slog.String("identity_id", ident.ID))
	return nil
}

// RequestCode issues a new code for the signed-in identity unless its email
// is already verified.
func (s *VerificationService) RequestCode(ctx context.Context, ic domain.IdentityContext) error {
	ident, err := s.Identities.GetByEmail(ctx, ic.Email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return ErrUnauthenticated
		}
		return err
	}

	if ident.EmailVerified {
		return ErrAlreadyVerified
	}

	return s.IssueCode(ctx, ident)
}

// RedeemCode consumes the code for email and marks the email verified, both
// in one transaction. A code redeems at most once, even under concurrent
// attempts.
func (s *VerificationService) RedeemCode(ctx context.Context, email string, code int) error {
	if code < domain.MinVerificationCode || code > domain.MaxVerificationCode {
		return ErrInvalidCode
	}

	now := nowOr(s.Now)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Codes().RedeemCode(ctx, email, code, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		return tx.Identities().MarkEmailVerified(ctx, email)
	})

	switch {
	case err == nil:
		slogx.FromContext(ctx).Info("email verified", slog.String("email", email))
		return nil
	case errors.Is(err, ErrInvalidCode):
		return ErrInvalidCode
	default:
		return fmt.Errorf("%w: redeem code: %w", ErrInternal, err)
	}
}
