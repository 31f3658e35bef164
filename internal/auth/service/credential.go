package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/pkg/cryptox"
	"github.com/aussiebroadwan/carecube/pkg/idx"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// CredentialService owns sign-up, sign-in and sign-out: everything that hands
// out or withdraws a credential pair.
type CredentialService struct {
	Store        store.Store
	Identities   *IdentityService
	Tokens       *TokenService
	Hasher       *cryptox.PasswordHasher
	Verification *VerificationService
}

// SignUpInput is a validated sign-up request.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an identity with role User and returns it with a fresh
// credential pair. The refresh token is stored as part of the insert. A
// verification code is sent afterwards; failing to send it does not fail
// the sign-up, the user can request another one.
func (s *CredentialService) SignUp(ctx context.Context, in SignUpInput) (domain.Identity, domain.Credentials, error) {
	l := slogx.FromContext(ctx)
	email := NormalizeEmail(in.Email)

	_, err := s.Identities.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Identity{}, domain.Credentials{}, ErrEmailInUse
	case !errors.Is(err, ErrIdentityNotFound):
		return domain.Identity{}, domain.Credentials{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Identity{}, domain.Credentials{}, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}

	sub := domain.Subject{Email: email, Role: domain.RoleUser}
	creds, err := s.Tokens.IssuePair(sub)
	if err != nil {
		return domain.Identity{}, domain.Credentials{}, fmt.Errorf("%w: issue credentials: %w", ErrInternal, err)
	}

	now := nowOr(s.Tokens.Now)
	ident := domain.Identity{
		ID:           idx.NewAt(now).String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Photo:        in.Photo,
		Role:         domain.RoleUser,
		RefreshToken: creds.Refresh.Token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Identities().CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Identity{}, domain.Credentials{}, ErrEmailInUse
		}
		return domain.Identity{}, domain.Credentials{}, fmt.Errorf("%w: create identity: %w", ErrInternal, err)
	}

	l.Info("identity created", slog.String("identity_id", ident.ID))

	if err := s.Verification.IssueCode(ctx, ident); err != nil {
		l.Warn("failed to issue verification code after sign-up",
			slog.String("identity_id", ident.ID),
			slog.Any("error", err),
		)
	}

	return ident, creds, nil
}

// SignIn checks email and password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *CredentialService) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Credentials, error) {
	l := slogx.FromContext(ctx)

	ident, err := s.Identities.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return domain.Identity{}, domain.Credentials{}, ErrInvalidCredentials
		}
		return domain.Identity{}, domain.Credentials{}, err
	}

	if err := s.Hasher.Verify(password, ident.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("sign-in password mismatch", slog.String("identity_id", ident.ID))
			return domain.Identity{}, domain.Credentials{}, ErrInvalidCredentials
		}
		return domain.Identity{}, domain.Credentials{}, fmt.Errorf("%w: verify password: %w", ErrInternal, err)
	}

	creds, err := s.IssueCredentials(ctx, ident)
	if err != nil {
		return domain.Identity{}, domain.Credentials{}, err
	}
	ident.RefreshToken = creds.Refresh.Token

	return ident, creds, nil
}

// IssueCredentials signs a new pair for ident and stores the refresh token,
// replacing whatever was there before.
func (s *CredentialService) IssueCredentials(ctx context.Context, ident domain.Identity) (domain.Credentials, error) {
	creds, err := s.Tokens.IssuePair(ident.Subject())
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: issue credentials: %w", ErrInternal, err)
	}

	if err := s.Store.Identities().UpdateRefreshToken(ctx, ident.ID, creds.Refresh.Token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credentials{}, ErrUnauthenticated
		}
		return domain.Credentials{}, fmt.Errorf("%w: store refresh token: %w", ErrInternal, err)
	}

	slogx.FromContext(ctx).Debug("credentials issued",
		slog.String("identity_id", ident.ID),
		slog.String("refresh_fp", cryptox.FingerprintToken(creds.Refresh.Token)),
	)
	return creds, nil
}

// SignOut clears the stored refresh token so the session can't be renewed.
// The access token stays valid until it expires.
func (s *CredentialService) SignOut(ctx context.Context, ic domain.IdentityContext) error {
	err := s.Store.Identities().UpdateRefreshToken(ctx, ic.ID, "")
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: clear refresh token: %w", ErrInternal, err)
	}
	return nil
}
