package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/cryptox"
	"github.com/aussiebroadwan/carecube/pkg/idx"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// Resolution is the outcome of resolving session cookies. RenewedAccess is
// set when the access token had to be reissued from the stored refresh
// token; the caller must hand it back to the client.
type Resolution struct {
	Identity      domain.IdentityContext
	RenewedAccess *domain.IssuedToken
}

// SessionResolver turns the cookies of a request into an IdentityContext,
// renewing the access token from the stored refresh token when needed.
type SessionResolver struct {
	Tokens     *TokenService
	Identities *IdentityService
}

// Resolve runs strictly in order: identity reference, access token, then the
// stored refresh token. It never trusts a refresh token presented by the
// client, only the one stored on the identity.
func (r *SessionResolver) Resolve(ctx context.Context, c domain.SessionCookies) (Resolution, error) {
	l := slogx.FromContext(ctx)

	if c.IdentityRef == "" {
		return Resolution{}, ErrUnauthenticated
	}
	id, err := idx.DecodeRef(c.IdentityRef)
	if err != nil {
		l.Debug("rejecting undecodable identity reference", slog.Any("error", err))
		return Resolution{}, ErrUnauthenticated
	}

	if c.AccessToken != "" {
		claims, err := r.Tokens.VerifyAccess(c.AccessToken)
		if err == nil {
			return Resolution{Identity: identityContext(id, SubjectFromClaims(claims))}, nil
		}
		l.Debug("access token rejected, trying refresh", slog.Any("reason", err))
	}

	ident, err := r.Identities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			l.Info("session references unknown identity", slog.String("identity_id", id))
			return Resolution{}, ErrSessionExpired
		}
		return Resolution{}, err
	}

	if ident.RefreshToken == "" {
		return Resolution{}, ErrSessionExpired
	}

	claims, err := r.Tokens.VerifyRefresh(ident.RefreshToken)
	if err != nil {
		l.Info("stored refresh token rejected",
			slog.String("identity_id", id),
			slog.String("refresh_fp", cryptox.FingerprintToken(ident.RefreshToken)),
			slog.Any("reason", err),
		)
		return Resolution{}, ErrSessionExpired
	}

	sub := SubjectFromClaims(claims)
	access, err := r.Tokens.IssueAccess(sub)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: renew access token: %w", ErrInternal, err)
	}

	l.Debug("access token renewed", slog.String("identity_id", id), slog.Time("expires_at", access.ExpiresAt))
	return Resolution{
		Identity:      identityContext(id, sub),
		RenewedAccess: &access,
	}, nil
}

func identityContext(id string, sub domain.Subject) domain.IdentityContext {
	return domain.IdentityContext{ID: id, Email: sub.Email, Role: sub.Role}
}
