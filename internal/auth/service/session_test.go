package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestResolveRequiresIdentityRef(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, creds := env.signUp(t, "ada@example.com")

	t.Run("missing ref", func(t *testing.T) {
		_, err := env.resolver.Resolve(ctx, domain.SessionCookies{AccessToken: creds.Access.Token})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("undecodable ref", func(t *testing.T) {
		_, err := env.resolver.Resolve(ctx, domain.SessionCookies{
			AccessToken: creds.Access.Token,
			IdentityRef: "%%% not base64 %%%",
		})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestResolveValidAccessToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	ident, creds := env.signUp(t, "ada@example.com")

	res, err := env.resolver.Resolve(ctx, domain.SessionCookies{
		AccessToken: creds.Access.Token,
		IdentityRef: idx.EncodeRef(ident.ID),
	})
	require.NoError(t, err)
	require.Nil(t, res.RenewedAccess)
	require.Equal(t, domain.IdentityContext{
		ID:    ident.ID,
		Email: "ada@example.com",
		Role:  domain.RoleUser,
	}, res.Identity)
}

func TestResolveDoesNotCrossCheckRef(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, creds := env.signUp(t, "ada@example.com")
	otherID := idx.New().String()

	res, err := env.resolver.Resolve(ctx, domain.SessionCookies{
		AccessToken: creds.Access.Token,
		IdentityRef: idx.EncodeRef(otherID),
	})
	require.NoError(t, err)
	require.Equal(t, otherID, res.Identity.ID)
	require.Equal(t, "ada@example.com", res.Identity.Email)
}

func TestResolveRenewsFromRefreshClaims(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	ident, _ := env.signUp(t, "ada@example.com")

	// A stale access token with claims that differ from the stored refresh token.
	stale, err := env.tokens.IssueAccess(domain.Subject{Email: "mallory@example.com", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	env.clock.Advance(time.Hour + time.Second)

	res, err := env.resolver.Resolve(ctx, domain.SessionCookies{
		AccessToken: stale.Token,
		IdentityRef: idx.EncodeRef(ident.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, res.RenewedAccess)
	require.Equal(t, "ada@example.com", res.Identity.Email)
	require.Equal(t, domain.RoleUser, res.Identity.Role)
	require.Equal(t, ident.ID, res.Identity.ID)
	require.WithinDuration(t, env.clock.Now().Add(time.Hour), res.RenewedAccess.ExpiresAt, time.Second)

	claims, err := env.tokens.VerifyAccess(res.RenewedAccess.Token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, "User", claims.Role)
}

func TestResolveWithoutAccessTokenRenews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ident, _ := env.signUp(t, "ada@example.com")

	res, err := env.resolver.Resolve(context.Background(), domain.SessionCookies{
		IdentityRef: idx.EncodeRef(ident.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, res.RenewedAccess)
}

func TestResolveRejectsUnusableRefresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T, env *testEnv, ident domain.Identity) string // returns identity id to reference
	}{
		{
			name: "unknown identity",
			setup: func(t *testing.T, env *testEnv, ident domain.Identity) string {
				return idx.New().String()
			},
		},
		{
			name: "signed out",
			setup: func(t *testing.T, env *testEnv, ident domain.Identity) string {
				require.NoError(t, env.credentials.SignOut(context.Background(), domain.IdentityContext{ID: ident.ID}))
				return ident.ID
			},
		},
		{
			name: "garbage stored",
			setup: func(t *testing.T, env *testEnv, ident domain.Identity) string {
				require.NoError(t, env.store.Identities().UpdateRefreshToken(context.Background(), ident.ID, "not-a-jwt"))
				return ident.ID
			},
		},
		{
			name: "signed with the access secret",
			setup: func(t *testing.T, env *testEnv, ident domain.Identity) string {
				tok, err := env.tokens.IssueAccess(ident.Subject())
				require.NoError(t, err)
				require.NoError(t, env.store.Identities().UpdateRefreshToken(context.Background(), ident.ID, tok.Token))
				return ident.ID
			},
		},
		{
			name: "expired",
			setup: func(t *testing.T, env *testEnv, ident domain.Identity) string {
				env.clock.Advance(24*time.Hour + time.Second)
				return ident.ID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			ident, _ := env.signUp(t, "ada@example.com")

			id := tt.setup(t, env, ident)

			_, err := env.resolver.Resolve(context.Background(), domain.SessionCookies{
				AccessToken: "expired-or-missing",
				IdentityRef: idx.EncodeRef(id),
			})
			require.ErrorIs(t, err, ErrSessionExpired)
		})
	}
}

func TestResolveStoreFailureIsInternal(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ident, _ := env.signUp(t, "ada@example.com")
	require.NoError(t, env.store.Close())

	_, err := env.resolver.Resolve(context.Background(), domain.SessionCookies{
		IdentityRef: idx.EncodeRef(ident.ID),
	})
	require.ErrorIs(t, err, ErrInternal)
	require.NotErrorIs(t, err, ErrSessionExpired)
}
