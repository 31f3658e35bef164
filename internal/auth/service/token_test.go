package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("short"), refreshSecret, testIssuer, 0, 0)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = NewTokenService(accessSecret, nil, testIssuer, 0, 0)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	s, err := NewTokenService(accessSecret, refreshSecret, testIssuer, 0, 0)
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, s.AccessTTL)
	require.Equal(t, jwtx.DefaultRefreshTokenTTL, s.RefreshTTL)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	t.Parallel()

	clk := newClock()
	s, err := NewTokenService(accessSecret, refreshSecret, testIssuer, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	s.Now = clk.Now

	sub := domain.Subject{Email: "ada@example.com", Role: domain.RoleAdmin}
	pair, err := s.IssuePair(sub)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access.Token, pair.Refresh.Token)
	require.WithinDuration(t, clk.Now().Add(time.Hour), pair.Access.ExpiresAt, time.Second)
	require.WithinDuration(t, clk.Now().Add(24*time.Hour), pair.Refresh.ExpiresAt, time.Second)

	claims, err := s.VerifyAccess(pair.Access.Token)
	require.NoError(t, err)
	require.Equal(t, sub, SubjectFromClaims(claims))
	require.Equal(t, testIssuer, claims.Issuer)

	claims, err = s.VerifyRefresh(pair.Refresh.Token)
	require.NoError(t, err)
	require.Equal(t, sub, SubjectFromClaims(claims))
}

func TestTokenServiceExpiry(t *testing.T) {
	t.Parallel()

	clk := newClock()
	s, err := NewTokenService(accessSecret, refreshSecret, testIssuer, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	s.Now = clk.Now

	pair, err := s.IssuePair(domain.Subject{Email: "ada@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	clk.Advance(59 * time.Minute)
	_, err = s.VerifyAccess(pair.Access.Token)
	require.NoError(t, err)

	clk.Advance(time.Minute + time.Second)
	_, err = s.VerifyAccess(pair.Access.Token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	_, err = s.VerifyRefresh(pair.Refresh.Token)
	require.NoError(t, err)

	clk.Advance(23 * time.Hour)
	_, err = s.VerifyRefresh(pair.Refresh.Token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestTokenServiceSecretsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	s, err := NewTokenService(accessSecret, refreshSecret, testIssuer, 0, 0)
	require.NoError(t, err)

	pair, err := s.IssuePair(domain.Subject{Email: "ada@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = s.VerifyRefresh(pair.Access.Token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)

	_, err = s.VerifyAccess(pair.Refresh.Token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestTokenServiceIssuerMismatch(t *testing.T) {
	t.Parallel()

	other, err := NewTokenService(accessSecret, refreshSecret, "someone-else", 0, 0)
	require.NoError(t, err)
	s, err := NewTokenService(accessSecret, refreshSecret, testIssuer, 0, 0)
	require.NoError(t, err)

	tok, err := other.IssueAccess(domain.Subject{Email: "ada@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = s.VerifyAccess(tok.Token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestSubjectFromClaimsUnknownRole(t *testing.T) {
	t.Parallel()

	sub := SubjectFromClaims(jwtx.Claims{Email: "ada@example.com", Role: "Root"})
	require.Equal(t, domain.RoleUser, sub.Role)
}
