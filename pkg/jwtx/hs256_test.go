package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "carecube-auth"

var (
	accessSecret  = []byte("access-secret-0123456789abcdefghijkl")
	refreshSecret = []byte("refresh-secret-0123456789abcdefghijk")
)

func mustSigner(t *testing.T, secret []byte) *jwtx.HS256Signer {
	t.Helper()
	s, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	return s
}

func TestHS256SignAndVerify(t *testing.T) {
	t.Parallel()

	signer := mustSigner(t, accessSecret)
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now().UTC()
	claims := jwtx.NewClaims("alice@example.com", "User", time.Hour, exampleIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	verifier, err := jwtx.NewVerifierHS256(accessSecret, jwtx.VerifyOptions{Issuer: exampleIssuer})
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "User", got.Role)
	require.Equal(t, exampleIssuer, got.Issuer)
	require.Equal(t, claims.ID, got.ID)
	require.WithinDuration(t, now.Add(time.Hour), got.Expiry(), time.Second)
}

func TestHS256Expiry(t *testing.T) {
	t.Parallel()

	signer := mustSigner(t, accessSecret)
	issued := time.Now().UTC()
	token, err := signer.Sign(jwtx.NewClaims("bob@example.com", "Admin", time.Hour, exampleIssuer, issued))
	require.NoError(t, err)

	at := func(d time.Duration) jwtx.VerifyOptions {
		return jwtx.VerifyOptions{Now: func() time.Time { return issued.Add(d) }}
	}

	t.Run("valid just before expiry", func(t *testing.T) {
		_, err := jwtx.VerifyHS256(token, accessSecret, at(59*time.Minute))
		require.NoError(t, err)
	})

	t.Run("expired after ttl", func(t *testing.T) {
		_, err := jwtx.VerifyHS256(token, accessSecret, at(time.Hour+time.Second))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("leeway absorbs skew", func(t *testing.T) {
		opts := at(time.Hour + 5*time.Second)
		opts.Leeway = 30 * time.Second
		_, err := jwtx.VerifyHS256(token, accessSecret, opts)
		require.NoError(t, err)
	})

	t.Run("not yet valid", func(t *testing.T) {
		_, err := jwtx.VerifyHS256(token, accessSecret, at(-time.Minute))
		require.ErrorIs(t, err, jwtx.ErrNotYetValid)
	})
}

func TestHS256WrongSecret(t *testing.T) {
	t.Parallel()

	refreshSigner := mustSigner(t, refreshSecret)

	t.Run("fresh token", func(t *testing.T) {
		token, err := refreshSigner.Sign(jwtx.NewClaims("c@example.com", "User", time.Hour, "", time.Now()))
		require.NoError(t, err)

		_, err = jwtx.VerifyHS256(token, accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired token still reports signature", func(t *testing.T) {
		token, err := refreshSigner.Sign(jwtx.NewClaims("c@example.com", "User", time.Hour, "", time.Now().Add(-48*time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.VerifyHS256(token, accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}

func TestHS256Rejects(t *testing.T) {
	t.Parallel()

	signer := mustSigner(t, accessSecret)
	good, err := signer.Sign(jwtx.NewClaims("d@example.com", "User", time.Hour, exampleIssuer, time.Now()))
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := jwtx.VerifyHS256("", accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := jwtx.VerifyHS256("not.a.jwt", accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(good, ".")
		other, err := signer.Sign(jwtx.NewClaims("mallory@example.com", "Super Admin", time.Hour, exampleIssuer, time.Now()))
		require.NoError(t, err)
		parts[1] = strings.Split(other, ".")[1]

		_, err = jwtx.VerifyHS256(strings.Join(parts, "."), accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		_, err := jwtx.VerifyHS256(good, accessSecret, jwtx.VerifyOptions{Issuer: "someone-else"})
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("other algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtx.NewClaims("e@example.com", "User", time.Hour, "", time.Now()))
		signed, err := tok.SignedString(accessSecret)
		require.NoError(t, err)

		_, err = jwtx.VerifyHS256(signed, accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := jwtx.NewClaims("f@example.com", "User", time.Hour, "", time.Now())
		c.ExpiresAt = nil
		signed, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = jwtx.VerifyHS256(signed, accessSecret, jwtx.VerifyOptions{})
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestWeakSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256([]byte("short"), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}
