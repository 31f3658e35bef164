package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/jwtx"
)

// TokenService issues and verifies the two HS256 token classes. Access and
// refresh tokens share a claim shape but never a secret, so one can't stand
// in for the other.
type TokenService struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// NewTokenService checks both secrets are usable and fills default TTLs.
func NewTokenService(accessSecret, refreshSecret []byte, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if _, err := jwtx.NewSignerHS256(accessSecret); err != nil {
		return nil, fmt.Errorf("access secret: %w", err)
	}
	if _, err := jwtx.NewSignerHS256(refreshSecret); err != nil {
		return nil, fmt.Errorf("refresh secret: %w", err)
	}
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	return &TokenService{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		Issuer:        issuer,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess signs a short-lived access token for sub.
func (s *TokenService) IssueAccess(sub domain.Subject) (domain.IssuedToken, error) {
	return s.issue(sub, s.AccessSecret, s.AccessTTL)
}

// IssueRefresh signs a refresh token for sub.
func (s *TokenService) IssueRefresh(sub domain.Subject) (domain.IssuedToken, error) {
	return s.issue(sub, s.RefreshSecret, s.RefreshTTL)
}

// IssuePair signs both tokens for sub.
func (s *TokenService) IssuePair(sub domain.Subject) (domain.Credentials, error) {
	access, err := s.IssueAccess(sub)
	if err != nil {
		return domain.Credentials{}, err
	}
	refresh, err := s.IssueRefresh(sub)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Access: access, Refresh: refresh}, nil
}

// VerifyAccess checks signature, expiry and issuer against the access secret.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	return jwtx.VerifyHS256(token, s.AccessSecret, s.verifyOptions())
}

// VerifyRefresh checks signature, expiry and issuer against the refresh secret.
func (s *TokenService) VerifyRefresh(token string) (jwtx.Claims, error) {
	return jwtx.VerifyHS256(token, s.RefreshSecret, s.verifyOptions())
}

func (s *TokenService) issue(sub domain.Subject, secret []byte, ttl time.Duration) (domain.IssuedToken, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return domain.IssuedToken{}, err
	}

	claims := jwtx.NewClaims(sub.Email, sub.Role.String(), ttl, s.Issuer, nowOr(s.Now))
	token, err := signer.Sign(claims)
	if err != nil {
		return domain.IssuedToken{}, err
	}

	return domain.IssuedToken{Token: token, ExpiresAt: claims.Expiry()}, nil
}

func (s *TokenService) verifyOptions() jwtx.VerifyOptions {
	return jwtx.VerifyOptions{Issuer: s.Issuer, Now: s.Now}
}

// SubjectFromClaims maps verified claims back onto a subject.
func SubjectFromClaims(c jwtx.Claims) domain.Subject {
	return domain.Subject{Email: c.Email, Role: domain.ParseRole(c.Role)}
}
