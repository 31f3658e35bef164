package service

import (
	"errors"
	"time"
)

// Errors returned by the services. Anything wrapping ErrInternal carries the
// underlying failure for the log and surfaces to clients as a generic 500.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrEmailInUse         = errors.New("email_in_use")
	ErrAlreadyVerified    = errors.New("already_verified")
	ErrIdentityNotFound   = errors.New("identity_not_found")
	ErrInternal           = errors.New("internal_error")
)

// nowOr returns now() when set and time.Now otherwise.
func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
