package domain

import "time"

const (
	// MinVerificationCode and MaxVerificationCode bound the emailed code.
	MinVerificationCode = 1
	MaxVerificationCode = 10000
)

// VerificationCode is a one-time numeric code emailed to prove ownership of
// an address. At most one is outstanding per email, and stores never redeem
// it at or after ExpiresAt.
type VerificationCode struct {
	Email     string
	Code      int
	ExpiresAt time.Time
	CreatedAt time.Time
}
