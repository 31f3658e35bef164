package domain

import "time"

// Identity is a registered end user. The session core only ever reads or
// updates RefreshToken and EmailVerified; everything else is owned by sign-up.
type Identity struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string // argon2 encoded
	Photo         string // URL of the uploaded photo (optional)
	Role          Role
	EmailVerified bool
	RefreshToken  string // the single active refresh token, empty after sign-out
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Subject returns the claim subject tokens are issued for.
func (i Identity) Subject() Subject {
	return Subject{Email: i.Email, Role: i.Role}
}
