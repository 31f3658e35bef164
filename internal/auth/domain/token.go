package domain

import "time"

// Subject is what both token classes are issued for. The identity id is not
// part of it; it travels in the userId cookie.
type Subject struct {
	Email string
	Role  Role
}

// IssuedToken is a freshly signed JWT and the instant it stops being valid.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Credentials is the access/refresh pair handed out at sign-up and sign-in.
type Credentials struct {
	Access  IssuedToken
	Refresh IssuedToken
}
