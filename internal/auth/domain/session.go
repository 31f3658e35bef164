package domain

// SessionCookies is the pair of cookie values presented with a request. Either
// may be empty.
type SessionCookies struct {
	AccessToken string // accessToken cookie: a signed access JWT
	IdentityRef string // userId cookie: base64 of the identity id
}

// IdentityContext is the authenticated caller as resolved from the session
// cookies. Handlers behind the session middleware receive it explicitly.
type IdentityContext struct {
	ID    string
	Email string
	Role  Role
}
