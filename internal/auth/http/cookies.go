package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
	"github.com/aussiebroadwan/carecube/pkg/idx"
)

// CookieConfig controls the two session cookies: accessToken carries the
// access JWT and userId carries the encoded identity reference.
type CookieConfig struct {
	Secure         bool
	Domain         string
	AccessTTL      time.Duration
	IdentityRefTTL time.Duration
}

func (c CookieConfig) options() httpx.CookieOptions {
	return httpx.CookieOptions{
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		Domain:   c.Domain,
	}
}

func (c CookieConfig) accessTTL() time.Duration {
	if c.AccessTTL <= 0 {
		return time.Hour
	}
	return c.AccessTTL
}

func (c CookieConfig) identityRefTTL() time.Duration {
	if c.IdentityRefTTL <= 0 {
		return 24 * time.Hour
	}
	return c.IdentityRefTTL
}

func (c CookieConfig) setAccess(w http.ResponseWriter, token string) {
	httpx.SetCookie(w, authsdk.AccessTokenCookie, token, time.Now().Add(c.accessTTL()), c.options())
}

// setSession writes both cookies after sign-up or sign-in.
func (c CookieConfig) setSession(w http.ResponseWriter, identityID, accessToken string) {
	c.setAccess(w, accessToken)
	httpx.SetCookie(w, authsdk.UserIDCookie, idx.EncodeRef(identityID), time.Now().Add(c.identityRefTTL()), c.options())
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	httpx.ExpireCookie(w, authsdk.AccessTokenCookie, c.options())
	httpx.ExpireCookie(w, authsdk.UserIDCookie, c.options())
}
