package httpx

import (
	"math"
	"net/http"
	"time"
)

// CookieOptions are the flags shared by every session cookie we emit.
type CookieOptions struct {
	// Secure is on in production so cookies never cross plain HTTP.
	Secure   bool
	SameSite http.SameSite
	Path     string
	Domain   string
}

func (o CookieOptions) path() string {
	if o.Path == "" {
		return "/"
	}
	return o.Path
}

func (o CookieOptions) sameSite() http.SameSite {
	if o.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return o.SameSite
}

// SetCookie writes an HttpOnly cookie that expires at expires.
func SetCookie(w http.ResponseWriter, name, value string, expires time.Time, o CookieOptions) {
	maxAge := int(math.Ceil(time.Until(expires).Seconds()))
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.path(),
		Domain:   o.Domain,
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.sameSite(),
	})
}

// ExpireCookie tells the browser to drop name immediately.
func ExpireCookie(w http.ResponseWriter, name string, o CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.path(),
		Domain:   o.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.sameSite(),
	})
}

// CookieValue returns the named cookie's value or "" when absent.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
