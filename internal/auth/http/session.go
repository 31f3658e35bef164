package http

import (
	"net/http"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// SessionHandlerFunc is a handler that runs only once the session cookies
// resolved to an identity.
type SessionHandlerFunc func(w http.ResponseWriter, r *http.Request, ic domain.IdentityContext)

// RequireSession resolves the session cookies before calling next. A renewed
// access token is written back as a fresh accessToken cookie.
func RequireSession(resolver *service.SessionResolver, cookies CookieConfig) func(SessionHandlerFunc) http.Handler {
	return func(next SessionHandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := resolver.Resolve(r.Context(), domain.SessionCookies{
				AccessToken: httpx.CookieValue(r, authsdk.AccessTokenCookie),
				IdentityRef: httpx.CookieValue(r, authsdk.UserIDCookie),
			})
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			if res.RenewedAccess != nil {
				cookies.setAccess(w, res.RenewedAccess.Token)
			}

			ctx := slogx.WithAttrs(r.Context(), "identity_id", res.Identity.ID)
			next(w, r.WithContext(ctx), res.Identity)
		})
	}
}
