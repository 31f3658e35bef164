package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
	"github.com/aussiebroadwan/carecube/pkg/slogx"

	_ "github.com/aussiebroadwan/carecube/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Cookies   CookieConfig
	CORS      httpx.CORSOptions
	UploadDir string
	Mail      MailReadiness

	CredentialService   *service.CredentialService
	VerificationService *service.VerificationService
	SessionResolver     *service.SessionResolver
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// CORS sits inside the logger so preflights are logged too
	if len(r.CORS.AllowedOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORS))
	}

	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Care Cube Authentication Service API
//	@version					0.1.0
//	@description				Session and credential service for Care Cube. Sessions live in two HttpOnly cookies:
//	@description				accessToken holds a short-lived HS256 access token and userId holds the encoded identity id.
//	@description
//	@description				Expired access tokens are renewed transparently from the refresh token stored on the identity.
//
//	@contact.name				Care Cube Team
//	@contact.url				https://github.com/aussiebroadwan/carecube
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							header
//	@name						Cookie
//	@description				Session cookies set by sign-up or sign-in: "accessToken=...; userId=...".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	session := RequireSession(r.SessionResolver, r.Cookies)

	signUp := &SignUpHandler{Credentials: r.CredentialService, Cookies: r.Cookies}
	signIn := &SignInHandler{Credentials: r.CredentialService, Cookies: r.Cookies}
	signOut := &SignOutHandler{Credentials: r.CredentialService, Cookies: r.Cookies}
	verification := &VerificationHandler{Verification: r.VerificationService}
	photos := &PhotoHandler{UploadDir: r.UploadDir}

	r.Mux.Handle("POST /api/users/sign-up", signUp)
	r.Mux.Handle("POST /api/users/sign-in", signIn)
	r.Mux.Handle("POST /api/users/sign-out", session(signOut.Handle))
	r.Mux.Handle("GET /api/users/current-user", session(CurrentUserHandler))
	r.Mux.Handle("GET /api/users/verification-code", session(verification.HandleRequestCode))
	r.Mux.Handle("POST /api/users/verify-email", session(verification.HandleVerifyEmail))
	r.Mux.Handle("GET /api/users/photos/{filename}", photos)
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /{$}", RootHandler)
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Mail))
}
