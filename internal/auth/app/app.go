package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/carecube/internal/auth/http"
	"github.com/aussiebroadwan/carecube/internal/auth/mail"
	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/aussiebroadwan/carecube/pkg/cryptox"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	hasher *cryptox.PasswordHasher
	mailer *mail.Dispatcher

	// Services
	tokenService        *service.TokenService
	identityService     *service.IdentityService
	verificationService *service.VerificationService
	credentialService   *service.CredentialService
	sessionResolver     *service.SessionResolver
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := app.ensureSecrets(); err != nil {
		return nil, err
	}

	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired HTTP handler, mostly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start background workers
	app.mailer.Start()
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Flush queued mail and stop housekeeping before the store goes away
	app.stopWorkers()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) stopWorkers() {
	app.mailer.Stop()
	app.housekeepingService.Stop()
}

// ensureSecrets fills in random signing secrets outside production. Sessions
// signed with them do not survive a restart.
func (app *Application) ensureSecrets() error {
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"JWT_ACCESS_SECRET_KEY", &app.cfg.AccessSecret},
		{"JWT_REFRESH_SECRET_KEY", &app.cfg.RefreshSecret},
	} {
		if *s.dst != "" {
			continue
		}
		secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", s.name, err)
		}
		*s.dst = secret
		app.logger.Warn("signing secret not configured, generated a temporary one", "env_var", s.name)
	}
	return nil
}

// initDatabase connects the configured store and applies migrations
func (app *Application) initDatabase() error {
	db, err := openStore(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initMail puts the configured mailer behind the rate-limited dispatcher
func (app *Application) initMail() error {
	m, err := newMailer(app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.mailer = mail.NewDispatcher(m, app.logger, app.cfg.MailRate, app.cfg.MailQueueSize)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	tokens, err := service.NewTokenService(
		[]byte(app.cfg.AccessSecret),
		[]byte(app.cfg.RefreshSecret),
		app.cfg.Issuer,
		app.cfg.AccessTTL,
		app.cfg.RefreshTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	app.identityService = &service.IdentityService{Store: app.db}
	app.verificationService = &service.VerificationService{
		Store:      app.db,
		Identities: app.identityService,
		Mailer:     app.mailer,
		CodeTTL:    app.cfg.CodeTTL,
	}
	app.credentialService = &service.CredentialService{
		Store:        app.db,
		Identities:   app.identityService,
		Tokens:       app.tokenService,
		Hasher:       app.hasher,
		Verification: app.verificationService,
	}
	app.sessionResolver = &service.SessionResolver{
		Tokens:     app.tokenService,
		Identities: app.identityService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.Cookies = httpapi.CookieConfig{
		Secure:         app.cfg.Production(),
		AccessTTL:      app.cfg.AccessTTL,
		IdentityRefTTL: app.cfg.IdentityRefTTL,
	}
	if app.cfg.CORSOrigin != "" {
		router.CORS = httpx.CORSOptions{
			AllowedOrigins:   []string{app.cfg.CORSOrigin},
			AllowCredentials: true,
			MaxAge:           10 * time.Minute,
		}
	}
	router.UploadDir = app.cfg.UploadDir
	router.Mail = app.mailer

	// Wire services to router
	router.CredentialService = app.credentialService
	router.VerificationService = app.verificationService
	router.SessionResolver = app.sessionResolver
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
