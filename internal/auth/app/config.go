package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/carecube/internal/auth/mail"
	"github.com/aussiebroadwan/carecube/pkg/jwtx"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const envProduction = "production"

type Config struct {
	Issuer        string // Optional: issuer claim for tokens (default: carecube-auth)
	AccessSecret  string // Required in production: HS256 secret for access tokens
	RefreshSecret string // Required in production: HS256 secret for refresh tokens, distinct from AccessSecret

	AccessTTL      time.Duration // Access token and accessToken cookie lifetime (default: 1h)
	RefreshTTL     time.Duration // Refresh token lifetime (default: 24h)
	IdentityRefTTL time.Duration // userId cookie lifetime (default: 24h)
	CodeTTL        time.Duration // Verification code lifetime (default: 15m)

	DatabaseDriver string // sqlite, postgres or mongo (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./auth.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver
	MongoURI       string // MongoDB URI, required for the mongo driver
	MongoDatabase  string // MongoDB database name (default: care-cube)

	PepperFile string // Path to file containing pepper for password hashing (default: ./pepper)
	UploadDir  string // Directory profile photos are served from (default: public/photos)
	CORSOrigin string // Allowed browser origin, empty disables CORS (default: http://localhost:3000 outside production)

	SMTP          mail.SMTPConfig // An empty Host logs messages instead of sending them
	MailRate      int // Verification emails per minute (default: 60)
	MailQueueSize int // Pending verification emails before Send fails (default: 256)

	Env                  string        // Environment (dev, staging, production) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// Production reports whether the service runs with production safeguards:
// secure cookies, mandatory secrets and no default CORS origin.
func (c Config) Production() bool {
	return c.Env == envProduction
}

// LoadConfig reads the configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Notice: could not load .env file: %v. Using system environment variables", err)
	}

	env := getEnvOrDefault("ENV", "dev")
	defaultOrigin := "http://localhost:3000"
	if env == envProduction {
		defaultOrigin = ""
	}


	cfg := Config{
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "carecube-auth"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET_KEY"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET_KEY"),

		AccessTTL:      getEnvDurationOrDefault("AUTH_ACCESS_TTL", time.Hour),
		RefreshTTL:     getEnvDurationOrDefault("AUTH_REFRESH_TTL", 24*time.Hour),
		IdentityRefTTL: getEnvDurationOrDefault("AUTH_IDENTITY_REF_TTL", 24*time.Hour),
		CodeTTL:        getEnvDurationOrDefault("AUTH_CODE_TTL", 15*time.Minute),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  getEnvOrDefault("MONGODB_DATABASE", "care-cube"),

		PepperFile: getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		UploadDir:  getEnvOrDefault("UPLOAD_DIR", "public/photos"),
		CORSOrigin: defaultOrigin,

		SMTP: mail.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvOrDefault("SMTP_FROM", "Care Cube <no-reply@carecube.local>"),
		},
		MailRate:      getEnvIntOrDefault("MAIL_RATE_PER_MINUTE", 60),
		MailQueueSize: getEnvIntOrDefault("MAIL_QUEUE_SIZE", 256),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// An explicitly empty CORS_ORIGIN turns CORS off
	if origin, ok := os.LookupEnv("CORS_ORIGIN"); ok {
		cfg.CORSOrigin = origin
	}

	return cfg
}

// Validate rejects configurations the service can't run with. Missing
// secrets are only an error in production; elsewhere New generates
// throwaway ones.
func (c Config) Validate() error {
	var errs []error

	if c.Production() {
		if c.AccessSecret == "" {
			errs = append(errs, errors.New("JWT_ACCESS_SECRET_KEY is required in production"))
		}
		if c.RefreshSecret == "" {
			errs = append(errs, errors.New("JWT_REFRESH_SECRET_KEY is required in production"))
		}
	}
	if c.AccessSecret != "" && len(c.AccessSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_SECRET_KEY must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.RefreshSecret != "" && len(c.RefreshSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET_KEY must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.IdentityRefTTL <= 0 || c.CodeTTL <= 0 {
		errs = append(errs, errors.New("token, cookie and code lifetimes must be positive"))
	}
	if c.IdentityRefTTL < c.AccessTTL {
		errs = append(errs, errors.New("AUTH_IDENTITY_REF_TTL must not be shorter than AUTH_ACCESS_TTL"))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
