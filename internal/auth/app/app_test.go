package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:               "carecube-auth",
		AccessTTL:            time.Hour,
		RefreshTTL:           24 * time.Hour,
		IdentityRefTTL:       24 * time.Hour,
		CodeTTL:              15 * time.Minute,
		DatabaseDriver:       DriverSQLite,
		DatabaseFile:         filepath.Join(dir, "auth.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		UploadDir:            dir,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNewWiresApplication(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	// Dev secrets were generated and differ.
	require.NotEmpty(t, app.cfg.AccessSecret)
	require.NotEqual(t, app.cfg.AccessSecret, app.cfg.RefreshSecret)

	app.mailer.Start()
	t.Cleanup(app.mailer.Stop)

	body, err := json.Marshal(authsdk.SignUpRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users/sign-up", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "redis"

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}
