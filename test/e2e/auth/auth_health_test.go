package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies liveness, readiness and the root route.
func TestHealthEndpoints(t *testing.T) {
	c := setupAuthContainer(t, nil)
	client := c.newClient(t)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Mail)

	resp, err := http.Get(c.BaseURL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Logf("Health endpoints are healthy (uptime %s)", health.Uptime)
}
