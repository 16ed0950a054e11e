package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SAVVY_MODE", "SAVVY_DATA", "SAVVY_DSN", "SAVVY_DRIVER",
		"SAVVY_SERVER_URL", "SAVVY_REQUEST_TIMEOUT", "SAVVY_CACHE_MAX_AGE",
		"SAVVY_REQUESTS_PER_SECOND",
	} {
		t.Setenv(key, "")
	}
}

func TestValidateDefaults(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{Mode: "dev", Data: t.TempDir()}
	p.FromEnv()
	require.NoError(t, p.Validate())

	require.Equal(t, "dev", p.Mode)
	require.Equal(t, "sqlite", p.Driver)
	require.Equal(t, devServerURL, p.ServerURL)
	require.Equal(t, DefaultRequestTimeout, p.RequestTimeout)
	require.Equal(t, DefaultCacheMaxAge, p.CacheMaxAge)
	require.Contains(t, p.DSN, "savvy_dev.db")
}

func TestValidateUnknownModeFallsBackToDev(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{Mode: "staging", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	require.Equal(t, "dev", p.Mode)
}

func TestValidateDemoUsesMemoryDriver(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{Mode: "demo"}
	require.NoError(t, p.Validate())
	require.Equal(t, "memory", p.Driver)
	require.Empty(t, p.DSN)
}

func TestValidateProdServerURL(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{Mode: "prod", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	require.Equal(t, prodServerURL, p.ServerURL)
}

func TestValidateTrimsServerURL(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{Mode: "dev", Data: t.TempDir(), ServerURL: "http://localhost:3001/"}
	require.NoError(t, p.Validate())
	require.Equal(t, "http://localhost:3001", p.ServerURL)
}

func TestFromEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SAVVY_MODE", "demo")
	t.Setenv("SAVVY_SERVER_URL", "http://10.0.2.2:3001")
	t.Setenv("SAVVY_REQUEST_TIMEOUT", "5")
	t.Setenv("SAVVY_CACHE_MAX_AGE", "60")
	t.Setenv("SAVVY_REQUESTS_PER_SECOND", "2.5")

	p := &Profile{}
	p.FromEnv()
	require.NoError(t, p.Validate())

	require.Equal(t, "demo", p.Mode)
	require.Equal(t, "http://10.0.2.2:3001", p.ServerURL)
	require.Equal(t, 5*time.Second, p.RequestTimeout)
	require.Equal(t, time.Minute, p.CacheMaxAge)
	require.Equal(t, 2.5, p.RequestsPerSecond)
}
