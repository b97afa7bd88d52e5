package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"FORECAST_CONFIG", "FORECAST_URL", "HTTP_TIMEOUT", "PORT", "REFRESH_INTERVAL",
		"STORE_MAX_HISTORY", "STORE_MAX_AGE", "REFRESH_RATE_LIMIT", "REFRESH_BURST",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultForecastURL, cfg.ForecastURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 96, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, 0.2, cfg.RefreshRateLimit)
	assert.Equal(t, 1, cfg.RefreshBurst)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("FORECAST_URL", "http://localhost:9000/forecast")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("STORE_MAX_HISTORY", "5")
	t.Setenv("REFRESH_RATE_LIMIT", "1.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/forecast", cfg.ForecastURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.StoreMaxHistory)
	assert.Equal(t, 1.5, cfg.RefreshRateLimit)
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "forecast.yaml")
	content := `
forecast_url: "https://example.com/forecast"
http_timeout: "4s"
refresh_interval: "1h"
store_max_history: 12
refresh_burst: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("FORECAST_CONFIG", path)
	t.Setenv("HTTP_TIMEOUT", "7s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/forecast", cfg.ForecastURL)
	assert.Equal(t, 7*time.Second, cfg.HTTPTimeout, "environment wins over file")
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 12, cfg.StoreMaxHistory)
	assert.Equal(t, 3, cfg.RefreshBurst)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":        {"HTTP_TIMEOUT": "soon"},
		"zero timeout":        {"HTTP_TIMEOUT": "0s"},
		"bad scheme":          {"FORECAST_URL": "ftp://example.com"},
		"missing host":        {"FORECAST_URL": "http://"},
		"bad rate limit":      {"REFRESH_RATE_LIMIT": "fast"},
		"zero rate limit":     {"REFRESH_RATE_LIMIT": "0"},
		"negative rate limit": {"REFRESH_RATE_LIMIT": "-1"},
		"zero burst":          {"REFRESH_BURST": "0"},
		"missing file":        {"FORECAST_CONFIG": "/does/not/exist.yaml"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
