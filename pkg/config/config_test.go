package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 500, cfg.DesiredCount)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.False(t, cfg.TrimOvershoot)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.WaitTimeout())
	assert.Equal(t, 2*time.Second, cfg.RetryPause())
	assert.Equal(t, 90*time.Second, cfg.PageLoadTimeout())
	assert.Equal(t, 48*time.Hour, cfg.SubmissionDedup())
	assert.Equal(t, "https://www.ulta.com/brand/ulta-beauty-collection", cfg.TargetURL)
	assert.Empty(t, cfg.ProxyURLs)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TARGET_URL", "https://www.ulta.com/brand/it-cosmetics")
	t.Setenv("DESIRED_COUNT", "65")
	t.Setenv("TRIM_OVERSHOOT", "true")
	t.Setenv("WAIT_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.ulta.com/brand/it-cosmetics", cfg.TargetURL)
	assert.Equal(t, 65, cfg.DesiredCount)
	assert.True(t, cfg.TrimOvershoot)
	assert.Equal(t, 5*time.Second, cfg.WaitTimeout())
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestPostgresURL(t *testing.T) {
	cfg := &Config{
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresDB:       "runs",
	}
	assert.Equal(t, "postgres://u:p@db:5433/runs?sslmode=disable", cfg.PostgresURL())
}

func TestLoad_Pools(t *testing.T) {
	t.Setenv("PROXY_URLS", "http://p1:8000,http://p2:8000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://p1:8000", "http://p2:8000"}, cfg.ProxyURLs)
	assert.Equal(t, []string{cfg.UserAgent}, cfg.UserAgentPool())
}

func TestUserAgentPool(t *testing.T) {
	assert.Nil(t, (&Config{}).UserAgentPool())
	assert.Equal(t, []string{"a", "b"}, (&Config{UserAgent: "x", UserAgents: []string{"a", "b"}}).UserAgentPool())
}

func writeDotEnv(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Run("values from file", func(t *testing.T) {
		writeDotEnv(t, "DESIRED_COUNT=120\nOUTPUT_DIR=exports\n")
		t.Setenv("OUTPUT_DIR", "from-env")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.DesiredCount)
		assert.Equal(t, "from-env", cfg.OutputDir)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.DesiredCount)
	})

	t.Run("malformed file", func(t *testing.T) {
		writeDotEnv(t, "DESIRED_COUNT=120\nthis is not a setting\n")

		_, err := Load()
		assert.ErrorContains(t, err, "reading .env")
	})
}
