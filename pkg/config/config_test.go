package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraperConfigDefaults(t *testing.T) {
	var c ScraperConfig
	assert.Equal(t, 120*time.Second, c.LoginTimeout())
	assert.Equal(t, 5*time.Second, c.SettleDelay())
	assert.Equal(t, 15*time.Second, c.RowsTimeout())
	assert.Equal(t, 300*time.Second, c.OverallTimeout())

	c = ScraperConfig{LoginTimeoutSeconds: 30, SettleDelaySeconds: 1, RowsTimeoutSeconds: 2}
	assert.Equal(t, 30*time.Second, c.LoginTimeout())
	assert.Equal(t, time.Second, c.SettleDelay())
	assert.Equal(t, 2*time.Second, c.RowsTimeout())
}

func TestLoadMergesEnvOverlay(t *testing.T) {
	dir := t.TempDir()

	base := `
server:
  port: "8080"
db:
  host: basehost
  port: 5432
scraper:
  calendar_url: https://example.edu/d2l/le/calendar/1
  headless: false
`
	local := `
db:
  host: localhost
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte(local), 0o644))

	t.Setenv("CONFIG_ENV", "local")

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Overlay wins for fields it sets, base survives for the rest.
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://example.edu/d2l/le/calendar/1", cfg.Scraper.CalendarURL)
}

func TestLoadEnvVarsWin(t *testing.T) {
	dir := t.TempDir()
	base := `
db:
  host: basehost
  port: 5432
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o644))

	t.Setenv("CONFIG_ENV", "base")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("BRIGHTSPACE_CALENDAR_URL", "https://other.edu/calendar")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "envhost", cfg.DB.Host)
	assert.Equal(t, "https://other.edu/calendar", cfg.Scraper.CalendarURL)
}

func TestLoadMissingBaseFails(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SOME_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("SOME_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SOME_MISSING_KEY", "fallback"))
}
