package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:5173", cfg.Target.URL)
	assert.Equal(t, 15*time.Second, cfg.AssertionTimeout())
	assert.Equal(t, 2*time.Second, cfg.SettleDelay())
	assert.Equal(t, time.Second, cfg.CardExpandDelay())
	assert.Equal(t, 30*time.Second, cfg.StartupTimeout())
	assert.Equal(t, "screenshots", cfg.Screenshots.Dir)
	assert.Equal(t, "testuser", cfg.Login.User)
	assert.False(t, cfg.Browser.Headed)
}

func TestLoad(t *testing.T) {
	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := writeConfig(t, `
target:
  url: http://127.0.0.1:4000
waits:
  assertion_ms: 5000
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://127.0.0.1:4000", cfg.Target.URL)
		assert.Equal(t, 5*time.Second, cfg.AssertionTimeout())
		assert.Equal(t, 2*time.Second, cfg.SettleDelay(), "unset value falls back to default")
		assert.Equal(t, "https://fake-nextcloud.com", cfg.Login.ServerURL)
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("FEEDVET_TEST_PASS", "s3cret")
		path := writeConfig(t, `
login:
  password: ${FEEDVET_TEST_PASS}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cfg.Login.Password)
	})

	t.Run("notify section", func(t *testing.T) {
		path := writeConfig(t, `
notify:
  channels: [webhook]
  on_success: true
  webhook_urls:
    - https://hooks.example.com/run
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"webhook"}, cfg.Notify.Channels)
		assert.True(t, cfg.Notify.OnSuccess)
		assert.Equal(t, []string{"https://hooks.example.com/run"}, cfg.Notify.WebhookURLs)
		assert.Equal(t, 10000, cfg.Notify.TimeoutMs)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "target: [not a map")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedvet.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
