package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without config file", func(t *testing.T) {
		cfg, err := loadConfig(opts{})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5173", cfg.Target.URL)
	})

	t.Run("flags override config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feedvet.yml")
		require.NoError(t, os.WriteFile(path, []byte("target:\n  url: http://from-file:1234\n"), 0o600))

		cfg, err := loadConfig(opts{
			Config:    path,
			URL:       "http://from-flag:9999",
			Screens:   "shots",
			TimeoutMs: 7000,
			Headed:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://from-flag:9999", cfg.Target.URL)
		assert.Equal(t, "shots", cfg.Screenshots.Dir)
		assert.Equal(t, 7000, cfg.Waits.AssertionMs)
		assert.True(t, cfg.Browser.Headed)
	})

	t.Run("missing config file errors", func(t *testing.T) {
		_, err := loadConfig(opts{Config: filepath.Join(t.TempDir(), "nope.yml")})
		require.Error(t, err)
	})
}
