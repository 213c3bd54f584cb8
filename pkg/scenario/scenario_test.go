package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedvet/feedvet/pkg/config"
)

func TestSuite(t *testing.T) {
	scenarios, err := Suite(config.Default())
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name())
		assert.NotEmpty(t, s.Describe())
	}
	assert.Equal(t, []string{"article-view", "stacked-cards", "toolbar"}, names)
}

func TestSuiteWithFixtureOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Fixtures.Dir = t.TempDir() // empty dir, all defaults survive

	scenarios, err := Suite(cfg)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)
}

func TestSelect(t *testing.T) {
	all, err := Suite(config.Default())
	require.NoError(t, err)

	t.Run("empty names selects everything", func(t *testing.T) {
		picked, err := Select(all, nil)
		require.NoError(t, err)
		assert.Len(t, picked, 3)
	})

	t.Run("subset preserves suite order", func(t *testing.T) {
		picked, err := Select(all, []string{"toolbar", "article-view"})
		require.NoError(t, err)
		require.Len(t, picked, 2)
		assert.Equal(t, "article-view", picked[0].Name())
		assert.Equal(t, "toolbar", picked[1].Name())
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		_, err := Select(all, []string{"does-not-exist"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does-not-exist")
	})
}

func TestCtxURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:5173", "/", "http://localhost:5173/"},
		{"http://localhost:5173/", "/feeds", "http://localhost:5173/feeds"},
		{"http://localhost:5173", "/feed/1", "http://localhost:5173/feed/1"},
	}
	for _, tt := range tests {
		c := &Ctx{baseURL: tt.base}
		assert.Equal(t, tt.want, c.URL(tt.path))
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(Options{BaseURL: "http://localhost:5173"})
	assert.Equal(t, 15*time.Second, r.opts.AssertionTimeout)
}
