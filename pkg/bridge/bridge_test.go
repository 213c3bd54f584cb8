package bridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedvet/feedvet/pkg/fixture"
)

func TestStubScript(t *testing.T) {
	t.Run("default commands present", func(t *testing.T) {
		js, err := Default().Script()
		require.NoError(t, err)
		assert.Contains(t, js, `"fetch_article"`)
		assert.Contains(t, js, `"fetch_raw_html"`)
		assert.Contains(t, js, fixture.MockedArticleBody)
		assert.Contains(t, js, "Example Domain")
	})

	t.Run("unhandled commands rejected", func(t *testing.T) {
		js, err := NewStub().Script()
		require.NoError(t, err)
		assert.Contains(t, js, `Promise.reject("Unhandled Tauri command: " + cmd)`)
	})

	t.Run("creates internals object when absent", func(t *testing.T) {
		js, err := Default().Script()
		require.NoError(t, err)
		assert.Contains(t, js, "if (!window.__TAURI_INTERNALS__)")
		assert.Contains(t, js, "window.__TAURI_INTERNALS__.invoke =")
	})

	t.Run("results are json escaped", func(t *testing.T) {
		s := NewStub()
		s.Handle("fetch_article", `<p>say "hi"</p>`)
		js, err := s.Script()
		require.NoError(t, err)
		assert.Contains(t, js, `\"hi\"`)
		assert.False(t, strings.Contains(js, `"say "hi""`), "quotes must not break the object literal")
	})

	t.Run("deterministic output", func(t *testing.T) {
		a, err := Default().Script()
		require.NoError(t, err)
		b, err := Default().Script()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
