package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{"substring match", "apps/news/api/v1-2/folders", "http://localhost:5173/index.php/apps/news/api/v1-2/folders", true},
		{"substring no match", "apps/news/api/v1-2/folders", "http://localhost:5173/index.php/apps/news/api/v1-2/feeds", false},
		{"double star prefix", "**/index.php/apps/news/api/v1-2/feeds", "http://localhost:5173/index.php/apps/news/api/v1-2/feeds", true},
		{"double star suffix", "**/api/v1-3/items**", "http://localhost:5173/index.php/apps/news/api/v1-3/items?type=3&id=0", true},
		{"double star no match", "**/api/v1-3/items**", "http://localhost:5173/index.php/apps/news/api/v1-2/items", false},
		{"question mark is single char", "**/items?type=3&id=0", "http://host/index.php/apps/news/api/v1-2/items?type=3&id=0", true},
		{"single star stays in segment", "http://host/*/feeds", "http://host/api/feeds", true},
		{"single star does not cross slash", "http://host/*/feeds", "http://host/api/v1/feeds", false},
		{"exact with wildcards", "**", "anything at all", true},
		{"star matches empty", "*", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPattern(tt.pattern, tt.url))
		})
	}
}

func TestRouterMatch(t *testing.T) {
	t.Run("first match wins in registration order", func(t *testing.T) {
		r := NewRouter(FallbackAbort)
		r.Handle(Rule{Pattern: "**/items**", Body: []byte("first")})
		r.Handle(Rule{Pattern: "**/items?type=3&id=0", Body: []byte("second")})

		rule, ok := r.Match("http://host/api/items?type=3&id=0")
		require.True(t, ok)
		assert.Equal(t, "first", string(rule.Body))
	})

	t.Run("no rules means no match", func(t *testing.T) {
		r := NewRouter(FallbackContinue)
		_, ok := r.Match("http://host/anything")
		assert.False(t, ok)
	})

	t.Run("default status is 200", func(t *testing.T) {
		r := NewRouter(FallbackAbort)
		r.Handle(Rule{Pattern: "**/ping", Body: []byte("pong")})
		rule, ok := r.Match("http://host/ping")
		require.True(t, ok)
		assert.Equal(t, 200, rule.Status)
	})
}

func TestRouterHandleJSON(t *testing.T) {
	t.Run("body serialized verbatim once", func(t *testing.T) {
		r := NewRouter(FallbackAbort)
		payload := map[string]any{"folders": []map[string]any{{"id": 1, "name": "Test Folder"}}}
		require.NoError(t, r.HandleJSON("**/folders", payload))

		rule, ok := r.Match("http://host/index.php/apps/news/api/v1-2/folders")
		require.True(t, ok)
		assert.JSONEq(t, `{"folders":[{"id":1,"name":"Test Folder"}]}`, string(rule.Body))
		assert.Equal(t, "application/json", rule.ContentType)
		assert.Equal(t, 200, rule.Status)
	})

	t.Run("unmarshalable payload rejected", func(t *testing.T) {
		r := NewRouter(FallbackAbort)
		err := r.HandleJSON("**/bad", make(chan int))
		require.Error(t, err)
	})
}
