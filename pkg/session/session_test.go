package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootstrapperPairs(t *testing.T) {
	b := New("http://localhost:5173", "test", "secret")
	pairs := b.Pairs()

	assert.Equal(t, [][2]string{
		{"isAuthenticated", "true"},
		{"backend-url", "http://localhost:5173"},
		{"backend-login", "test"},
		{"backend-password", "secret"},
	}, pairs)
}

func TestBootstrapperIdempotent(t *testing.T) {
	b := New("http://localhost:5173", "test", "secret")

	// seeding twice must produce the same storage state as seeding once
	store := map[string]string{}
	for i := 0; i < 2; i++ {
		for _, kv := range b.Pairs() {
			store[kv[0]] = kv[1]
		}
	}
	assert.Len(t, store, 4)
	assert.Equal(t, "true", store["isAuthenticated"])
}
