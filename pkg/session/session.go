// Package session seeds the page's persisted storage with authentication
// flags so the app under test skips its interactive login flow.
package session

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// storage keys read by the app's startup logic.
const (
	keyAuthenticated = "isAuthenticated"
	keyBackendURL    = "backend-url"
	keyLogin         = "backend-login"
	keyPassword      = "backend-password"
)

// Bootstrapper writes session flags into localStorage. Seeding is idempotent:
// writing the same keys twice leaves the same authenticated state as once.
type Bootstrapper struct {
	backendURL string
	login      string
	password   string
}

// New creates a Bootstrapper for the given backend identity.
func New(backendURL, login, password string) *Bootstrapper {
	return &Bootstrapper{backendURL: backendURL, login: login, password: password}
}

// Pairs returns the key/value strings in a fixed order.
func (b *Bootstrapper) Pairs() [][2]string {
	return [][2]string{
		{keyAuthenticated, "true"},
		{keyBackendURL, b.backendURL},
		{keyLogin, b.login},
		{keyPassword, b.password},
	}
}

// Seed writes all pairs into the page's localStorage. The page must already
// be on the app's origin; localStorage is scoped per origin.
func (b *Bootstrapper) Seed(page playwright.Page) error {
	for _, kv := range b.Pairs() {
		arg := []any{kv[0], kv[1]}
		if _, err := page.Evaluate("([k, v]) => localStorage.setItem(k, v)", arg); err != nil {
			return fmt.Errorf("seed %s: %w", kv[0], err)
		}
	}
	return nil
}
