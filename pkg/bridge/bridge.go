// Package bridge stubs the Tauri command layer inside the page so native
// invocations resolve to canned results instead of reaching a real backend.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/feedvet/feedvet/pkg/fixture"
)

// Stub maps Tauri command names to the literal values their invocations
// resolve to. Any command outside the map is rejected in the page with an
// "Unhandled Tauri command" error.
type Stub struct {
	commands map[string]string
}

// NewStub creates an empty Stub.
func NewStub() *Stub {
	return &Stub{commands: make(map[string]string)}
}

// Default returns a Stub covering the reader's two native commands.
func Default() *Stub {
	s := NewStub()
	s.Handle("fetch_article", fixture.MockedArticleBody)
	s.Handle("fetch_raw_html", fixture.ExampleDomainHTML)
	return s
}

// Handle maps a command name to the value its invocation resolves to.
func (s *Stub) Handle(command, result string) {
	s.commands[command] = result
}

// Script renders the init JavaScript installing the stub. The script creates
// window.__TAURI_INTERNALS__ if the page has none and replaces its invoke
// method with a dispatcher over the mapped commands.
func (s *Stub) Script() (string, error) {
	// encode without HTML escaping to keep the fixture markup readable in
	// the generated script; map keys marshal sorted, output is deterministic
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.commands); err != nil {
		return "", fmt.Errorf("marshal bridge handlers: %w", err)
	}
	handlers := strings.TrimRight(buf.String(), "\n")

	js := fmt.Sprintf(`(() => {
  const handlers = %s;
  if (!window.__TAURI_INTERNALS__) {
    window.__TAURI_INTERNALS__ = {};
  }
  window.__TAURI_INTERNALS__.invoke = (cmd, args) => {
    if (Object.prototype.hasOwnProperty.call(handlers, cmd)) {
      return Promise.resolve(handlers[cmd]);
    }
    return Promise.reject("Unhandled Tauri command: " + cmd);
  };
})();`, handlers)
	return js, nil
}

// Install adds the stub as a page init script so it runs before any of the
// application's own scripts. Must be called before navigation; installing
// after first paint loses the ordering guarantee the app's bootstrap needs.
func (s *Stub) Install(page playwright.Page) error {
	js, err := s.Script()
	if err != nil {
		return err
	}
	if err := page.AddInitScript(playwright.Script{Content: playwright.String(js)}); err != nil {
		return fmt.Errorf("install bridge stub: %w", err)
	}
	return nil
}
