// Package mock intercepts the page's outgoing requests and resolves matched
// ones with canned responses so no scenario ever touches a real backend.
package mock

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// FallbackMode controls what happens to requests no rule matches.
type FallbackMode int

// Fallback modes for unmatched requests.
const (
	// FallbackAbort fails unmatched requests at the network layer.
	FallbackAbort FallbackMode = iota
	// FallbackContinue forwards unmatched requests to the real network.
	FallbackContinue
)

// Rule pairs a URL pattern with the synthetic response it resolves to.
// Patterns without wildcards match as substrings of the request URL; patterns
// with `*` (within a path segment), `**` (across segments) or `?` (single
// character) match against the full URL.
type Rule struct {
	Pattern     string
	Status      int
	ContentType string
	Body        []byte
}

// Router holds an ordered list of rules evaluated first-match-wins.
type Router struct {
	rules    []Rule
	fallback FallbackMode
}

// NewRouter creates a Router with the given fallback behavior.
func NewRouter(fallback FallbackMode) *Router {
	return &Router{fallback: fallback}
}

// Handle registers a rule. Registration order is evaluation order.
func (r *Router) Handle(rule Rule) {
	if rule.Status == 0 {
		rule.Status = 200
	}
	r.rules = append(r.rules, rule)
}

// HandleJSON registers a rule serving v as a JSON body with status 200.
// The payload is serialized once at registration, so every matched request
// receives the same bytes verbatim.
func (r *Router) HandleJSON(pattern string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal fixture for %s: %w", pattern, err)
	}
	r.Handle(Rule{Pattern: pattern, Status: 200, ContentType: "application/json", Body: body})
	return nil
}

// Match returns the first rule matching url, in registration order.
func (r *Router) Match(url string) (Rule, bool) {
	for _, rule := range r.rules {
		if MatchPattern(rule.Pattern, url) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Install registers a single catch-all route on the page that dispatches
// through the router. Must be called before navigation.
func (r *Router) Install(page playwright.Page) error {
	if err := page.Route("**/*", r.handle); err != nil {
		return fmt.Errorf("install route interceptor: %w", err)
	}
	return nil
}

// InstallContext registers the catch-all route on a browser context so it
// applies to every page in the context.
func (r *Router) InstallContext(ctx playwright.BrowserContext) error {
	if err := ctx.Route("**/*", r.handle); err != nil {
		return fmt.Errorf("install context route interceptor: %w", err)
	}
	return nil
}

func (r *Router) handle(route playwright.Route) {
	url := route.Request().URL()
	rule, ok := r.Match(url)
	if !ok {
		if r.fallback == FallbackContinue {
			if err := route.Continue(); err != nil {
				log.Printf("[WARN] continue %s: %v", url, err)
			}
			return
		}
		log.Printf("[DEBUG] mock mismatch, aborting %s", url)
		if err := route.Abort(); err != nil {
			log.Printf("[WARN] abort %s: %v", url, err)
		}
		return
	}

	log.Printf("[DEBUG] %s fulfilled by %q", url, rule.Pattern)
	err := route.Fulfill(playwright.RouteFulfillOptions{
		Status:      playwright.Int(rule.Status),
		ContentType: playwright.String(rule.ContentType),
		Body:        rule.Body,
	})
	if err != nil {
		log.Printf("[WARN] fulfill %s: %v", url, err)
	}
}

// MatchPattern reports whether url matches pattern. A pattern without
// wildcards is a substring match; otherwise `**` matches any run of
// characters, `*` any run within one path segment and `?` a single character.
func MatchPattern(pattern, url string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(url, pattern)
	}
	return matchGlob(pattern, url)
}

func matchGlob(p, s string) bool {
	if p == "" {
		return s == ""
	}
	if strings.HasPrefix(p, "**") {
		rest := strings.TrimPrefix(p, "**")
		for i := 0; i <= len(s); i++ {
			if matchGlob(rest, s[i:]) {
				return true
			}
		}
		return false
	}
	switch p[0] {
	case '*':
		rest := p[1:]
		for i := 0; ; i++ {
			if matchGlob(rest, s[i:]) {
				return true
			}
			if i >= len(s) || s[i] == '/' {
				return false
			}
		}
	case '?':
		return s != "" && matchGlob(p[1:], s[1:])
	default:
		return s != "" && s[0] == p[0] && matchGlob(p[1:], s[1:])
	}
}
