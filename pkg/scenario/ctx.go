package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Ctx wraps the page exclusively owned by one scenario run and provides the
// step and assertion helpers scenarios are written in. The first failing
// step aborts the scenario; there is no soft-assertion mode.
type Ctx struct {
	page     playwright.Page
	baseURL  string
	shotsDir string
	timeout  time.Duration // assertion timeout
	shots    []string      // screenshot paths in capture order
}

// Page exposes the underlying page for interceptor and stub installation.
func (c *Ctx) Page() playwright.Page { return c.page }

// BaseURL returns the base URL of the app under test.
func (c *Ctx) BaseURL() string { return c.baseURL }

// URL joins path onto the base URL.
func (c *Ctx) URL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + path
}

// Goto navigates to path relative to the base URL.
func (c *Ctx) Goto(path string) error {
	if _, err := c.page.Goto(c.URL(path)); err != nil {
		return fmt.Errorf("goto %s: %w", path, err)
	}
	return nil
}

// WaitURL waits until the page URL equals path relative to the base URL.
func (c *Ctx) WaitURL(path string) error {
	err := c.page.WaitForURL(c.URL(path), playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(c.timeoutMs()),
	})
	if err != nil {
		return fmt.Errorf("wait for url %s: %w", path, err)
	}
	return nil
}

// WaitSelector waits until selector is present in the DOM.
func (c *Ctx) WaitSelector(selector string) error {
	_, err := c.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(c.timeoutMs()),
	})
	if err != nil {
		return fmt.Errorf("wait for selector %s: %w", selector, err)
	}
	return nil
}

// Sleep suspends the scenario for a fixed delay through the page's own
// clock. Used only where the app gives no condition to wait on (animations,
// style application).
func (c *Ctx) Sleep(d time.Duration) {
	c.page.WaitForTimeout(float64(d.Milliseconds()))
}

// FillLabel fills the form control associated with a label.
func (c *Ctx) FillLabel(label, value string) error {
	if err := c.page.GetByLabel(label).Fill(value); err != nil {
		return fmt.Errorf("fill %q: %w", label, err)
	}
	return nil
}

// ClickButton clicks the button with the given accessible name.
func (c *Ctx) ClickButton(name string) error {
	err := c.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: name}).Click()
	if err != nil {
		return fmt.Errorf("click button %q: %w", name, err)
	}
	return nil
}

// ClickText clicks the first element containing the given text.
func (c *Ctx) ClickText(text string) error {
	if err := c.page.GetByText(text).First().Click(); err != nil {
		return fmt.Errorf("click text %q: %w", text, err)
	}
	return nil
}

// ClickFirst clicks the first element matching selector.
func (c *Ctx) ClickFirst(selector string) error {
	if err := c.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// HasSelector reports whether any element currently matches selector.
// Unlike the waits this does not poll; it samples the DOM once.
func (c *Ctx) HasSelector(selector string) (bool, error) {
	count, err := c.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("query %s: %w", selector, err)
	}
	return count > 0, nil
}

// Screenshot captures the page into <shots-dir>/<name>.png and records the
// path as a run artifact.
func (c *Ctx) Screenshot(name string) error {
	if err := os.MkdirAll(c.shotsDir, 0o750); err != nil {
		return fmt.Errorf("create screenshots dir: %w", err)
	}
	path := filepath.Join(c.shotsDir, name+".png")
	if _, err := c.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("screenshot %s: %w", name, err)
	}
	c.shots = append(c.shots, path)
	return nil
}

// ExpectVisible waits until the first element matching selector is visible,
// failing with a descriptive timeout error otherwise.
func (c *Ctx) ExpectVisible(selector string) error {
	return c.expectVisible(c.page.Locator(selector).First(), selector)
}

// ExpectTextVisible waits until an element containing text is visible.
func (c *Ctx) ExpectTextVisible(text string) error {
	return c.expectVisible(c.page.GetByText(text).First(), fmt.Sprintf("text %q", text))
}

// ExpectFrameVisible waits until selector is visible inside the frame
// matched by frameSelector.
func (c *Ctx) ExpectFrameVisible(frameSelector, selector string) error {
	loc := c.page.FrameLocator(frameSelector).Locator(selector)
	return c.expectVisible(loc, fmt.Sprintf("%s in frame %s", selector, frameSelector))
}

func (c *Ctx) expectVisible(loc playwright.Locator, desc string) error {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(c.timeoutMs()),
	})
	if err != nil {
		return fmt.Errorf("%s not visible within %s: %w", desc, c.timeout, err)
	}
	return nil
}

func (c *Ctx) timeoutMs() float64 {
	return float64(c.timeout / time.Millisecond)
}
