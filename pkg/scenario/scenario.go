// Package scenario drives the app under test through headless Chromium.
// Each scenario is a fixed linear script of navigation, interaction and
// assertion steps; a run owns its browser context exclusively and releases
// it on every exit path.
package scenario

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/playwright-community/playwright-go"

	"github.com/feedvet/feedvet/pkg/config"
	"github.com/feedvet/feedvet/pkg/fixture"
	"github.com/feedvet/feedvet/pkg/report"
)

// Scenario is one verification script.
type Scenario interface {
	Name() string
	Describe() string
	Run(c *Ctx) error
}

// Options holds browser and driver settings for a Runner.
type Options struct {
	BaseURL          string
	ScreensDir       string
	Headed           bool          // run with a visible browser window
	SlowMo           time.Duration // per-action delay when headed, for observation
	AssertionTimeout time.Duration
	Debug            bool // log page console output
}

// Runner owns the playwright and browser lifecycle for a whole run.
// One page is active per scenario; scenarios never run in parallel.
type Runner struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewRunner creates a Runner; call Start before running scenarios and Close
// when done.
func NewRunner(opts Options) *Runner {
	if opts.AssertionTimeout == 0 {
		opts.AssertionTimeout = 15 * time.Second
	}
	return &Runner{opts: opts}
}

// Start installs the browser if needed and launches Chromium.
func (r *Runner) Start() error {
	err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	if err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}

	r.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("run playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!r.opts.Headed),
	}
	if r.opts.Headed && r.opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(r.opts.SlowMo.Milliseconds()))
	}

	r.browser, err = r.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	return nil
}

// Close releases the browser and the playwright driver.
func (r *Runner) Close() {
	if r.browser != nil {
		_ = r.browser.Close()
	}
	if r.pw != nil {
		_ = r.pw.Stop()
	}
}

// WaitReachable polls the base URL with backoff until the app responds or
// the timeout elapses. The dev server is often still starting when the
// harness launches.
func (r *Runner) WaitReachable(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: time.Second}
	retrier := repeater.NewBackoff(30, 200*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err := retrier.Do(waitCtx, func() error {
		resp, err := client.Get(r.opts.BaseURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("app responded with %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("app at %s not reachable within %s: %w", r.opts.BaseURL, timeout, err)
	}
	return nil
}

// Run executes one scenario in a fresh browser context (isolated cookies and
// storage) and returns its result. The context and page are closed on every
// exit path, success or failure.
func (r *Runner) Run(s Scenario) report.Result {
	start := time.Now()
	res := report.Result{Name: s.Name()}

	bctx, err := r.browser.NewContext()
	if err != nil {
		res.Err = fmt.Errorf("create browser context: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	defer func() { _ = bctx.Close() }()

	page, err := bctx.NewPage()
	if err != nil {
		res.Err = fmt.Errorf("create page: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	defer func() { _ = page.Close() }()

	if r.opts.Debug {
		page.OnConsole(func(msg playwright.ConsoleMessage) {
			log.Printf("[DEBUG] page console: %s", msg.Text())
		})
	}

	c := &Ctx{
		page:     page,
		baseURL:  r.opts.BaseURL,
		shotsDir: r.opts.ScreensDir,
		timeout:  r.opts.AssertionTimeout,
	}

	res.Err = s.Run(c)
	res.Screenshots = c.shots
	res.Duration = time.Since(start)
	return res
}

// RunAll executes scenarios in order, stopping early only when ctx is
// canceled. A failing scenario does not stop the run; its failure lands in
// the report.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) *report.Report {
	rep := report.New()
	for _, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		log.Printf("[INFO] running scenario %s", s.Name())
		res := r.Run(s)
		if res.Err != nil {
			log.Printf("[WARN] scenario %s failed: %v", s.Name(), res.Err)
		} else {
			log.Printf("[INFO] scenario %s passed in %s", s.Name(), res.Duration.Round(time.Millisecond))
		}
		rep.Add(res)
	}
	return rep
}

// Suite builds all scenarios from the configuration, applying fixture
// overrides from the configured directory when one is set.
func Suite(cfg *config.Config) ([]Scenario, error) {
	load := func(base fixture.Set) (fixture.Set, error) {
		if cfg.Fixtures.Dir == "" {
			return base, nil
		}
		return fixture.LoadDir(cfg.Fixtures.Dir, base)
	}

	article, err := load(fixture.ArticleViewSet())
	if err != nil {
		return nil, err
	}
	stacked, err := load(fixture.StackedCardsSet())
	if err != nil {
		return nil, err
	}
	toolbar, err := load(fixture.ToolbarSet())
	if err != nil {
		return nil, err
	}

	return []Scenario{
		NewArticleView(cfg, article),
		NewStackedCards(cfg, stacked),
		NewToolbar(cfg, toolbar),
	}, nil
}

// Select filters scenarios by name, preserving suite order. An empty names
// list selects everything.
func Select(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}

	var picked []Scenario
	for _, s := range all {
		if want[s.Name()] {
			picked = append(picked, s)
			delete(want, s.Name())
		}
	}
	for name := range want {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return picked, nil
}
