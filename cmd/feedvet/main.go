// Package main provides feedvet - UI verification runs for the feed reader
// client against a fully mocked backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/feedvet/feedvet/pkg/config"
	"github.com/feedvet/feedvet/pkg/notify"
	"github.com/feedvet/feedvet/pkg/report"
	"github.com/feedvet/feedvet/pkg/scenario"
)

// opts holds all command-line options.
type opts struct {
	URL       string `short:"u" long:"url" env:"FEEDVET_URL" description:"base URL of the app under test (overrides config)"`
	Config    string `short:"c" long:"config" env:"FEEDVET_CONFIG" description:"path to YAML config file"`
	Screens   string `long:"screens" description:"screenshots directory (overrides config)"`
	Fixtures  string `long:"fixtures" description:"fixture overrides directory (overrides config)"`
	Headed    bool   `long:"headed" description:"run with a visible browser window"`
	TimeoutMs int    `long:"timeout" description:"assertion timeout in milliseconds (overrides config)"`
	Watch     bool   `short:"w" long:"watch" description:"re-run scenarios when fixture files change"`
	Report    string `long:"report" description:"write a markdown run report to this path"`
	List      bool   `short:"l" long:"list" description:"list scenarios and exit"`
	Debug     bool   `long:"dbg" env:"DEBUG" description:"debug mode"`
	NoColor   bool   `long:"no-color" env:"NO_COLOR" description:"disable color output"`
	Version   bool   `short:"V" long:"version" description:"show version info"`

	Args struct {
		Scenarios []string `positional-arg-name:"scenario" description:"scenario names to run (default: all)"`
	} `positional-args:"yes"`
}

var revision = "unknown"

func main() {
	var o opts
	parser := flags.NewParser(&o, flags.Default)
	parser.Usage = "[OPTIONS] [scenario...]"
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if o.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(o.Debug)

	if o.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	cfg, err := loadConfig(o)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	if o.List {
		listScenarios(cfg)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, cfg, o)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// loadConfig loads the YAML config (or defaults) and applies flag overrides.
func loadConfig(o opts) (*config.Config, error) {
	cfg := config.Default()
	if o.Config != "" {
		loaded, err := config.Load(o.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if o.URL != "" {
		cfg.Target.URL = o.URL
	}
	if o.Screens != "" {
		cfg.Screenshots.Dir = o.Screens
	}
	if o.Fixtures != "" {
		cfg.Fixtures.Dir = o.Fixtures
	}
	if o.TimeoutMs > 0 {
		cfg.Waits.AssertionMs = o.TimeoutMs
	}
	if o.Headed {
		cfg.Browser.Headed = true
	}
	return cfg, nil
}

func listScenarios(cfg *config.Config) {
	suite, err := scenario.Suite(cfg)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	for _, s := range suite {
		fmt.Printf("%-16s %s\n", s.Name(), s.Describe())
	}
}

func run(ctx context.Context, cfg *config.Config, o opts) error {
	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}

	runner := scenario.NewRunner(scenario.Options{
		BaseURL:          cfg.Target.URL,
		ScreensDir:       cfg.Screenshots.Dir,
		Headed:           cfg.Browser.Headed,
		SlowMo:           time.Duration(cfg.Browser.SlowMoMs) * time.Millisecond,
		AssertionTimeout: cfg.AssertionTimeout(),
		Debug:            o.Debug,
	})
	if err := runner.Start(); err != nil {
		return err
	}
	defer runner.Close()

	log.Printf("[INFO] feedvet %s, target %s", revision, cfg.Target.URL)
	if err := runner.WaitReachable(ctx, cfg.StartupTimeout()); err != nil {
		return err
	}

	execute := func() (*report.Report, error) {
		// rebuild the suite each pass so fixture overrides are re-read
		suite, err := scenario.Suite(cfg)
		if err != nil {
			return nil, err
		}
		selected, err := scenario.Select(suite, o.Args.Scenarios)
		if err != nil {
			return nil, err
		}

		rep := runner.RunAll(ctx, selected)
		rep.PrintSummary(os.Stdout)

		if o.Report != "" {
			if err := rep.WriteMarkdown(o.Report); err != nil {
				return nil, err
			}
			if rendered, rErr := report.RenderMarkdown(rep.Markdown(), color.NoColor); rErr == nil {
				fmt.Print(rendered)
			}
		}

		sendNotification(ctx, notifier, rep)
		return rep, nil
	}

	if !o.Watch {
		rep, err := execute()
		if err != nil {
			return err
		}
		if !rep.OK() {
			return fmt.Errorf("%d of %d scenarios failed", rep.Failed(), rep.Failed()+rep.Passed())
		}
		return nil
	}

	return watchAndRun(ctx, cfg.Fixtures.Dir, execute)
}

// watchAndRun runs the suite once, then re-runs it whenever a fixture file
// changes, until the context is canceled.
func watchAndRun(ctx context.Context, fixturesDir string, execute func() (*report.Report, error)) error {
	if fixturesDir == "" {
		return errors.New("--watch requires a fixtures directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(fixturesDir); err != nil {
		return fmt.Errorf("watch %s: %w", fixturesDir, err)
	}

	if _, err := execute(); err != nil {
		return err
	}

	log.Printf("[INFO] watching %s for fixture changes", fixturesDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("[INFO] fixtures changed (%s), re-running", event.Name)
			drainEvents(watcher, 500*time.Millisecond) // editors fire bursts of events per save
			if _, err := execute(); err != nil {
				return err
			}
		case wErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", wErr)
		}
	}
}

// drainEvents discards watcher events for the given window.
func drainEvents(watcher *fsnotify.Watcher, window time.Duration) {
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case <-watcher.Events:
		case <-timer.C:
			return
		}
	}
}

func sendNotification(ctx context.Context, notifier *notify.Service, rep *report.Report) {
	res := notify.Result{
		Passed:   rep.Passed(),
		Failed:   rep.Failed(),
		Duration: rep.Duration(),
	}
	for _, r := range rep.Results() {
		if r.Err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("%s: %v", r.Name, r.Err))
		}
	}
	if err := notifier.Send(ctx, res); err != nil {
		log.Printf("[WARN] notification failed: %v", err)
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
