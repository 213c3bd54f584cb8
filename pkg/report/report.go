// Package report collects per-scenario results and renders run summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Name        string
	Err         error
	Duration    time.Duration
	Screenshots []string // paths of captured screenshots
}

// Passed reports whether the scenario completed its whole script.
func (r Result) Passed() bool { return r.Err == nil }

// Report aggregates results for one harness run.
type Report struct {
	results []Result
	started time.Time
}

// summary colors.
var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.FgWhite)
)

// New creates an empty Report stamped with the current time.
func New() *Report {
	return &Report{started: time.Now()}
}

// Add appends a scenario result.
func (r *Report) Add(res Result) {
	r.results = append(r.results, res)
}

// Results returns results in run order.
func (r *Report) Results() []Result {
	return r.results
}

// Passed returns the number of passing scenarios.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.results {
		if res.Passed() {
			n++
		}
	}
	return n
}

// Failed returns the number of failing scenarios.
func (r *Report) Failed() int {
	return len(r.results) - r.Passed()
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Duration returns the elapsed time since the report was created.
func (r *Report) Duration() time.Duration {
	return time.Since(r.started).Round(time.Millisecond)
}

// PrintSummary writes a colored per-scenario summary to w.
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	for _, res := range r.results {
		mark := passColor.Sprint("✓")
		if !res.Passed() {
			mark = failColor.Sprint("✗")
		}
		fmt.Fprintf(w, " %s %-16s %s\n", mark, res.Name, dimColor.Sprint(res.Duration.Round(time.Millisecond)))
		if res.Err != nil {
			fmt.Fprintf(w, "   %s\n", failColor.Sprint(res.Err))
		}
		for _, shot := range res.Screenshots {
			fmt.Fprintf(w, "   %s\n", dimColor.Sprint(shot))
		}
	}
	fmt.Fprintf(w, "\n %d passed, %d failed in %s\n", r.Passed(), r.Failed(), r.Duration())
}

// Markdown renders the run as a markdown report.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Verification Run\n\n")
	fmt.Fprintf(&b, "Started: %s\n\n", r.started.Format("2006-01-02 15:04:05"))

	b.WriteString("| scenario | result | duration |\n")
	b.WriteString("|---|---|---|\n")
	for _, res := range r.results {
		status := "pass"
		if !res.Passed() {
			status = fmt.Sprintf("fail: %v", res.Err)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", res.Name, status, res.Duration.Round(time.Millisecond))
	}

	var shots []string
	for _, res := range r.results {
		shots = append(shots, res.Screenshots...)
	}
	if len(shots) > 0 {
		b.WriteString("\n## Screenshots\n\n")
		for _, shot := range shots {
			fmt.Fprintf(&b, "- `%s`\n", shot)
		}
	}

	fmt.Fprintf(&b, "\n**%d passed, %d failed** in %s\n", r.Passed(), r.Failed(), r.Duration())
	return b.String()
}

// WriteMarkdown writes the markdown report to path, creating parent dirs.
func (r *Report) WriteMarkdown(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
