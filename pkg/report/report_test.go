package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCounts(t *testing.T) {
	r := New()
	r.Add(Result{Name: "article-view", Duration: time.Second})
	r.Add(Result{Name: "toolbar", Err: errors.New(".prose not visible within 15s")})
	r.Add(Result{Name: "stacked-cards", Duration: 2 * time.Second})

	assert.Equal(t, 2, r.Passed())
	assert.Equal(t, 1, r.Failed())
	assert.False(t, r.OK())
}

func TestPrintSummary(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	r := New()
	r.Add(Result{Name: "article-view", Duration: 1200 * time.Millisecond, Screenshots: []string{"screenshots/verification.png"}})
	r.Add(Result{Name: "toolbar", Err: errors.New("assertion timeout")})

	var buf strings.Builder
	r.PrintSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "✓ article-view")
	assert.Contains(t, out, "✗ toolbar")
	assert.Contains(t, out, "assertion timeout")
	assert.Contains(t, out, "screenshots/verification.png")
	assert.Contains(t, out, "1 passed, 1 failed")
}

func TestMarkdown(t *testing.T) {
	r := New()
	r.Add(Result{Name: "stacked-cards", Duration: time.Second, Screenshots: []string{"screenshots/expanded_view.png"}})

	md := r.Markdown()
	assert.Contains(t, md, "# Verification Run")
	assert.Contains(t, md, "| stacked-cards | pass |")
	assert.Contains(t, md, "`screenshots/expanded_view.png`")
	assert.Contains(t, md, "**1 passed, 0 failed**")
}

func TestRenderMarkdown(t *testing.T) {
	t.Run("with color renders through glamour", func(t *testing.T) {
		content := "# Run\n\nall **good**"
		out, err := RenderMarkdown(content, false)
		require.NoError(t, err)
		assert.NotEqual(t, content, out)
		assert.Contains(t, out, "Run")
	})

	t.Run("noColor returns content unchanged", func(t *testing.T) {
		content := "# Run\n\nall **good**"
		out, err := RenderMarkdown(content, true)
		require.NoError(t, err)
		assert.Equal(t, content, out)
	})
}

func TestWriteMarkdown(t *testing.T) {
	r := New()
	r.Add(Result{Name: "article-view"})

	path := t.TempDir() + "/out/report.md"
	require.NoError(t, r.WriteMarkdown(path))

	// round trip through the file
	md := r.Markdown()
	assert.Contains(t, md, "article-view")
}
