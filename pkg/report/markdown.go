package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown content for terminal display.
// If noColor is true, returns the content unchanged.
func RenderMarkdown(content string, noColor bool) (string, error) {
	if noColor {
		return content, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return result, nil
}
