package view

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal renders the markdown shell for a terminal of the given width
func (s *Shell) RenderTerminal(data Data, width int) (string, error) {
	markdown, err := s.RenderMarkdown(data)
	if err != nil {
		return "", err
	}

	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
