// Package view renders the page shell: intro, setup, demo and footer regions in
// fixed order with a separator between each.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"dappshell/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Region names a child region of the shell
type Region string

const (
	RegionIntro  Region = "intro"
	RegionSetup  Region = "setup"
	RegionDemo   Region = "demo"
	RegionFooter Region = "footer"
)

// Regions returns the regions in render order
func Regions() []Region {
	return []Region{RegionIntro, RegionSetup, RegionDemo, RegionFooter}
}

// MarkdownSeparator separates regions in the markdown rendering
const MarkdownSeparator = "\n\n---\n\n"

// Data is what the regions are rendered from
type Data struct {
	Title     string
	RPCURL    string
	ChainKind string
	State     models.StateView
	Latest    *models.ProbeOutcome
}

// Shell holds the parsed region templates
type Shell struct {
	html     *template.Template
	markdown *texttemplate.Template
}

// NewShell parses the embedded templates
func NewShell() (*Shell, error) {
	html, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	markdown, err := texttemplate.ParseFS(templatesFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown templates: %w", err)
	}
	return &Shell{html: html, markdown: markdown}, nil
}

type shellPage struct {
	Title   string
	Regions []template.HTML
}

// RenderHTML writes the full page
func (s *Shell) RenderHTML(w io.Writer, data Data) error {
	page := shellPage{Title: data.Title}
	if page.Title == "" {
		page.Title = "Voting dApp"
	}

	for _, region := range Regions() {
		var buf bytes.Buffer
		if err := s.html.ExecuteTemplate(&buf, string(region)+".html", data); err != nil {
			return fmt.Errorf("failed to render %s: %w", region, err)
		}
		// Region templates are html/template output, already escaped
		page.Regions = append(page.Regions, template.HTML(buf.String()))
	}

	if err := s.html.ExecuteTemplate(w, "shell.html", page); err != nil {
		return fmt.Errorf("failed to render shell: %w", err)
	}
	return nil
}

// RenderMarkdown returns the regions as markdown joined by MarkdownSeparator
func (s *Shell) RenderMarkdown(data Data) (string, error) {
	parts := make([]string, 0, len(Regions()))
	for _, region := range Regions() {
		var buf bytes.Buffer
		if err := s.markdown.ExecuteTemplate(&buf, string(region)+".md", data); err != nil {
			return "", fmt.Errorf("failed to render %s: %w", region, err)
		}
		parts = append(parts, strings.TrimSpace(buf.String()))
	}
	return strings.Join(parts, MarkdownSeparator) + "\n", nil
}
