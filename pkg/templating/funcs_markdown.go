package templating

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// newMarkdown builds the goldmark converter for config.
func newMarkdown(config *TemplateConfig) goldmark.Markdown {
	var rendererOpts []renderer.Option
	if config.MarkdownUnsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// renderMarkdown converts GitHub flavored markdown to HTML.
// It runs inside template execution, which already holds the read lock.
func (tm *TemplateManager) renderMarkdown(src string) (template.HTML, error) {
	if !tm.config.MarkdownEnabled {
		return template.HTML(template.HTMLEscapeString(src)), nil
	}
	var buf bytes.Buffer
	if err := tm.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return template.HTML(buf.String()), nil
}
