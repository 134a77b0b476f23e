package report

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// goldmark without html.WithUnsafe drops raw HTML from the source.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// Narrative renders backend prose (image recommendations and warnings) from Markdown.
func Narrative(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}
