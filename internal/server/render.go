package server

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/Zachkp/fluxfolio/internal/site"
)

var (
	markdown = goldmark.New()
	ugc      = bluemonday.UGCPolicy()
)

// renderMarkdown converts model output to sanitized HTML.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes()))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"side":     site.TimelineSide,
		"join":     strings.Join,
		"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
	}
}
