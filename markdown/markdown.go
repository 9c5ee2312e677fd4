// Package markdown renders post bodies to sanitized HTML as a templ component.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/eringen/pubcms/frontmatter"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML is passed through and cleaned by the policy below.
			html.WithUnsafe(),
		),
	)

	policy = newPolicy()
	strict = bluemonday.StrictPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "div")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Markdown returns a templ.Component that renders content as HTML.
// A leading frontmatter block is not rendered.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the sanitized HTML representation of content to buf.
func RenderMarkdown(buf *bytes.Buffer, content string) error {
	body := frontmatter.Parse(content).Body
	var raw bytes.Buffer
	if err := md.Convert([]byte(body), &raw); err != nil {
		return err
	}
	buf.Write(policy.SanitizeBytes(raw.Bytes()))
	return nil
}

// Excerpt returns the first max runes of the rendered text of content with
// all markup removed. Whitespace runs are collapsed.
func Excerpt(content string, max int) string {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, content); err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(strict.Sanitize(buf.String())), " ")
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
