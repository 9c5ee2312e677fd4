package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, input); err != nil {
		t.Fatalf("RenderMarkdown(%q) failed: %v", input, err)
	}
	return buf.String()
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := strings.TrimSpace(render(t, tt.input))
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownSkipsFrontmatter(t *testing.T) {
	got := render(t, "---\ntitle: Hidden\n---\nVisible body")
	if strings.Contains(got, "Hidden") || strings.Contains(got, "title:") {
		t.Errorf("frontmatter leaked into output: %q", got)
	}
	if !strings.Contains(got, "<p>Visible body</p>") {
		t.Errorf("body missing: %q", got)
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should keep language-go class: %q", got)
	}
	if !strings.Contains(got, "<pre>") {
		t.Errorf("code block should be preformatted: %q", got)
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	got := render(t, "- item 1\n- item 2\n\n1. first\n2. second")
	for _, want := range []string{"<ul>", "<li>item 1</li>", "<ol>", "<li>second</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		absent  string
		present string
	}{
		{"script tag", "hello <script>alert(1)</script>", "<script", "hello"},
		{"javascript link", "[x](javascript:alert(1))", "javascript:", "x"},
		{"event handler", `<img src="/a.png" onerror="alert(1)">`, "onerror", `src="/a.png"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.input)
			if strings.Contains(got, tt.absent) {
				t.Errorf("output contains %q: %q", tt.absent, got)
			}
			if !strings.Contains(got, tt.present) {
				t.Errorf("output missing %q: %q", tt.present, got)
			}
		})
	}
}

func TestRenderMarkdownLinksAreNofollow(t *testing.T) {
	got := render(t, "[Go](https://go.dev)")
	if !strings.Contains(got, `href="https://go.dev"`) || !strings.Contains(got, "nofollow") {
		t.Errorf("link should be kept with rel nofollow: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("**bold**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<strong>bold</strong>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestExcerpt(t *testing.T) {
	content := "---\ntitle: T\n---\n# Title\n\nSome **bold**   text\nacross lines."
	if got := Excerpt(content, 0); got != "Title Some bold text across lines." {
		t.Errorf("Excerpt = %q", got)
	}
	if got := Excerpt(content, 10); got != "Title Some…" {
		t.Errorf("Excerpt(10) = %q, want %q", got, "Title Some…")
	}
}
