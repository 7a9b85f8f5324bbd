package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustRender(t *testing.T, src string) string {
	t.Helper()
	got, err := Render([]byte(src))
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", src, err)
	}
	return got
}

func TestRenderHeadingsKeepIDs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := mustRender(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"use `fmt.Println` here", "<code>fmt.Println</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		got := mustRender(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := mustRender(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should keep language class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(&#34;hello&#34;)") && !strings.Contains(got, "fmt.Println(&quot;hello&quot;)") {
		t.Errorf("code block should escape its content: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	got := mustRender(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output %q missing %q", got, want)
		}
	}
}

func TestRenderStripsScripts(t *testing.T) {
	got := mustRender(t, "hello\n\n<script>alert(1)</script>\n\n<img src=x onerror=alert(1)>")
	if strings.Contains(got, "<script") || strings.Contains(got, "onerror") {
		t.Errorf("Render must strip active content, got %q", got)
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("Render dropped text: %q", got)
	}
}

func TestRenderDropsJavascriptLinks(t *testing.T) {
	got := mustRender(t, "[click](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("Render must not emit javascript: URLs, got %q", got)
	}
}

func TestExcerptStripsMarkupAndCollapsesSpace(t *testing.T) {
	got := Excerpt("<h1>Title</h1>\n<p>Some   <strong>bold</strong>\ntext &amp; more</p>", 0)
	want := "Title Some bold text & more"
	if got != want {
		t.Errorf("Excerpt = %q, want %q", got, want)
	}
}

func TestExcerptTruncatesOnRunes(t *testing.T) {
	got := Excerpt("<p>ünïcödé text goes here</p>", 7)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("Excerpt should end with ellipsis: %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "…")); n > 7 {
		t.Errorf("Excerpt kept %d runes, want at most 7", n)
	}
	if got != "ünïcödé…" {
		t.Errorf("Excerpt = %q, want %q", got, "ünïcödé…")
	}
}

func TestExcerptShortTextUntouched(t *testing.T) {
	if got := Excerpt("<p>short</p>", ExcerptLength); got != "short" {
		t.Errorf("Excerpt = %q, want %q", got, "short")
	}
}

func TestMarkdownComponentWritesHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("<p>hi</p>").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>hi</p>" {
		t.Errorf("component wrote %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/a/", "/a/"},
		{"#top", "#top"},
		{"https://example.com/x?a=1&b=2", "https://example.com/x?a=1&amp;b=2"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
