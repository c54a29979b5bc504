//go:build unit

package service

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer(nil)

	html, err := r.RenderUncached("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("RenderUncached failed: %v", err)
	}
	s := string(html)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "<strong>bold</strong>") {
		t.Errorf("unexpected rendering: %q", s)
	}
}

func TestRenderSanitizesHTML(t *testing.T) {
	r := NewRenderer(nil)

	html, err := r.RenderUncached("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("RenderUncached failed: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
}

func TestRenderGFMTables(t *testing.T) {
	r := NewRenderer(nil)

	html, err := r.RenderUncached("| A | B |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("RenderUncached failed: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Errorf("expected a GFM table, got %q", html)
	}
}
