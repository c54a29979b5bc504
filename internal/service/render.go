package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
	"transferwiki/internal/cache"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const renderTTL = 24 * time.Hour

// Renderer converts raw markdown into sanitized HTML. Rendered output is
// cached under caller-provided keys; keys include the page version, so a
// new version naturally misses the cache and stale entries simply expire.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     *cache.Cache
}

// NewRenderer creates a Renderer backed by the given cache. A nil cache
// disables caching.
func NewRenderer(c *cache.Cache) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		// UGCPolicy allows basic formatting (links, lists, emphasis)
		// while stripping dangerous HTML from user content.
		sanitizer: bluemonday.UGCPolicy(),
		cache:     c,
	}
}

// Render converts markdown to sanitized HTML, consulting the cache first.
func (r *Renderer) Render(key, markdown string) (template.HTML, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(key); err == nil && cached != nil {
			return template.HTML(cached), nil
		}
	}

	html, err := r.RenderUncached(markdown)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		// A failed cache write only costs a re-render next time.
		_ = r.cache.Set(key, []byte(html), renderTTL)
	}
	return html, nil
}

// RenderUncached converts markdown to sanitized HTML without touching the
// cache. Used for short-lived content such as comments and forum replies.
func (r *Renderer) RenderUncached(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}
