// Package trafilatura adapts markusmobius/go-trafilatura to readable.Extractor.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readable.Extractor at compile time.
var _ readable.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML, pageURL string) (*readable.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readable.Errorf(readable.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil || !u.IsAbs() {
			return nil, readable.Errorf(readable.EINVALID, "page URL must be absolute: %q", pageURL)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, readable.Errorf(readable.ENOCANDIDATE, "trafilatura: %s", err)
	}

	var content string
	if result.ContentNode != nil {
		content, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	article := &readable.Article{
		Title:       meta.Title,
		Content:     content,
		TextContent: result.ContentText,
		Length:      utf8.RuneCountInString(result.ContentText),
		Byline:      meta.Author,
		Excerpt:     meta.Description,
		SiteName:    meta.Sitename,
		Lang:        meta.Language,
	}
	if !meta.Date.IsZero() {
		article.PublishedTime = meta.Date.Format(time.RFC3339)
	}
	return article, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
