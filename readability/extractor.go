// Package readability adapts go-shiori/go-readability to readable.Extractor.
package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/readable"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements readable.Extractor at compile time.
var _ readable.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article found by go-readability.
func (e *Extractor) Extract(rawHTML, pageURL string) (*readable.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readable.Errorf(readable.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil || !parsed.IsAbs() {
			return nil, readable.Errorf(readable.EINVALID, "page URL must be absolute: %q", pageURL)
		}
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, readable.Errorf(readable.ENOCANDIDATE, "readability: %s", err)
	}

	result := &readable.Article{
		Title:       article.Title,
		Content:     article.Content,
		TextContent: article.TextContent,
		Length:      article.Length,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		Lang:        article.Language,
	}
	if article.PublishedTime != nil {
		result.PublishedTime = article.PublishedTime.Format(time.RFC3339)
	}
	return result, nil
}
