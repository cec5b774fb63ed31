package readable

import (
	"context"
	"regexp"
)

// SitemapService lists the page URLs a site publishes in its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed by the sitemaps of siteURL's
	// host, declared in robots.txt or found at /sitemap.xml. When siteURL
	// has a path, only URLs below that path are returned. A nil filter
	// keeps every URL.
	DiscoverURLs(ctx context.Context, siteURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern.
type URLFilter struct {
	// Include keeps only URLs matching at least one pattern when set.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. It wins over Include.
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter. A nil filter passes
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, re := range f.Include {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// NewURLFilter compiles include and exclude patterns. Invalid patterns are
// EINVALID errors.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %s", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %s", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
