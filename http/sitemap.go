package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/readable"
)

// DefaultMaxSitemaps bounds the sitemap files read for one site.
const DefaultMaxSitemaps = 100

// Ensure SitemapService implements readable.SitemapService.
var _ readable.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from sitemaps over HTTP.
type SitemapService struct {
	client      *http.Client
	userAgent   string
	maxSitemaps int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxSitemaps: DefaultMaxSitemaps,
	}
}

// DiscoverURLs returns the unique page URLs of siteURL's sitemaps in the
// order they are listed. Sitemap indexes are followed breadth first.
// A site without sitemaps yields an empty, non-nil slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *readable.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	site, err := url.Parse(siteURL)
	if err != nil || !site.IsAbs() {
		return nil, readable.Errorf(readable.EINVALID, "invalid site URL: %q", siteURL)
	}
	prefix := pathPrefix(site.Path)

	queue, err := s.sitemapLocations(ctx, site)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenURLs := make(map[string]bool)
	seenSitemaps := make(map[string]bool)
	for len(queue) > 0 && len(seenSitemaps) < s.maxSitemaps {
		loc := queue[0]
		queue = queue[1:]
		if seenSitemaps[loc] {
			continue
		}
		seenSitemaps[loc] = true

		pages, children, err := s.readSitemap(ctx, loc)
		if err != nil {
			return nil, err
		}
		queue = append(queue, children...)

		for _, u := range pages {
			if seenURLs[u] || !underPrefix(u, prefix) || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// pathPrefix normalizes a site path to a directory prefix; the root yields
// no prefix.
func pathPrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// underPrefix reports whether rawURL's path lies below prefix, respecting
// segment boundaries: /docs matches /docs/ and /docs/intro, not /documents.
func underPrefix(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path+"/", prefix)
}

// sitemapLocations reads the Sitemap directives of robots.txt, falling back
// to /sitemap.xml when there are none.
func (s *SitemapService) sitemapLocations(ctx context.Context, site *url.URL) ([]string, error) {
	root := &url.URL{Scheme: site.Scheme, Host: site.Host}

	body, err := s.get(ctx, root.JoinPath("robots.txt").String())
	if err == nil {
		defer body.Close()
		var locs []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			name, value, ok := strings.Cut(line, ":")
			if ok && strings.EqualFold(strings.TrimSpace(name), "sitemap") {
				if loc := strings.TrimSpace(value); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.JoinPath("sitemap.xml").String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

// readSitemap returns the page URLs of a urlset, or the child sitemaps of
// a sitemapindex.
func (s *SitemapService) readSitemap(ctx context.Context, loc string) (pages, children []string, err error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, nil, fmt.Errorf("decompressing sitemap %s: %w", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("empty sitemap %s", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		return nil, locs(root, "sitemap"), nil
	default:
		return locs(root, "url"), nil, nil
	}
}

// locs returns the trimmed <loc> text of each entry child of root.
func locs(root *etree.Element, entry string) []string {
	var out []string
	for _, el := range root.SelectElements(entry) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
