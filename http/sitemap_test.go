package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/readable"
	readablehttp "github.com/fwojciec/readable/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// urlset renders a sitemap listing paths below the {{BASE}} placeholder.
func urlset(paths ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "  <url><loc>{{BASE}}%s</loc><lastmod>2024-03-01</lastmod></url>\n", p)
	}
	b.WriteString("</urlset>")
	return b.String()
}

func sitemapIndex(paths ...string) string {
	var b strings.Builder
	b.WriteString(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, p := range paths {
		fmt.Fprintf(&b, "<sitemap><loc> {{BASE}}%s </loc></sitemap>", p)
	}
	b.WriteString("</sitemapindex>")
	return b.String()
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		files  map[string]string
		site   string
		filter *readable.URLFilter
		want   []string
	}{
		{
			name: "robots directive",
			files: map[string]string{
				"/robots.txt":       "User-agent: *\nDisallow: /drafts/\nsitemap: {{BASE}}/news-sitemap.xml\n",
				"/news-sitemap.xml": urlset("/news/harbour", "/news/ferry"),
				"/sitemap.xml":      urlset("/ignored"),
			},
			want: []string{"/news/harbour", "/news/ferry"},
		},
		{
			name:  "falls back to sitemap.xml",
			files: map[string]string{"/sitemap.xml": urlset("/news/harbour")},
			want:  []string{"/news/harbour"},
		},
		{
			name: "robots without sitemaps falls back",
			files: map[string]string{
				"/robots.txt":  "User-agent: *\nDisallow:\n",
				"/sitemap.xml": urlset("/news/harbour"),
			},
			want: []string{"/news/harbour"},
		},
		{
			name: "several robots directives in order",
			files: map[string]string{
				"/robots.txt": "Sitemap: {{BASE}}/a.xml\nSitemap: {{BASE}}/b.xml\n",
				"/a.xml":      urlset("/news/a"),
				"/b.xml":      urlset("/news/b", "/news/a"),
			},
			want: []string{"/news/a", "/news/b"},
		},
		{
			name: "index followed breadth first",
			files: map[string]string{
				"/sitemap.xml":  sitemapIndex("/sm-news.xml", "/sm-sport.xml"),
				"/sm-news.xml":  urlset("/news/harbour"),
				"/sm-sport.xml": urlset("/sport/regatta"),
			},
			want: []string{"/news/harbour", "/sport/regatta"},
		},
		{
			name:  "path prefix respects segments",
			files: map[string]string{"/sitemap.xml": urlset("/news/harbour", "/news", "/newsletter", "/about")},
			site:  "/news",
			want:  []string{"/news/harbour", "/news"},
		},
		{
			name:  "include filter",
			files: map[string]string{"/sitemap.xml": urlset("/news/harbour", "/about", "/news/ferry")},
			filter: &readable.URLFilter{
				Include: []*regexp.Regexp{regexp.MustCompile(`/news/`)},
			},
			want: []string{"/news/harbour", "/news/ferry"},
		},
		{
			name:  "exclude filter",
			files: map[string]string{"/sitemap.xml": urlset("/news/harbour", "/news/live/updates")},
			filter: &readable.URLFilter{
				Exclude: []*regexp.Regexp{regexp.MustCompile(`/live/`)},
			},
			want: []string{"/news/harbour"},
		},
		{
			name:  "no sitemap",
			files: map[string]string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newSitemapServer(t, tt.files)

			svc := readablehttp.NewSitemapService(srv.Client())
			urls, err := svc.DiscoverURLs(context.Background(), srv.URL+tt.site, tt.filter)

			require.NoError(t, err)
			want := make([]string, len(tt.want))
			for i, p := range tt.want {
				want[i] = srv.URL + p
			}
			assert.Equal(t, want, urls)
		})
	}
}

func TestSitemapService_DiscoverURLs_Gzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(strings.ReplaceAll(urlset("/news/harbour"), "{{BASE}}", "https://example.com")))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	srv := newSitemapServer(t, map[string]string{
		"/robots.txt":     "Sitemap: {{BASE}}/sitemap.xml.gz\n",
		"/sitemap.xml.gz": buf.String(),
	})

	svc := readablehttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/news/harbour"}, urls)
}

func TestSitemapService_DiscoverURLs_IndexCycle(t *testing.T) {
	t.Parallel()

	srv := newSitemapServer(t, map[string]string{
		"/sitemap.xml": sitemapIndex("/sitemap.xml", "/pages.xml"),
		"/pages.xml":   urlset("/news/harbour"),
	})

	svc := readablehttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/news/harbour"}, urls)
}

func TestSitemapService_DiscoverURLs_Errors(t *testing.T) {
	t.Parallel()

	t.Run("relative site URL", func(t *testing.T) {
		t.Parallel()

		svc := readablehttp.NewSitemapService(nil)
		_, err := svc.DiscoverURLs(context.Background(), "/news", nil)

		assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapServer(t, map[string]string{"/sitemap.xml": urlset("/news/harbour")})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := readablehttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("listed sitemap missing", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapServer(t, map[string]string{"/robots.txt": "Sitemap: {{BASE}}/gone.xml\n"})

		svc := readablehttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		var statusErr *readablehttp.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	})

	t.Run("malformed XML", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapServer(t, map[string]string{"/sitemap.xml": "<<< not xml"})

		svc := readablehttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
	})
}

func TestSitemapService_DiscoverURLs_SendsUserAgent(t *testing.T) {
	t.Parallel()

	var missing atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != readablehttp.DefaultUserAgent {
			missing.Add(1)
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := readablehttp.NewSitemapService(srv.Client())
	_, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Zero(t, missing.Load())
}

// newSitemapServer serves files by path, substituting {{BASE}} with the
// server URL in everything but gzip files.
func newSitemapServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if !strings.HasSuffix(r.URL.Path, ".gz") {
			body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)
		}
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
