package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/mock"
	readableslog "github.com/fwojciec/readable/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, siteURL string, filter *readable.URLFilter) ([]string, error) {
			return []string{siteURL + "/a", siteURL + "/b"}, nil
		},
	}

	svc := readableslog.NewLoggingSitemapService(inner, logger)
	urls, err := svc.DiscoverURLs(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Len(t, urls, 2)
	output := buf.String()
	assert.Contains(t, output, "msg=sitemap")
	assert.Contains(t, output, "site=https://example.com")
	assert.Contains(t, output, "urls=2")
}
