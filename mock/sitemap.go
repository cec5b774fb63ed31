package mock

import (
	"context"

	"github.com/fwojciec/readable"
)

var _ readable.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of readable.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *readable.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *readable.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
