// Package rod fetches pages with a headless Chrome so that scripts run
// before the HTML is handed to the extractor.
package rod

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/readable"
)

// Ensure Fetcher implements readable.Fetcher at compile time.
var _ readable.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browsers *BrowserManager
	settle   time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	settle  time.Duration
	manager []ManagerOption
}

// WithSettle waits until the page has been stable for d after it loaded.
// Useful for pages that render their content after the load event.
func WithSettle(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.settle = d
	}
}

// WithBrowserOptions configures the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) Option {
	return func(c *fetcherConfig) {
		c.manager = append(c.manager, opts...)
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	var cfg fetcherConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	browsers, err := NewBrowserManager(cfg.manager...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{browsers: browsers, settle: cfg.settle}, nil
}

// Fetch navigates to rawURL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return "", readable.Errorf(readable.EINVALID, "invalid URL: %q", rawURL)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, release, err := f.browsers.Page(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	if err := page.Navigate(rawURL); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if f.settle > 0 {
		if err := page.WaitStable(f.settle); err != nil {
			return "", err
		}
	}

	return page.HTML()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browsers.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browsers.LauncherPID()
}
