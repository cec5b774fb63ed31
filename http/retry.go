package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/readable"
)

// Ensure RetryFetcher implements readable.Fetcher at compile time.
var _ readable.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFetcher retries failed fetches of the wrapped Fetcher with backoff.
// Invalid requests and permanent HTTP errors (4xx other than 408 and 429)
// fail immediately.
type RetryFetcher struct {
	next   readable.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next. One retry is made per entry in delays, after
// waiting that long; nil delays use DefaultRetryDelays. logger may be nil.
func NewRetryFetcher(next readable.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch calls the wrapped fetcher until it succeeds, fails permanently or
// runs out of retries, and returns the last error.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := f.next.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt >= len(f.delays) || ctx.Err() != nil || !retryable(err) {
			return "", err
		}

		f.logger.Warn("retry", "url", url, "attempt", attempt+2, "err", err)

		timer := time.NewTimer(f.delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// Close delegates to the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}

func retryable(err error) bool {
	if readable.ErrorCode(err) != readable.EINTERNAL {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}
