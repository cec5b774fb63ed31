// Package slog provides log/slog decorators for the readable interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/readable"
)

// Ensure LoggingExtractor implements readable.Extractor.
var _ readable.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   readable.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. name identifies the
// wrapped extractor in log records.
func NewLoggingExtractor(next readable.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(rawHTML, pageURL string) (article *readable.Article, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"extractor", e.name,
			"url", pageURL,
			"bytes", len(rawHTML),
			"duration", time.Since(begin),
		}
		if err != nil {
			e.logger.Warn("extract", append(attrs, "code", readable.ErrorCode(err), "err", err)...)
			return
		}
		e.logger.Info("extract", append(attrs, "title", article.Title, "length", article.Length)...)
	}(time.Now())
	return e.next.Extract(rawHTML, pageURL)
}
