package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/mock"
	readableslog "github.com/fwojciec/readable/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs title length and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*readable.Article, error) {
				return &readable.Article{Title: "Harbour", Length: 42}, nil
			},
		}

		ext := readableslog.NewLoggingExtractor(inner, "readable", logger)
		article, err := ext.Extract("<html></html>", "https://example.com/news")

		require.NoError(t, err)
		assert.Equal(t, "Harbour", article.Title)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "extractor=readable")
		assert.Contains(t, output, "url=https://example.com/news")
		assert.Contains(t, output, "bytes=13")
		assert.Contains(t, output, "title=Harbour")
		assert.Contains(t, output, "length=42")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*readable.Article, error) {
				return nil, readable.Errorf(readable.ETOOSHORT, "too short")
			},
		}

		ext := readableslog.NewLoggingExtractor(inner, "readable", logger)
		_, err := ext.Extract("<html></html>", "")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=content_too_short")
	})
}
