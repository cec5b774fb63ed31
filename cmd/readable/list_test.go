package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/readable"
	main "github.com/fwojciec/readable/cmd/readable"
	"github.com/fwojciec/readable/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists stored articles", func(t *testing.T) {
		t.Parallel()

		var got readable.ArticleFilter
		store := &mock.ArticleStore{
			FindArticlesFn: func(_ context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error) {
				got = filter
				return []*readable.ArticleRecord{
					{
						ID:          "id-1",
						Source:      "https://example.com/news/harbour",
						Article:     readable.Article{Title: "Harbour reopens", Length: 1200},
						ExtractedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Store:  store,
		}

		cmd := &main.ListCmd{Source: "https://example.com/news/harbour", Limit: 10}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Harbour reopens")
		assert.Contains(t, stdout.String(), "1200")
		assert.Contains(t, stdout.String(), "https://example.com/news/harbour")
		require.NotNil(t, got.Source)
		assert.Equal(t, "https://example.com/news/harbour", *got.Source)
		assert.Equal(t, 10, got.Limit)
	})

	t.Run("shows hint when empty", func(t *testing.T) {
		t.Parallel()

		store := &mock.ArticleStore{
			FindArticlesFn: func(_ context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error) {
				assert.Nil(t, filter.Source)
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Store: store}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No articles found")
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		store := &mock.ArticleStore{
			FindArticlesFn: func(_ context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		err := (&main.ListCmd{}).Run(&main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Store: store})

		require.Error(t, err)
	})
}
