package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/fwojciec/readable"
	main "github.com/fwojciec/readable/cmd/readable"
	"github.com/fwojciec/readable/fs"
	"github.com/fwojciec/readable/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Batch(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown files for files and urls", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "harbour.html")
		require.NoError(t, os.WriteFile(in, []byte(page(prose(600))), 0o644))
		out := filepath.Join(dir, "out")

		m := newMain("")
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return page(prose(800)), nil
			},
			CloseFn: func() error { return nil },
		}

		stdout := &bytes.Buffer{}
		args := []string{"batch", in, "https://news.example.com/2024/harbour", "--out", out, "-c", "2"}
		err := m.Run(context.Background(), args, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		local, err := os.ReadFile(filepath.Join(out, "harbour.md"))
		require.NoError(t, err)
		fm, err := fs.ParseFrontMatter(string(local))
		require.NoError(t, err)
		assert.Equal(t, title, fm.Title)
		assert.Equal(t, in, fm.Source)

		remote, err := os.ReadFile(filepath.Join(out, "news.example.com", "2024", "harbour.md"))
		require.NoError(t, err)
		assert.Contains(t, string(remote), "# "+title)

		assert.Contains(t, stdout.String(), "OK   "+in)
		assert.Contains(t, stdout.String(), "OK   https://news.example.com/2024/harbour")
	})

	t.Run("reports failed inputs and continues", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := filepath.Join(dir, "good.html")
		short := filepath.Join(dir, "short.html")
		require.NoError(t, os.WriteFile(good, []byte(page(prose(600))), 0o644))
		require.NoError(t, os.WriteFile(short, []byte(page(prose(50))), 0o644))
		missing := filepath.Join(dir, "missing.html")

		stdout := &bytes.Buffer{}
		args := []string{"batch", good, short, missing, "--out", filepath.Join(dir, "out")}
		err := newMain("").Run(context.Background(), args, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 3 inputs failed")
		assert.Contains(t, stdout.String(), "OK   "+good)
		assert.Contains(t, stdout.String(), "FAIL "+short)
		assert.Contains(t, stdout.String(), "FAIL "+missing)
		assert.FileExists(t, filepath.Join(dir, "out", "good.md"))
	})
}

func TestMain_Run_BatchDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "harbour.html")
	require.NoError(t, os.WriteFile(in, []byte(page(prose(600))), 0o644))
	db := filepath.Join(dir, "articles.db")

	stdout := &bytes.Buffer{}
	err := newMain("").Run(context.Background(), []string{"batch", in, "--db", db}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "OK   "+in)
	assert.NoFileExists(t, filepath.Join(dir, "harbour.md"))

	stdout.Reset()
	err = newMain("").Run(context.Background(), []string{"list", "--db", db}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), title)
	assert.Contains(t, stdout.String(), in)
}

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts every input once", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			written []string
		)
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Logger: slog.New(slog.DiscardHandler),
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return page(prose(600)), nil
				},
				CloseFn: func() error { return nil },
			},
			Writer: &mock.ArticleWriter{
				WriteArticleFn: func(ctx context.Context, name string, article *readable.Article) (string, error) {
					mu.Lock()
					defer mu.Unlock()
					written = append(written, name)
					return name + ".md", nil
				},
			},
		}

		cmd := &main.BatchCmd{
			Inputs: []string{
				"https://example.com/a",
				"https://example.com/b",
				"https://example.com/c",
			},
			Concurrency:   2,
			CharThreshold: readable.DefaultCharThreshold,
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		sort.Strings(written)
		assert.Equal(t, cmd.Inputs, written)
	})

	t.Run("adds sitemap urls and skips duplicates", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			fetched []string
			filter  *readable.URLFilter
		)
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Logger: slog.New(slog.DiscardHandler),
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					mu.Lock()
					defer mu.Unlock()
					fetched = append(fetched, url)
					return page(prose(600)), nil
				},
				CloseFn: func() error { return nil },
			},
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(ctx context.Context, siteURL string, f *readable.URLFilter) ([]string, error) {
					filter = f
					return []string{"https://example.com/news/a", "https://example.com/news/b#top"}, nil
				},
			},
			Writer: &mock.ArticleWriter{
				WriteArticleFn: func(ctx context.Context, name string, article *readable.Article) (string, error) {
					return name, nil
				},
			},
		}

		cmd := &main.BatchCmd{
			Inputs:        []string{"https://example.com/news/b"},
			Sitemap:       "https://example.com/news",
			Include:       []string{"/news/"},
			Concurrency:   1,
			CharThreshold: readable.DefaultCharThreshold,
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/news/b", "https://example.com/news/a"}, fetched)
		require.NotNil(t, filter)
		assert.True(t, filter.Match("https://example.com/news/c"))
		assert.False(t, filter.Match("https://example.com/about"))
		assert.Contains(t, deps.Stdout.(*bytes.Buffer).String(), "SKIP https://example.com/news/b#top: duplicate")
	})

	t.Run("rejects empty input list", func(t *testing.T) {
		t.Parallel()

		cmd := &main.BatchCmd{Concurrency: 1, CharThreshold: 500}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background()})

		require.Error(t, err)
		assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
	})

	t.Run("rejects zero concurrency", func(t *testing.T) {
		t.Parallel()

		cmd := &main.BatchCmd{Inputs: []string{"a.html"}, CharThreshold: 500}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background()})

		require.Error(t, err)
		assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
	})
}
