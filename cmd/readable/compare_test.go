package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/readable"
	main "github.com/fwojciec/readable/cmd/readable"
	"github.com/fwojciec/readable/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCmd_Run(t *testing.T) {
	t.Parallel()

	newDeps := func(stdin string, extractors ...main.NamedExtractor) (*main.Dependencies, *bytes.Buffer) {
		stdout := &bytes.Buffer{}
		return &main.Dependencies{
			Ctx:        context.Background(),
			Stdin:      strings.NewReader(stdin),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Logger:     slog.New(slog.DiscardHandler),
			Extractors: extractors,
		}, stdout
	}

	t.Run("prints one row per extractor", func(t *testing.T) {
		t.Parallel()

		other := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*readable.Article, error) {
				return &readable.Article{Title: "Other title", Length: 321}, nil
			},
		}
		deps, stdout := newDeps(page(prose(600)), main.NamedExtractor{Name: "other", Extractor: other})

		err := (&main.CompareCmd{}).Run(deps)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "EXTRACTOR")
		assert.True(t, strings.HasPrefix(lines[1], "readable"))
		assert.Contains(t, lines[1], title)
		assert.True(t, strings.HasPrefix(lines[2], "other"))
		assert.Contains(t, lines[2], "321")
		assert.Contains(t, lines[2], "Other title")
	})

	t.Run("shows errors of failing extractors", func(t *testing.T) {
		t.Parallel()

		failing := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*readable.Article, error) {
				return nil, readable.Errorf(readable.ENOCANDIDATE, "nothing found")
			},
		}
		deps, stdout := newDeps(page(prose(600)), main.NamedExtractor{Name: "failing", Extractor: failing})

		err := (&main.CompareCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "error: nothing found")
	})

	t.Run("fails when no extractor succeeds", func(t *testing.T) {
		t.Parallel()

		deps, _ := newDeps(page(prose(50)))

		err := (&main.CompareCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, readable.ENOCANDIDATE, readable.ErrorCode(err))
	})
}
