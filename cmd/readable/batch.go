package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/bloom"
	readableslog "github.com/fwojciec/readable/slog"
	"golang.org/x/sync/errgroup"
)

// Run executes the batch command. A failing input is reported and skipped;
// the command fails once all inputs were tried if any of them failed.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if c.Concurrency < 1 {
		return readable.Errorf(readable.EINVALID, "concurrency must be at least 1, got %d", c.Concurrency)
	}

	inputs, err := c.inputs(deps)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return readable.Errorf(readable.EINVALID, "no inputs: pass files, URLs or --sitemap")
	}

	opts := readable.DefaultOptions()
	opts.CharThreshold = c.CharThreshold
	opts.Debug = deps.Debug
	parser, err := newParser(deps, opts, c.DetectLang)
	if err != nil {
		return err
	}
	ext := readableslog.NewLoggingExtractor(parser, "readable", deps.Logger)

	var (
		mu      sync.Mutex
		failed  int
		started int
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(deps.Stdout, format, args...)
	}

	seen := bloom.NewSeen(uint(len(inputs)), 0)

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)
	for _, input := range inputs {
		if !seen.First(input) {
			report("SKIP %s: duplicate\n", input)
			continue
		}
		started++
		g.Go(func() error {
			path, err := c.process(ctx, deps, ext, input)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				mu.Lock()
				failed++
				mu.Unlock()
				report("FAIL %s: %s\n", input, errorText(err))
				return nil
			}
			report("OK   %s -> %s\n", input, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, started)
	}
	return nil
}

// inputs returns the positional inputs followed by the sitemap URLs.
func (c *BatchCmd) inputs(deps *Dependencies) ([]string, error) {
	inputs := append([]string(nil), c.Inputs...)
	if c.Sitemap == "" {
		return inputs, nil
	}

	filter, err := readable.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}
	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemaps of %s: %w", c.Sitemap, err)
	}
	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "warning: no sitemap URLs found for %s\n", c.Sitemap)
	}
	return append(inputs, urls...), nil
}

func (c *BatchCmd) process(ctx context.Context, deps *Dependencies, ext readable.Extractor, input string) (string, error) {
	rawHTML, pageURL, err := loadInput(ctx, deps, input)
	if err != nil {
		return "", err
	}
	article, err := ext.Extract(rawHTML, pageURL)
	if err != nil {
		return "", err
	}
	return deps.Writer.WriteArticle(ctx, input, article)
}
