package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/readable"
	readableslog "github.com/fwojciec/readable/slog"
)

// Run executes the compare command.
func (c *CompareCmd) Run(deps *Dependencies) error {
	parser, err := newParser(deps, readable.DefaultOptions(), false)
	if err != nil {
		return err
	}

	rawHTML, pageURL, err := c.load(deps)
	if err != nil {
		return err
	}

	extractors := append([]NamedExtractor{{Name: "readable", Extractor: parser}}, deps.Extractors...)

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTRACTOR\tLENGTH\tTITLE")
	failed := 0
	for _, e := range extractors {
		ext := readableslog.NewLoggingExtractor(e.Extractor, e.Name, deps.Logger)
		article, err := ext.Extract(rawHTML, pageURL)
		if err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\terror: %s\n", e.Name, errorText(err))
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, article.Length, article.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed == len(extractors) {
		return readable.Errorf(readable.ENOCANDIDATE, "no extractor found an article")
	}
	return nil
}
