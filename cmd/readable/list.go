package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/readable"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := readable.ArticleFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	records, err := deps.Store.FindArticles(deps.Ctx, filter)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'readable batch --db' to extract some.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTRACTED\tLENGTH\tTITLE\tSOURCE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.ExtractedAt.Local().Format(time.DateTime), r.Length, r.Title, r.Source)
	}
	return tw.Flush()
}
