package main

import (
	"fmt"

	"github.com/fwojciec/readable"
)

// Run executes the check command. A page that is not readerable is an
// error so the exit status can be tested in scripts.
func (c *CheckCmd) Run(deps *Dependencies) error {
	opts := readable.DefaultOptions()
	opts.Readerable.MinContentLength = c.MinContentLength
	opts.Readerable.MinScore = c.MinScore
	opts.Readerable.MinTotalLength = c.MinTotalLength

	parser, err := newParser(deps, opts, false)
	if err != nil {
		return err
	}

	rawHTML, _, err := c.load(deps)
	if err != nil {
		return err
	}

	if !parser.IsProbablyReaderable(rawHTML) {
		fmt.Fprintln(deps.Stdout, "not readerable")
		return readable.Errorf(readable.ENOCANDIDATE, "page is not readerable")
	}
	fmt.Fprintln(deps.Stdout, "readerable")
	return nil
}
