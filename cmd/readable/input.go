package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/mattn/go-isatty"
	"golang.org/x/net/html/charset"
)

// load reads the selected page and returns it with the URL links resolve
// against.
func (in InputFlags) load(deps *Dependencies) (rawHTML, pageURL string, err error) {
	switch {
	case in.File != "" && in.File != "-":
		rawHTML, err = readFile(in.File)
		return rawHTML, in.URL, err
	case in.File == "" && in.URL != "":
		rawHTML, err = deps.Fetcher.Fetch(deps.Ctx, in.URL)
		return rawHTML, in.URL, err
	}

	if f, ok := deps.Stdin.(*os.File); ok && in.File == "" && isatty.IsTerminal(f.Fd()) {
		return "", "", readable.Errorf(readable.EINVALID, "no input: pass a file, --url, or pipe HTML to stdin")
	}
	rawHTML, err = readHTML(deps.Stdin)
	return rawHTML, in.URL, err
}

// loadInput reads a batch input, fetching it when it is an http(s) URL.
func loadInput(ctx context.Context, deps *Dependencies, input string) (rawHTML, pageURL string, err error) {
	if isURL(input) {
		rawHTML, err = deps.Fetcher.Fetch(ctx, input)
		return rawHTML, input, err
	}
	rawHTML, err = readFile(input)
	return rawHTML, "", err
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readHTML(f)
}

// readHTML reads a whole document as UTF-8. Input that is not valid UTF-8
// is decoded using its BOM or meta charset declaration.
func readHTML(r io.Reader) (string, error) {
	if r == nil {
		return "", readable.Errorf(readable.EINVALID, "no input")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	decoded, err := charset.NewReader(bytes.NewReader(b), "")
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	out, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	return string(out), nil
}
