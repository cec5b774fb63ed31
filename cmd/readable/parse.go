package main

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/extract"
	readableslog "github.com/fwojciec/readable/slog"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	parser, err := newParser(deps, c.options(deps.Debug), c.DetectLang)
	if err != nil {
		return err
	}

	rawHTML, pageURL, err := c.load(deps)
	if err != nil {
		return err
	}

	ext := readableslog.NewLoggingExtractor(parser, "readable", deps.Logger)
	article, err := ext.Extract(rawHTML, pageURL)
	if err != nil {
		return err
	}

	out, err := c.render(deps, article)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Output, err)
		}
		return nil
	}
	_, err = fmt.Fprint(deps.Stdout, out)
	return err
}

func (c *ParseCmd) options(debug bool) readable.Options {
	opts := readable.DefaultOptions()
	opts.CharThreshold = c.CharThreshold
	opts.Debug = debug
	opts.KeepClasses = c.KeepClasses
	opts.ClassesToPreserve = c.PreserveClass
	opts.DisableJSONLD = c.DisableJSONLD
	opts.MaxElemsToParse = c.MaxElems
	opts.NTopCandidates = c.TopCandidates
	opts.BaseURI = c.BaseURI
	return opts
}

func (c *ParseCmd) render(deps *Dependencies, article *readable.Article) (string, error) {
	switch c.Format {
	case "text":
		body, err := deps.Text.RenderText(article.Content)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		if article.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n\n", article.Title)
		}
		if article.Byline != "" {
			fmt.Fprintf(&b, "By: %s\n\n", article.Byline)
		}
		b.WriteString(body)
		b.WriteString("\n")
		return b.String(), nil
	case "html":
		return renderHTML(article), nil
	case "markdown":
		return deps.Markdown.ConvertArticle(article)
	default:
		b, err := json.MarshalIndent(article, "", "  ")
		if err != nil {
			return "", readable.Errorf(readable.EINTERNAL, "failed to encode article: %s", err)
		}
		return string(b) + "\n", nil
	}
}

// renderHTML wraps the article content in a standalone page.
func renderHTML(article *readable.Article) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html")
	if article.Lang != "" {
		fmt.Fprintf(&b, ` lang="%s"`, html.EscapeString(article.Lang))
	}
	if article.Dir != "" {
		fmt.Fprintf(&b, ` dir="%s"`, html.EscapeString(article.Dir))
	}
	b.WriteString(">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(article.Title))
	b.WriteString("</head>\n<body>\n")
	if article.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(article.Title))
	}
	if article.Byline != "" {
		fmt.Fprintf(&b, "<p class=\"byline\">By %s</p>\n", html.EscapeString(article.Byline))
	}
	fmt.Fprintf(&b, "<div class=\"content\">%s</div>\n", article.Content)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// newParser builds the extraction parser shared by the commands.
func newParser(deps *Dependencies, opts readable.Options, detectLang bool) (*extract.Parser, error) {
	options := []extract.Option{extract.WithLogger(deps.Logger)}
	if detectLang && deps.Detector != nil {
		options = append(options, extract.WithLanguageDetector(deps.Detector))
	}
	return extract.NewParser(opts, options...)
}
