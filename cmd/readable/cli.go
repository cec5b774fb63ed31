package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/readable"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Debug enables per-stage extraction logging.
	Debug bool

	Fetcher  readable.Fetcher
	Sitemaps readable.SitemapService
	Detector readable.LanguageDetector
	Text     readable.TextRenderer
	Markdown ArticleConverter
	Writer   readable.ArticleWriter
	Store    readable.ArticleStore

	// Extractors are the extractors run side by side by compare.
	Extractors []NamedExtractor
}

// ArticleConverter renders a whole article as Markdown.
type ArticleConverter interface {
	ConvertArticle(article *readable.Article) (string, error)
}

// NamedExtractor pairs an extractor with the label shown by compare.
type NamedExtractor struct {
	Name      string
	Extractor readable.Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug   bool `help:"Log extraction stages and candidates to stderr"`
	Verbose bool `short:"v" help:"Log each fetch and extraction to stderr"`
	Render  bool `help:"Fetch URLs with headless Chrome so page scripts run"`
	Retries int  `default:"3" help:"Retries of failed fetches, with doubling delays from 1s"`

	Parse   ParseCmd   `cmd:"" help:"Extract the article of an HTML page"`
	Check   CheckCmd   `cmd:"" help:"Report whether a page probably holds an article"`
	Compare CompareCmd `cmd:"" help:"Compare extraction results with go-readability and trafilatura"`
	Batch   BatchCmd   `cmd:"" help:"Extract many pages into Markdown files or a database"`
	List    ListCmd    `cmd:"" help:"List articles stored in a database"`
}

// InputFlags select the page to read. With no file and no URL the page is
// read from stdin.
type InputFlags struct {
	File string `arg:"" optional:"" help:"HTML file to read, '-' for stdin"`
	URL  string `name:"url" help:"Address of the page; fetched when no file is given"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	InputFlags `embed:""`

	BaseURI       string   `name:"base-uri" help:"Absolute URL relative links are resolved against"`
	Format        string   `short:"f" enum:"json,text,html,markdown" default:"json" help:"Output format (json, text, html, markdown)"`
	Output        string   `short:"o" help:"Write to file instead of stdout"`
	CharThreshold int      `name:"char-threshold" default:"500" help:"Minimum article length in characters"`
	KeepClasses   bool     `name:"keep-classes" help:"Keep class attributes in the content"`
	PreserveClass []string `name:"preserve-class" help:"Class kept when classes are stripped (repeatable)"`
	DisableJSONLD bool     `name:"disable-json-ld" help:"Ignore JSON-LD metadata"`
	MaxElems      int      `name:"max-elems" default:"0" help:"Refuse documents with more elements (0 = unlimited)"`
	TopCandidates int      `name:"top-candidates" default:"5" help:"Number of top candidates compared"`
	DetectLang    bool     `name:"detect-lang" help:"Detect the language when the page declares none"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	InputFlags `embed:""`

	MinContentLength int     `name:"min-content-length" default:"140" help:"Minimum text length of a paragraph to count"`
	MinScore         float64 `name:"min-score" default:"20" help:"Score needed to report the page readerable"`
	MinTotalLength   int     `name:"min-total-length" default:"0" help:"Qualifying text length that is always enough (0 = disabled)"`
}

// CompareCmd is the "compare" subcommand.
type CompareCmd struct {
	InputFlags `embed:""`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Inputs        []string `arg:"" optional:"" help:"HTML files or http(s) URLs"`
	Sitemap       string   `help:"Also extract the pages listed in this site's sitemaps"`
	Include       []string `help:"Keep only sitemap URLs matching this regex (repeatable)"`
	Exclude       []string `help:"Drop sitemap URLs matching this regex (repeatable)"`
	Out           string   `short:"o" default:"." help:"Output directory"`
	DB            string   `name:"db" help:"Store articles in this SQLite database instead of files"`
	Concurrency   int      `short:"c" default:"4" help:"Concurrent extraction limit"`
	Rate          float64  `default:"1" help:"Requests per second per host for URL inputs"`
	CharThreshold int      `name:"char-threshold" default:"500" help:"Minimum article length in characters"`
	DetectLang    bool     `name:"detect-lang" help:"Detect the language when a page declares none"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	DB     string `name:"db" required:"" help:"SQLite database written by batch --db"`
	Source string `help:"Show only the article extracted from this source"`
	Limit  int    `short:"n" default:"50" help:"Maximum number of articles (0 = all)"`
}
