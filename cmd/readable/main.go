package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/fs"
	"github.com/fwojciec/readable/goquery"
	"github.com/fwojciec/readable/htmltomarkdown"
	readablehttp "github.com/fwojciec/readable/http"
	"github.com/fwojciec/readable/lingua"
	"github.com/fwojciec/readable/readability"
	"github.com/fwojciec/readable/rod"
	readableslog "github.com/fwojciec/readable/slog"
	"github.com/fwojciec/readable/sqlite"
	"github.com/fwojciec/readable/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorText(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read when no input file is given.
	Stdin io.Reader

	// SQLite database opened for batch --db and list.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil values are replaced by the real
	// implementations.
	Fetcher  readable.Fetcher
	Sitemaps readable.SitemapService
	Detector readable.LanguageDetector
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readable"),
		kong.Description("Extract the readable article from HTML pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readable --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	deps.Debug = cli.Debug
	deps.Logger = newLogger(stderr, cli.Debug, cli.Verbose)
	deps.Text = goquery.NewTextRenderer()
	deps.Markdown = htmltomarkdown.NewConverter()

	fetcher, err := m.newFetcher(cli, cmd, stderr)
	if err != nil {
		return err
	}
	deps.Fetcher = readableslog.NewLoggingFetcher(fetcher, deps.Logger)
	defer deps.Fetcher.Close()

	deps.Detector = m.Detector
	if deps.Detector == nil && (cli.Parse.DetectLang || cli.Batch.DetectLang) {
		deps.Detector = lingua.NewDetector()
	}

	switch cmd {
	case "compare":
		deps.Extractors = []NamedExtractor{
			{Name: "readability", Extractor: readability.NewExtractor()},
			{Name: "trafilatura", Extractor: trafilatura.NewExtractor()},
		}
	case "batch":
		var sitemaps readable.SitemapService = readablehttp.NewSitemapService(nil)
		if m.Sitemaps != nil {
			sitemaps = m.Sitemaps
		}
		deps.Sitemaps = readableslog.NewLoggingSitemapService(sitemaps, deps.Logger)
		if cli.Batch.DB == "" {
			deps.Writer = fs.NewWriter(cli.Batch.Out, htmltomarkdown.NewConverter())
			break
		}
		store, err := m.openStore(cli.Batch.DB)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Writer = store
	case "list":
		store, err := m.openStore(cli.List.DB)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Store = store
	}

	return kongCtx.Run(deps)
}

// newFetcher returns the test fetcher or builds the real one: headless
// Chrome with --render, plain HTTP otherwise, with retries on top.
func (m *Main) newFetcher(cli *CLI, cmd string, stderr io.Writer) (readable.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	var fetcher readable.Fetcher
	if cli.Render {
		f, err := rod.NewFetcher(rod.WithSettle(500 * time.Millisecond))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		var opts []readablehttp.Option
		if cmd == "batch" && cli.Batch.Rate > 0 {
			opts = append(opts, readablehttp.WithRateLimit(cli.Batch.Rate))
		}
		fetcher = readablehttp.NewFetcher(opts...)
	}

	if cli.Retries > 0 {
		delays := make([]time.Duration, cli.Retries)
		for i := range delays {
			delays[i] = time.Second << i
		}
		fetcher = readablehttp.NewRetryFetcher(fetcher, delays, nil)
	}
	return fetcher, nil
}

func (m *Main) openStore(path string) (*sqlite.ArticleStore, error) {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewArticleStore(m.DB), nil
}

// newLogger logs to stderr at warning level, info with verbose and debug
// with debug.
func newLogger(w io.Writer, debug, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// errorText returns the message of application errors and the full text of
// anything else.
func errorText(err error) string {
	if readable.ErrorCode(err) == readable.EINTERNAL {
		return err.Error()
	}
	return readable.ErrorMessage(err)
}
