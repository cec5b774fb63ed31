// Package extract implements readable content extraction over a dom.Document.
//
// A parse runs through fixed stages: the document is preprocessed, its
// metadata read, its elements scored, the best candidate and its siblings
// selected and the result cleaned. When the cleaned text is shorter than
// the configured threshold the extraction is retried once with relaxed
// heuristics on a copy of the preprocessed document.
package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/dom"
)

const (
	pageID    = "readability-page-1"
	pageClass = "page"
)

// Ensure Parser implements the readable interfaces at compile time.
var (
	_ readable.Extractor         = (*Parser)(nil)
	_ readable.ReaderableChecker = (*Parser)(nil)
)

// Parser extracts articles. It is immutable after construction and safe for
// concurrent use; every call works on its own document.
type Parser struct {
	opts     readable.Options
	videos   *regexp.Regexp
	preserve map[string]bool
	base     *url.URL
	logger   *slog.Logger
	detector readable.LanguageDetector
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithLanguageDetector sets the detector used when the document does not
// declare its language.
func WithLanguageDetector(d readable.LanguageDetector) Option {
	return func(p *Parser) {
		p.detector = d
	}
}

// NewParser validates opts and compiles its patterns. Invalid options fail
// here rather than during extraction.
func NewParser(opts readable.Options, options ...Option) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Parser{
		opts:     opts,
		videos:   defaultVideos,
		preserve: map[string]bool{pageClass: true},
		logger:   slog.New(slog.DiscardHandler),
	}
	if opts.AllowedVideoPattern != "" {
		re, err := regexp.Compile(opts.AllowedVideoPattern)
		if err != nil {
			return nil, readable.Errorf(readable.EINVALID, "invalid video pattern: %s", err)
		}
		p.videos = re
	}
	for _, c := range opts.ClassesToPreserve {
		p.preserve[c] = true
	}
	if opts.BaseURI != "" {
		u, err := url.Parse(opts.BaseURI)
		if err != nil {
			return nil, readable.Errorf(readable.EINVALID, "invalid base URI: %s", err)
		}
		p.base = u
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Parse extracts the article of doc with a parser built from opts.
func Parse(doc *dom.Document, opts readable.Options) (*readable.Article, error) {
	p, err := NewParser(opts)
	if err != nil {
		return nil, err
	}
	return p.Parse(doc)
}

// Parse extracts the article of doc. The document is modified and consumed:
// parsing it a second time fails with EINVALID.
func (p *Parser) Parse(doc *dom.Document) (*readable.Article, error) {
	return p.parse(doc, p.base)
}

// Extract parses rawHTML and extracts its article. pageURL, when set, is the
// address of the page and serves as base URI if none is configured.
func (p *Parser) Extract(rawHTML, pageURL string) (*readable.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readable.Errorf(readable.EINVALID, "empty HTML input")
	}

	base := p.base
	if base == nil && pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil || !u.IsAbs() {
			return nil, readable.Errorf(readable.EINVALID, "page URL must be absolute: %q", pageURL)
		}
		base = u
	}

	doc, err := dom.ParseString(rawHTML)
	if err != nil {
		return nil, readable.Errorf(readable.EINVALID, "unparseable HTML: %s", err)
	}
	return p.parse(doc, base)
}

// IsProbablyReaderable parses rawHTML and runs the readerable heuristic.
func (p *Parser) IsProbablyReaderable(rawHTML string) bool {
	doc, err := dom.ParseString(rawHTML)
	if err != nil {
		return false
	}
	return IsProbablyReaderable(doc, p.opts)
}

func (p *Parser) parse(doc *dom.Document, documentURI *url.URL) (*readable.Article, error) {
	if doc == nil {
		return nil, readable.Errorf(readable.EINVALID, "nil document")
	}
	if err := doc.Consume(); err != nil {
		return nil, readable.Errorf(readable.EINVALID, "document already parsed")
	}

	r := &run{p: p, doc: doc, documentURI: documentURI}
	article, err := r.execute()
	if err != nil {
		r.fail(err)
		return nil, err
	}
	return article, nil
}

type stage int

const (
	stageUnparsed stage = iota
	stagePreprocessed
	stageScored
	stageSelected
	stageCleaned
	stageSuccess
	stageFailed
)

func (s stage) String() string {
	switch s {
	case stageUnparsed:
		return "unparsed"
	case stagePreprocessed:
		return "preprocessed"
	case stageScored:
		return "scored"
	case stageSelected:
		return "selected"
	case stageCleaned:
		return "cleaned"
	case stageSuccess:
		return "success"
	case stageFailed:
		return "failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// run is the state of a single parse.
type run struct {
	p           *Parser
	doc         *dom.Document
	documentURI *url.URL
	stage       stage
	meta        *metadata
}

// advance moves to the next stage. Stages cannot be skipped or repeated.
func (r *run) advance(next stage) error {
	if next != r.stage+1 {
		return readable.Errorf(readable.EINTERNAL, "invalid stage transition from %s to %s", r.stage, next)
	}
	r.debug("stage", "from", r.stage, "to", next)
	r.stage = next
	return nil
}

func (r *run) fail(err error) {
	r.debug("stage", "from", r.stage, "to", stageFailed, "error", readable.ErrorMessage(err))
	r.stage = stageFailed
}

func (r *run) debug(msg string, args ...any) {
	if r.p.opts.Debug {
		r.p.logger.Debug(msg, args...)
	}
}

// flags select the heuristics of a pass.
type flags struct {
	stripUnlikelys     bool
	weightClasses      bool
	cleanConditionally bool
	promoteAncestors   bool
}

var (
	strictFlags = flags{
		stripUnlikelys:     true,
		weightClasses:      true,
		cleanConditionally: true,
		promoteAncestors:   true,
	}
	relaxedFlags = flags{
		weightClasses: true,
	}
)

// result is the outcome of one extraction pass.
type result struct {
	doc       *dom.Document
	container dom.NodeID
	dir       string
	text      string
	length    int
}

func (r *run) execute() (*readable.Article, error) {
	doc := r.doc
	if doc.DocumentElement() == dom.None || doc.Body() == dom.None {
		return nil, readable.Errorf(readable.EINVALID, "document has no body")
	}
	if limit := r.p.opts.MaxElemsToParse; limit > 0 {
		if n := doc.CountElements(doc.Root()); n > limit {
			return nil, readable.Errorf(readable.ETOOMANYELEMENTS, "document has %d elements, limit is %d", n, limit)
		}
	}

	var ld jsonLD
	if !r.p.opts.DisableJSONLD {
		ld = readJSONLD(doc)
	}
	preprocess(doc)
	if err := r.advance(stagePreprocessed); err != nil {
		return nil, err
	}
	r.meta = readMetadata(doc, ld)
	base := baseURL(doc, r.documentURI)

	snapshot := doc.Clone()
	res, err := r.attempt(doc, base, strictFlags)
	if err != nil && readable.ErrorCode(err) != readable.ENOCANDIDATE {
		return nil, err
	}
	if err != nil || res.length < r.p.opts.CharThreshold {
		length := 0
		if res != nil {
			length = res.length
		}
		r.debug("retrying with relaxed heuristics", "length", length)
		r.stage = stagePreprocessed
		if res, err = r.attempt(snapshot, base, relaxedFlags); err != nil {
			return nil, err
		}
		if res.length < r.p.opts.CharThreshold {
			return nil, readable.Errorf(readable.ETOOSHORT, "extracted %d characters, need at least %d", res.length, r.p.opts.CharThreshold)
		}
	}

	article, err := r.article(res)
	if err != nil {
		return nil, err
	}
	if err := r.advance(stageSuccess); err != nil {
		return nil, err
	}
	return article, nil
}

// attempt runs scoring, selection and cleaning on doc.
func (r *run) attempt(doc *dom.Document, base *url.URL, f flags) (*result, error) {
	ps := &pass{run: r, p: r.p, doc: doc, flags: f, meta: r.meta, base: base}

	ps.prepare()
	candidates := ps.score(doc.Body())
	if err := r.advance(stageScored); err != nil {
		return nil, err
	}

	top, err := ps.selectTop(ps.rank(candidates))
	if err != nil {
		return nil, err
	}
	dir := ps.direction(top)
	container := ps.gather(top)
	if err := r.advance(stageSelected); err != nil {
		return nil, err
	}

	ps.clean(container)
	ps.wrap(container, top)
	ps.postProcess(container)
	if err := r.advance(stageCleaned); err != nil {
		return nil, err
	}

	text := doc.InnerText(container)
	return &result{
		doc:       doc,
		container: container,
		dir:       dir,
		text:      text,
		length:    utf8.RuneCountInString(text),
	}, nil
}

func (r *run) article(res *result) (*readable.Article, error) {
	content, err := res.doc.InnerHTML(res.container)
	if err != nil {
		return nil, readable.Errorf(readable.EINTERNAL, "render content: %s", err)
	}

	excerpt := r.meta.excerpt
	if excerpt == "" {
		if ps := res.doc.Elements(res.container, "p"); len(ps) > 0 {
			excerpt = res.doc.InnerText(ps[0])
		}
	}

	lang := r.meta.lang
	if lang == "" && r.p.detector != nil {
		if code, ok := r.p.detector.DetectLanguage(res.text); ok {
			lang = code
		}
	}

	return &readable.Article{
		Title:         r.meta.title,
		Content:       content,
		TextContent:   res.text,
		Length:        res.length,
		Byline:        r.meta.byline,
		Excerpt:       excerpt,
		SiteName:      r.meta.siteName,
		Lang:          lang,
		PublishedTime: r.meta.publishedTime,
		Dir:           res.dir,
	}, nil
}

// pass is one extraction attempt over a document.
type pass struct {
	*run
	p     *Parser
	doc   *dom.Document
	flags flags
	meta  *metadata
	base  *url.URL

	nodes      []nodeInfo
	createdTop bool
}
