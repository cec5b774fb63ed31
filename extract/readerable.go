package extract

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/dom"
)

var (
	readerableNodes = dom.MustCompile("p, pre, article")
	brInDiv         = dom.MustCompile("div > br")
	listParagraph   = dom.MustCompile("li p")
)

// IsProbablyReaderable reports whether doc likely holds an article, without
// running the extraction and without modifying doc.
//
// Paragraph-like nodes whose text is longer than MinContentLength and whose
// link density is below MaxLinkDensity add sqrt(length - MinContentLength)
// to a score; the document is readerable once the score exceeds MinScore,
// or once MinTotalLength characters qualified when that limit is set.
// Zero-valued limits use the defaults. Any structural anomaly yields false.
func IsProbablyReaderable(doc *dom.Document, opts readable.Options) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if doc == nil {
		return false
	}
	o := readerableDefaults(opts.Readerable)

	root := doc.Root()
	nodes := doc.QueryAll(root, readerableNodes)
	seen := make(map[dom.NodeID]bool, len(nodes))
	for _, n := range nodes {
		seen[n] = true
	}
	for _, br := range doc.QueryAll(root, brInDiv) {
		if parent := doc.Parent(br); !seen[parent] {
			seen[parent] = true
			nodes = append(nodes, parent)
		}
	}

	score := 0.0
	total := 0
	for _, n := range nodes {
		if !doc.IsVisible(n) {
			continue
		}
		match := classAndID(doc, n)
		if unlikelyCandidates.MatchString(match) && !maybeCandidate.MatchString(match) {
			continue
		}
		if doc.Matches(n, listParagraph) {
			continue
		}
		length := utf8.RuneCountInString(strings.TrimSpace(doc.TextContent(n)))
		if length <= o.MinContentLength {
			continue
		}
		if linkDensity(doc, n) >= o.MaxLinkDensity {
			continue
		}
		score += math.Sqrt(float64(length - o.MinContentLength))
		total += length
		if score > o.MinScore {
			return true
		}
		if o.MinTotalLength > 0 && total >= o.MinTotalLength {
			return true
		}
	}
	return false
}

func readerableDefaults(o readable.ReaderableOptions) readable.ReaderableOptions {
	d := readable.DefaultReaderableOptions()
	if o.MinContentLength == 0 {
		o.MinContentLength = d.MinContentLength
	}
	if o.MinScore == 0 {
		o.MinScore = d.MinScore
	}
	if o.MaxLinkDensity == 0 {
		o.MaxLinkDensity = d.MaxLinkDensity
	}
	return o
}
