package extract

import (
	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/dom"
)

// Internal helpers exposed to extract_test.
var (
	LinkDensity    = linkDensity
	CleanTitle     = cleanTitle
	TextSimilarity = textSimilarity
)

// ContentScores scores the body of doc without class weights and returns
// the score of every scored node.
func ContentScores(doc *dom.Document) map[dom.NodeID]float64 {
	p, err := NewParser(readable.DefaultOptions())
	if err != nil {
		panic(err)
	}
	ps := &pass{run: &run{p: p, doc: doc}, p: p, doc: doc}
	scores := make(map[dom.NodeID]float64)
	for _, id := range ps.score(doc.Body()) {
		scores[id] = ps.info(id).score
	}
	return scores
}
