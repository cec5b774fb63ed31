package extract

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/dom"
)

const (
	// minTopCandidates is how many close runners-up must share an ancestor
	// for that ancestor to replace the top candidate.
	minTopCandidates = 3

	siblingScoreFraction = 0.2
)

// rank applies link density to the scores of the candidates and orders them
// by descending score, earlier nodes first on ties.
func (ps *pass) rank(candidates []dom.NodeID) []dom.NodeID {
	order := make([]int32, ps.doc.Len())
	var i int32
	ps.doc.Walk(ps.doc.Root(), func(id dom.NodeID) bool {
		order[id] = i
		i++
		return true
	})

	for _, c := range candidates {
		n := ps.info(c)
		n.linkDensity = linkDensity(ps.doc, c)
		n.score *= 1 - n.linkDensity
	}

	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b dom.NodeID) int {
		if c := cmp.Compare(ps.info(b).score, ps.info(a).score); c != 0 {
			return c
		}
		return cmp.Compare(order[a], order[b])
	})
	return ranked
}

// selectTop picks the top candidate from the ranked list and refines it.
// Without a positive candidate the content of <body> is moved into a new
// container that becomes the top candidate.
func (ps *pass) selectTop(ranked []dom.NodeID) (dom.NodeID, error) {
	doc := ps.doc
	body := doc.Body()

	var top []dom.NodeID
	for _, c := range ranked {
		if ps.info(c).score <= 0 {
			break
		}
		top = append(top, c)
		if len(top) == ps.p.opts.NTopCandidates {
			break
		}
	}
	for i, c := range top {
		ps.debug("candidate", "rank", i+1, "tag", doc.Tag(c), "match", classAndID(doc, c), "score", ps.info(c).score)
	}

	if len(top) == 0 || doc.Tag(top[0]) == "body" {
		if body == dom.None || doc.InnerText(body) == "" {
			return dom.None, readable.Errorf(readable.ENOCANDIDATE, "no content found")
		}
		div := doc.CreateElement("div")
		for c := doc.FirstChild(body); c != dom.None; c = doc.FirstChild(body) {
			doc.AppendChild(div, c)
		}
		doc.AppendChild(body, div)
		ps.initialize(div)
		ps.createdTop = true
		return div, nil
	}

	candidate := top[0]
	if ps.flags.promoteAncestors {
		candidate = ps.sharedAncestor(candidate, top[1:])
	}
	candidate = ps.climb(candidate)
	return candidate, nil
}

// sharedAncestor returns the first ancestor of top that is also an ancestor
// of enough runners-up scoring close to top, or top itself.
func (ps *pass) sharedAncestor(top dom.NodeID, others []dom.NodeID) dom.NodeID {
	doc := ps.doc
	topScore := ps.info(top).score

	var ancestors [][]dom.NodeID
	for _, c := range others {
		if ps.info(c).score/topScore >= 0.75 {
			ancestors = append(ancestors, doc.Ancestors(c, 0))
		}
	}
	if len(ancestors) < minTopCandidates {
		return top
	}

	for parent := doc.Parent(top); doc.IsElement(parent) && doc.Tag(parent) != "body"; parent = doc.Parent(parent) {
		containing := 0
		for _, list := range ancestors {
			if slices.Contains(list, parent) {
				containing++
			}
		}
		if containing >= minTopCandidates {
			ps.debug("promoting shared ancestor", "tag", doc.Tag(parent))
			ps.carryScore(parent, topScore)
			return parent
		}
	}
	return top
}

// climb moves the top candidate up while ancestors keep a comparable score,
// then past wrappers with a single child.
func (ps *pass) climb(top dom.NodeID) dom.NodeID {
	doc := ps.doc
	lastScore := ps.info(top).score
	threshold := lastScore / 3

	for parent := doc.Parent(top); doc.IsElement(parent) && doc.Tag(parent) != "body"; parent = doc.Parent(parent) {
		n := ps.info(parent)
		if !n.scored {
			continue
		}
		if n.score < threshold {
			break
		}
		if n.score > lastScore {
			top = parent
			break
		}
		lastScore = n.score
	}

	score := ps.info(top).score
	for parent := doc.Parent(top); doc.IsElement(parent) && doc.Tag(parent) != "body" && len(doc.Children(parent)) == 1; parent = doc.Parent(top) {
		top = parent
	}
	ps.carryScore(top, score)
	return top
}

// carryScore gives an unscored node that became the top candidate the score
// of the candidate it replaced.
func (ps *pass) carryScore(id dom.NodeID, score float64) {
	if n := ps.info(id); !n.scored {
		n.scored = true
		n.score = score
	}
}

// direction returns the dir attribute of top or its nearest ancestor
// declaring one.
func (ps *pass) direction(top dom.NodeID) string {
	doc := ps.doc
	for id := top; doc.IsElement(id); id = doc.Parent(id) {
		if dir := strings.TrimSpace(doc.AttrOr(id, "dir", "")); dir != "" {
			return dir
		}
	}
	return ps.meta.dir
}

// gather moves top and the qualifying siblings into a new container,
// keeping document order.
func (ps *pass) gather(top dom.NodeID) dom.NodeID {
	doc := ps.doc
	container := doc.CreateElement("div")

	parent := doc.Parent(top)
	if parent == dom.None {
		doc.AppendChild(container, top)
		return container
	}

	topScore := ps.info(top).score
	threshold := math.Max(10, topScore*siblingScoreFraction)
	topClass := doc.AttrOr(top, "class", "")

	for _, sibling := range doc.Children(parent) {
		if sibling != top && !ps.keepSibling(sibling, topScore, threshold, topClass) {
			continue
		}
		if !alterToDivExceptions[doc.Tag(sibling)] {
			doc.SetTag(sibling, "div")
		}
		doc.AppendChild(container, sibling)
	}
	return container
}

func (ps *pass) keepSibling(sibling dom.NodeID, topScore, threshold float64, topClass string) bool {
	doc := ps.doc
	if n := ps.info(sibling); n.scored {
		// A class bonus never rescues a sibling made only of links.
		if n.linkDensity >= 1 || n.score <= 0 {
			return false
		}
		bonus := 0.0
		if topClass != "" && doc.AttrOr(sibling, "class", "") == topClass {
			bonus = topScore * siblingScoreFraction
		}
		if n.score+bonus >= threshold {
			return true
		}
	}
	if doc.Tag(sibling) != "p" {
		return false
	}

	ld := linkDensity(doc, sibling)
	text := doc.InnerText(sibling)
	length := utf8.RuneCountInString(text)
	switch {
	case length > 80:
		return ld < 0.25
	case length > 0 && length < 80:
		return ld == 0 && sentenceEnd.MatchString(text)
	}
	return false
}

// wrap puts the gathered content into the page element.
func (ps *pass) wrap(container, top dom.NodeID) {
	doc := ps.doc
	if ps.createdTop {
		doc.SetAttr(top, "id", pageID)
		doc.SetAttr(top, "class", pageClass)
		return
	}
	page := doc.CreateElement("div")
	doc.SetAttr(page, "id", pageID)
	doc.SetAttr(page, "class", pageClass)
	for c := doc.FirstChild(container); c != dom.None; c = doc.FirstChild(container) {
		doc.AppendChild(page, c)
	}
	doc.AppendChild(container, page)
}
