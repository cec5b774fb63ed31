package extract

import (
	"math"
	"unicode/utf8"

	"github.com/fwojciec/readable/dom"
)

// scorableTags may receive a content score. body is scored only as an
// ancestor and as the last-resort container.
var scorableTags = map[string]bool{
	"div":        true,
	"p":          true,
	"pre":        true,
	"td":         true,
	"blockquote": true,
	"article":    true,
	"section":    true,
	"main":       true,
	"dl":         true,
	"dd":         true,
	"dt":         true,
	"ul":         true,
	"ol":         true,
	"li":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
}

var tagWeights = map[string]float64{
	"div":        5,
	"pre":        3,
	"td":         3,
	"blockquote": 3,
	"address":    -3,
	"ol":         -3,
	"ul":         -3,
	"dl":         -3,
	"dd":         -3,
	"dt":         -3,
	"li":         -3,
	"form":       -3,
	"h1":         -5,
	"h2":         -5,
	"h3":         -5,
	"h4":         -5,
	"h5":         -5,
	"h6":         -5,
	"th":         -5,
}

const (
	// minScoredTextLength is the shortest own text that earns points.
	minScoredTextLength = 25

	classWeightStep = 25
)

type matchSet uint8

const (
	matchClassPositive matchSet = 1 << iota
	matchClassNegative
	matchIDPositive
	matchIDNegative
	matchUnlikely
	matchMaybe
)

// nodeInfo is the per-node scoring state of a pass, indexed by NodeID.
type nodeInfo struct {
	scored      bool
	score       float64
	linkDensity float64

	matched bool
	matches matchSet
}

func (ps *pass) info(id dom.NodeID) *nodeInfo {
	if n := ps.doc.Len(); len(ps.nodes) < n {
		ps.nodes = append(ps.nodes, make([]nodeInfo, n-len(ps.nodes))...)
	}
	return &ps.nodes[id]
}

// classMatches evaluates the class and id of id against the pattern
// categories once and caches the result.
func (ps *pass) classMatches(id dom.NodeID) matchSet {
	n := ps.info(id)
	if n.matched {
		return n.matches
	}
	class := ps.doc.AttrOr(id, "class", "")
	ident := ps.doc.AttrOr(id, "id", "")

	var m matchSet
	if class != "" {
		if positiveClass.MatchString(class) {
			m |= matchClassPositive
		}
		if negativeClass.MatchString(class) {
			m |= matchClassNegative
		}
	}
	if ident != "" {
		if positiveClass.MatchString(ident) {
			m |= matchIDPositive
		}
		if negativeClass.MatchString(ident) {
			m |= matchIDNegative
		}
	}
	s := class + " " + ident
	if unlikelyCandidates.MatchString(s) {
		m |= matchUnlikely
	}
	if maybeCandidate.MatchString(s) {
		m |= matchMaybe
	}

	n.matched, n.matches = true, m
	return m
}

// classWeight is the class/id contribution to a node's score.
func (ps *pass) classWeight(id dom.NodeID) float64 {
	if !ps.flags.weightClasses {
		return 0
	}
	m := ps.classMatches(id)
	w := 0.0
	if m&matchClassNegative != 0 {
		w -= classWeightStep
	}
	if m&matchClassPositive != 0 {
		w += classWeightStep
	}
	if m&matchIDNegative != 0 {
		w -= classWeightStep
	}
	if m&matchIDPositive != 0 {
		w += classWeightStep
	}
	return w
}

// initialize gives id its base score once. It reports whether id was newly
// initialized.
func (ps *pass) initialize(id dom.NodeID) bool {
	n := ps.info(id)
	if n.scored {
		return false
	}
	base := tagWeights[ps.doc.Tag(id)] + ps.classWeight(id)
	n = ps.info(id)
	n.scored = true
	n.score = base
	return true
}

// score assigns content scores below root and returns the scored nodes in
// the order they were first scored.
//
// Every scorable element with enough text of its own adds
// 1 + commas + min(len/100, 3) points to itself and its parent, and half of
// that to its grandparent. Text inside nested scorable elements belongs to
// those elements, so no text is counted twice.
func (ps *pass) score(root dom.NodeID) []dom.NodeID {
	var candidates []dom.NodeID
	for _, el := range ps.doc.Elements(root) {
		if !scorableTags[ps.doc.Tag(el)] {
			continue
		}
		text := ps.ownText(el)
		length := utf8.RuneCountInString(text)
		if length < minScoredTextLength {
			continue
		}
		points := 1 + float64(commaCount(text)) + math.Min(math.Floor(float64(length)/100), 3)

		targets := [3]dom.NodeID{el, dom.None, dom.None}
		targets[1] = ps.doc.Parent(el)
		if targets[1] != dom.None {
			targets[2] = ps.doc.Parent(targets[1])
		}
		for level, target := range targets {
			if !ps.doc.IsElement(target) {
				break
			}
			tag := ps.doc.Tag(target)
			if !scorableTags[tag] && tag != "body" {
				continue
			}
			if ps.initialize(target) {
				candidates = append(candidates, target)
			}
			if level == 2 {
				ps.info(target).score += points / 2
			} else {
				ps.info(target).score += points
			}
		}
	}
	return candidates
}

// ownText is the normalized text of id outside nested scorable elements.
func (ps *pass) ownText(id dom.NodeID) string {
	var b []byte
	ps.doc.Walk(id, func(n dom.NodeID) bool {
		if n != id && scorableTags[ps.doc.Tag(n)] {
			return false
		}
		if ps.doc.IsText(n) {
			b = append(b, ps.doc.Data(n)...)
		}
		return true
	})
	return dom.NormalizeSpace(string(b))
}
