package extract

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/readable/dom"
)

// textLength returns the number of characters of the normalized text of id.
func textLength(doc *dom.Document, id dom.NodeID) int {
	return doc.TextLength(id)
}

// visibleLength counts the non-whitespace characters of s.
func visibleLength(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// linkDensity is the share of the text of id found inside links, in [0, 1].
// Whitespace is not counted, so an element whose text is made of links
// only has a density of exactly 1.
func linkDensity(doc *dom.Document, id dom.NodeID) float64 {
	total := visibleLength(doc.TextContent(id))
	if total == 0 {
		return 0
	}
	linked := 0
	for _, a := range doc.Elements(id, "a") {
		if insideLink(doc, a, id) {
			continue
		}
		linked += visibleLength(doc.TextContent(a))
	}
	return math.Min(float64(linked)/float64(total), 1)
}

// insideLink reports whether a is nested in another link below root.
func insideLink(doc *dom.Document, a, root dom.NodeID) bool {
	for p := doc.Parent(a); p != root && p != dom.None; p = doc.Parent(p) {
		if doc.Tag(p) == "a" {
			return true
		}
	}
	return false
}

// textDensity is the share of the text of id found inside elements with the
// given tags.
func textDensity(doc *dom.Document, id dom.NodeID, tags ...string) float64 {
	total := textLength(doc, id)
	if total == 0 {
		return 0
	}
	children := 0
	for _, c := range doc.Elements(id, tags...) {
		children += textLength(doc, c)
	}
	return float64(children) / float64(total)
}

func commaCount(s string) int {
	return len(commas.FindAllStringIndex(s, -1))
}

func tokenize(s string) []string {
	var out []string
	for _, t := range tokenSeparator.Split(strings.ToLower(s), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// textSimilarity compares two texts by the share of b's tokens that also
// appear in a. It returns a value in [0, 1].
func textSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	inA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		inA[t] = true
	}
	var uniqB []string
	for _, t := range tokensB {
		if !inA[t] {
			uniqB = append(uniqB, t)
		}
	}
	distance := float64(utf8.RuneCountInString(strings.Join(uniqB, " "))) /
		float64(utf8.RuneCountInString(strings.Join(tokensB, " ")))
	return 1 - distance
}

func isWhitespaceText(doc *dom.Document, id dom.NodeID) bool {
	return doc.IsText(id) && strings.TrimSpace(doc.Data(id)) == ""
}

// isWhitespaceNode reports whitespace-only text and <br> elements.
func isWhitespaceNode(doc *dom.Document, id dom.NodeID) bool {
	return isWhitespaceText(doc, id) || doc.Tag(id) == "br"
}

func isPhrasingContent(doc *dom.Document, id dom.NodeID) bool {
	if doc.IsText(id) {
		return true
	}
	tag := doc.Tag(id)
	if phrasingElems[tag] {
		return true
	}
	if tag != "a" && tag != "del" && tag != "ins" {
		return false
	}
	for c := doc.FirstChild(id); c != dom.None; c = doc.NextSibling(c) {
		if !isPhrasingContent(doc, c) {
			return false
		}
	}
	return true
}

// nextContentNode returns id or the first following sibling that is not
// whitespace-only text.
func nextContentNode(doc *dom.Document, id dom.NodeID) dom.NodeID {
	for id != dom.None && !doc.IsElement(id) && strings.TrimSpace(doc.TextContent(id)) == "" {
		id = doc.NextSibling(id)
	}
	return id
}

// hasSingleTagInside reports whether id has exactly one element child, with
// the given tag, and no text of its own.
func hasSingleTagInside(doc *dom.Document, id dom.NodeID, tag string) bool {
	children := doc.Children(id)
	if len(children) != 1 || doc.Tag(children[0]) != tag {
		return false
	}
	for c := doc.FirstChild(id); c != dom.None; c = doc.NextSibling(c) {
		if doc.IsText(c) && strings.TrimSpace(doc.Data(c)) != "" {
			return false
		}
	}
	return true
}

func hasChildBlockElement(doc *dom.Document, id dom.NodeID) bool {
	found := false
	doc.Walk(id, func(n dom.NodeID) bool {
		if n != id && divToPElems[doc.Tag(n)] {
			found = true
		}
		return !found
	})
	return found
}

// isElementWithoutContent reports elements with no text whose only
// children, if any, are <br> and <hr>.
func isElementWithoutContent(doc *dom.Document, id dom.NodeID) bool {
	if !doc.IsElement(id) || strings.TrimSpace(doc.TextContent(id)) != "" {
		return false
	}
	for _, c := range doc.Children(id) {
		if t := doc.Tag(c); t != "br" && t != "hr" {
			return false
		}
	}
	return true
}

func hasMedia(doc *dom.Document, id dom.NodeID) bool {
	found := false
	doc.Walk(id, func(n dom.NodeID) bool {
		if n != id && mediaElems[doc.Tag(n)] {
			found = true
		}
		return !found
	})
	return found
}

func classAndID(doc *dom.Document, id dom.NodeID) string {
	return doc.AttrOr(id, "class", "") + " " + doc.AttrOr(id, "id", "")
}
