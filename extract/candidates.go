package extract

import (
	"github.com/fwojciec/readable/dom"
)

// prepare removes nodes that must not become candidates and normalizes
// divs so that paragraphs can be scored.
//
// Removals are decided in a read-only walk and applied afterwards.
func (ps *pass) prepare() {
	doc := ps.doc
	root := doc.DocumentElement()
	if root == dom.None {
		return
	}

	var remove []dom.NodeID
	mark := func(id dom.NodeID) bool {
		remove = append(remove, id)
		return false
	}
	titleHeaderPending := true

	doc.Walk(root, func(id dom.NodeID) bool {
		if !doc.IsElement(id) {
			return true
		}
		tag := doc.Tag(id)
		if tag == "head" {
			return false
		}
		if !doc.IsVisible(id) && tag != "body" {
			return mark(id)
		}
		if doc.AttrOr(id, "aria-modal", "") == "true" && doc.AttrOr(id, "role", "") == "dialog" {
			return mark(id)
		}
		if id == ps.meta.bylineNode {
			return mark(id)
		}
		if titleHeaderPending && (tag == "h1" || tag == "h2") && ps.duplicatesTitle(id) {
			titleHeaderPending = false
			return mark(id)
		}
		if ps.flags.stripUnlikelys && ps.isUnlikelyCandidate(id, tag) {
			ps.debug("removing unlikely candidate", "tag", tag, "match", classAndID(doc, id))
			return mark(id)
		}
		switch tag {
		case "div", "section", "header", "h1", "h2", "h3", "h4", "h5", "h6":
			if isElementWithoutContent(doc, id) {
				return mark(id)
			}
		}
		return true
	})
	for _, id := range remove {
		doc.Remove(id)
	}

	if body := doc.Body(); body != dom.None {
		ps.normalizeDivs(body)
	}
}

func (ps *pass) duplicatesTitle(id dom.NodeID) bool {
	if ps.meta.title == "" {
		return false
	}
	return textSimilarity(ps.meta.title, ps.doc.InnerText(id)) > 0.75
}

// isUnlikelyCandidate reports boilerplate containers: navigation roles,
// semantic boilerplate tags and class/id matches that are not offset by a
// content-like match.
func (ps *pass) isUnlikelyCandidate(id dom.NodeID, tag string) bool {
	if tag == "html" || tag == "body" || tag == "a" {
		return false
	}
	if unlikelyRoles[ps.doc.AttrOr(id, "role", "")] {
		return true
	}
	m := ps.classMatches(id)
	if m&matchMaybe != 0 {
		return false
	}
	if unlikelyTags[tag] {
		return !ps.doc.HasAncestorTag(id, "article", 0)
	}
	return m&matchUnlikely != 0 &&
		!ps.doc.HasAncestorTag(id, "table", 3) &&
		!ps.doc.HasAncestorTag(id, "code", 3)
}

// normalizeDivs wraps loose phrasing content of divs in paragraphs, unwraps
// divs holding a single paragraph and turns divs without block children
// into paragraphs.
func (ps *pass) normalizeDivs(root dom.NodeID) {
	doc := ps.doc
	for _, div := range doc.Elements(root, "div") {
		if !doc.Attached(div) || doc.Tag(div) != "div" {
			continue
		}

		wrapPhrasing(doc, div)

		if hasSingleTagInside(doc, div, "p") && linkDensity(doc, div) < 0.25 {
			doc.ReplaceChild(doc.FirstElementChild(div), div)
			continue
		}
		if !hasChildBlockElement(doc, div) {
			doc.SetTag(div, "p")
		}
	}
}

// wrapPhrasing moves each run of phrasing children of id into a new <p>.
func wrapPhrasing(doc *dom.Document, id dom.NodeID) {
	p := dom.None
	for child := doc.FirstChild(id); child != dom.None; {
		next := doc.NextSibling(child)
		switch {
		case isPhrasingContent(doc, child):
			if p != dom.None {
				doc.AppendChild(p, child)
			} else if !isWhitespaceNode(doc, child) {
				p = doc.CreateElement("p")
				doc.ReplaceChild(p, child)
				doc.AppendChild(p, child)
			}
		case p != dom.None:
			trimTrailingWhitespace(doc, p)
			p = dom.None
		}
		child = next
	}
	if p != dom.None {
		trimTrailingWhitespace(doc, p)
	}
}

func trimTrailingWhitespace(doc *dom.Document, p dom.NodeID) {
	for last := doc.LastChild(p); last != dom.None && isWhitespaceNode(doc, last); last = doc.LastChild(p) {
		doc.Remove(last)
	}
}
