package extract

import (
	"regexp"

	"github.com/fwojciec/readable/dom"
	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// preserveWhitespace lists elements whose text is left untouched.
var preserveWhitespace = map[string]bool{
	"pre":      true,
	"code":     true,
	"textarea": true,
}

var nonContentTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// preprocess strips non-content nodes and normalizes markup in place.
// Malformed nodes are skipped; it never fails.
func preprocess(doc *dom.Document) {
	root := doc.Root()

	var remove []dom.NodeID
	doc.Walk(root, func(id dom.NodeID) bool {
		switch doc.Type(id) {
		case html.CommentNode:
			remove = append(remove, id)
			return false
		case html.ElementNode:
			tag := doc.Tag(id)
			if nonContentTags[tag] {
				remove = append(remove, id)
				return false
			}
			if tag != "html" && tag != "body" && !doc.IsVisible(id) {
				remove = append(remove, id)
				return false
			}
		}
		return true
	})
	for _, id := range remove {
		doc.Remove(id)
	}

	for _, font := range doc.Elements(root, "font") {
		doc.SetTag(font, "span")
	}

	if body := doc.Body(); body != dom.None {
		replaceBrs(doc, body)
	}
	collapseWhitespace(doc, root)
}

// replaceBrs turns chains of two or more <br> into paragraph breaks. The
// phrasing content following a chain is moved into a new <p>.
func replaceBrs(doc *dom.Document, root dom.NodeID) {
	for _, br := range doc.Elements(root, "br") {
		if doc.Parent(br) == dom.None {
			continue
		}

		replaced := false
		next := nextContentNode(doc, doc.NextSibling(br))
		for next != dom.None && doc.Tag(next) == "br" {
			replaced = true
			sibling := doc.NextSibling(next)
			doc.Remove(next)
			next = nextContentNode(doc, sibling)
		}
		if !replaced {
			continue
		}

		p := doc.CreateElement("p")
		doc.ReplaceChild(p, br)

		next = doc.NextSibling(p)
		for next != dom.None {
			if doc.Tag(next) == "br" {
				following := nextContentNode(doc, doc.NextSibling(next))
				if following != dom.None && doc.Tag(following) == "br" {
					break
				}
			}
			if !isPhrasingContent(doc, next) {
				break
			}
			sibling := doc.NextSibling(next)
			doc.AppendChild(p, next)
			next = sibling
		}

		for last := doc.LastChild(p); last != dom.None && isWhitespaceNode(doc, last); last = doc.LastChild(p) {
			doc.Remove(last)
		}

		if parent := doc.Parent(p); doc.Tag(parent) == "p" {
			doc.SetTag(parent, "div")
		}
	}
}

// collapseWhitespace replaces whitespace runs in text nodes with a single
// space, except inside preformatted elements.
func collapseWhitespace(doc *dom.Document, root dom.NodeID) {
	var texts []dom.NodeID
	doc.Walk(root, func(id dom.NodeID) bool {
		if doc.IsText(id) {
			texts = append(texts, id)
		}
		return !preserveWhitespace[doc.Tag(id)]
	})
	for _, id := range texts {
		data := doc.Data(id)
		if collapsed := whitespaceRun.ReplaceAllString(data, " "); collapsed != data {
			doc.SetData(id, collapsed)
		}
	}
}
