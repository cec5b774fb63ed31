// Package goquery renders article HTML as plain text with
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readable"
)

// Ensure TextRenderer implements readable.TextRenderer at compile time.
var _ readable.TextRenderer = (*TextRenderer)(nil)

// blockSelector lists the elements rendered as separate paragraphs.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, pre, blockquote, figcaption, dt, dd, th, td"

// TextRenderer renders HTML fragments as paragraphs of plain text.
type TextRenderer struct{}

// NewTextRenderer creates a new TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// RenderText returns the text of the innermost block elements of html, one
// blank line apart. List items are prefixed with "- " and preformatted text
// keeps its line breaks. A fragment without block elements is rendered as a
// single paragraph.
func (r *TextRenderer) RenderText(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", readable.Errorf(readable.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", readable.Errorf(readable.EINVALID, "failed to parse HTML: %v", err)
	}

	var paragraphs []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if sel.Find(blockSelector).Length() > 0 {
			return
		}
		if text := blockText(sel); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		if text := normalize(doc.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func blockText(sel *goquery.Selection) string {
	switch goquery.NodeName(sel) {
	case "pre":
		return strings.Trim(sel.Text(), "\n")
	case "li":
		if text := normalize(sel.Text()); text != "" {
			return "- " + text
		}
		return ""
	}
	return normalize(sel.Text())
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
