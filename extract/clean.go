package extract

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable/dom"
)

const (
	// linkDensityTextFloor is the text length above which link-dense nodes
	// are kept.
	linkDensityTextFloor = 200

	shareElementThreshold = 500
)

// clean tidies the gathered content in place: disallowed markup first, then
// link-dense and empty nodes, then single-cell tables.
func (ps *pass) clean(root dom.NodeID) {
	ps.stripAttributes(root)
	ps.fixLazyImages(root)
	dataTables := ps.markDataTables(root)

	ps.cleanConditionally(root, dataTables, "form", "fieldset")
	ps.removeTags(root, "object", "embed", "footer", "link", "aside")
	ps.removeShareElements(root)
	ps.removeTags(root, "iframe", "input", "textarea", "select", "button")
	ps.removeNegativeHeaders(root)
	ps.cleanConditionally(root, dataTables, "table", "ul", "ol", "div", "section")
	for _, h1 := range ps.doc.Elements(root, "h1") {
		ps.doc.SetTag(h1, "h2")
	}

	ps.removeEmpty(root)
	ps.removeBrBeforeParagraph(root)
	ps.collapseSingleCellTables(root)
}

// postProcess runs on the wrapped content: URLs, nested wrappers and
// classes.
func (ps *pass) postProcess(root dom.NodeID) {
	ps.fixURLs(root)
	ps.simplifyNested(root)
	ps.cleanClasses(root)
}

// stripAttributes removes presentational attributes and event handlers.
// SVG subtrees are left alone.
func (ps *pass) stripAttributes(root dom.NodeID) {
	doc := ps.doc
	doc.Walk(root, func(id dom.NodeID) bool {
		if !doc.IsElement(id) {
			return true
		}
		tag := doc.Tag(id)
		if tag == "svg" {
			return false
		}
		for _, attr := range presentationalAttrs {
			doc.RemoveAttr(id, attr)
		}
		if deprecatedSizeAttrElems[tag] {
			doc.RemoveAttr(id, "width")
			doc.RemoveAttr(id, "height")
		}
		for _, a := range doc.Attrs(id) {
			if strings.HasPrefix(a.Key, "on") {
				doc.RemoveAttr(id, a.Key)
			}
		}
		return true
	})
}

// fixLazyImages copies image URLs kept in data attributes into src and
// srcset, and drops tiny base64 placeholders.
func (ps *pass) fixLazyImages(root dom.NodeID) {
	doc := ps.doc
	for _, el := range doc.Elements(root, "img", "picture", "figure") {
		src := doc.AttrOr(el, "src", "")
		if m := base64DataURL.FindStringSubmatch(src); m != nil {
			if m[1] == "image/svg+xml" {
				continue
			}
			if ps.hasImageAttr(el) {
				start := strings.Index(strings.ToLower(src), "base64") + len("base64")
				if len(strings.TrimLeft(src[start:], " \t,")) < 133 {
					doc.RemoveAttr(el, "src")
					src = ""
				}
			}
		}

		srcset := doc.AttrOr(el, "srcset", "")
		if (src != "" || (srcset != "" && srcset != "null")) &&
			!strings.Contains(strings.ToLower(doc.AttrOr(el, "class", "")), "lazy") {
			continue
		}

		for _, a := range doc.Attrs(el) {
			if a.Key == "src" || a.Key == "srcset" || a.Key == "alt" {
				continue
			}
			var target string
			switch {
			case lazyImageSet.MatchString(a.Val):
				target = "srcset"
			case lazyImageSrc.MatchString(a.Val):
				target = "src"
			default:
				continue
			}
			switch doc.Tag(el) {
			case "img", "picture":
				doc.SetAttr(el, target, a.Val)
			case "figure":
				if len(doc.Elements(el, "img", "picture")) == 0 {
					img := doc.CreateElement("img")
					doc.SetAttr(img, target, a.Val)
					doc.AppendChild(el, img)
				}
			}
		}
	}
}

func (ps *pass) hasImageAttr(id dom.NodeID) bool {
	for _, a := range ps.doc.Attrs(id) {
		if a.Key != "src" && imageExtension.MatchString(a.Val) {
			return true
		}
	}
	return false
}

// markDataTables returns the tables below root that hold data rather than
// layout.
func (ps *pass) markDataTables(root dom.NodeID) map[dom.NodeID]bool {
	tables := make(map[dom.NodeID]bool)
	for _, t := range ps.doc.Elements(root, "table") {
		if ps.isDataTable(t) {
			tables[t] = true
		}
	}
	return tables
}

func (ps *pass) isDataTable(table dom.NodeID) bool {
	doc := ps.doc
	if doc.AttrOr(table, "role", "") == "presentation" {
		return false
	}
	if doc.AttrOr(table, "datatable", "") == "0" {
		return false
	}
	if doc.HasAttr(table, "summary") {
		return true
	}
	if caption := doc.Elements(table, "caption"); len(caption) > 0 && doc.FirstChild(caption[0]) != dom.None {
		return true
	}
	if len(doc.Elements(table, "col", "colgroup", "tfoot", "thead", "th")) > 0 {
		return true
	}
	if len(doc.Elements(table, "table")) > 0 {
		return false
	}
	rows, columns := ps.tableSize(table)
	if rows == 1 || columns == 1 {
		return false
	}
	if rows >= 10 || columns > 4 {
		return true
	}
	return rows*columns > 10
}

func (ps *pass) tableSize(table dom.NodeID) (rows, columns int) {
	doc := ps.doc
	for _, tr := range doc.Elements(table, "tr") {
		rows += spanAttr(doc, tr, "rowspan")
		cells := 0
		for _, cell := range doc.Children(tr) {
			if t := doc.Tag(cell); t == "td" || t == "th" {
				cells += spanAttr(doc, cell, "colspan")
			}
		}
		columns = max(columns, cells)
	}
	return rows, columns
}

func spanAttr(doc *dom.Document, id dom.NodeID, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(doc.AttrOr(id, key, "")))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (ps *pass) inDataTable(id dom.NodeID, dataTables map[dom.NodeID]bool) bool {
	for _, a := range ps.doc.Ancestors(id, 0) {
		if dataTables[a] {
			return true
		}
	}
	return false
}

// cleanConditionally removes nodes with the given tags that look like
// boilerplate: negatively weighted, link-dense, form-heavy or image
// galleries without text.
func (ps *pass) cleanConditionally(root dom.NodeID, dataTables map[dom.NodeID]bool, tags ...string) {
	if !ps.flags.cleanConditionally {
		return
	}
	var remove []dom.NodeID
	for _, el := range ps.doc.Elements(root, tags...) {
		if ps.shouldRemove(el, dataTables) {
			remove = append(remove, el)
		}
	}
	for _, el := range remove {
		ps.debug("removing conditionally", "tag", ps.doc.Tag(el), "match", classAndID(ps.doc, el))
		ps.doc.Remove(el)
	}
}

func (ps *pass) shouldRemove(el dom.NodeID, dataTables map[dom.NodeID]bool) bool {
	doc := ps.doc
	tag := doc.Tag(el)
	isList := tag == "ul" || tag == "ol"

	if tag == "table" && dataTables[el] {
		return false
	}
	if ps.inDataTable(el, dataTables) {
		return false
	}
	if doc.HasAncestorTag(el, "code", 0) || doc.HasAncestorTag(el, "pre", 0) {
		return false
	}

	weight := ps.classWeight(el)
	if weight < 0 {
		return true
	}

	text := doc.InnerText(el)
	if commaCount(text) >= 10 {
		return false
	}

	p := len(doc.Elements(el, "p"))
	img := len(doc.Elements(el, "img"))
	li := len(doc.Elements(el, "li")) - 100
	input := len(doc.Elements(el, "input"))
	headingDensity := textDensity(doc, el, headingElems...)
	length := utf8.RuneCountInString(text)
	ld := linkDensity(doc, el)
	limit := ps.p.opts.LinkDensityModifier
	inFigure := doc.HasAncestorTag(el, "figure", 0)

	embeds := 0
	for _, e := range doc.Elements(el, "object", "embed", "iframe") {
		if !ps.allowsVideo(e) {
			embeds++
		}
	}

	switch {
	case img > 1 && float64(p)/float64(img) < 0.5 && !inFigure:
		return true
	case !isList && li > p:
		return true
	case float64(input) > math.Floor(float64(p)/3):
		return true
	case !isList && headingDensity < 0.9 && length < 25 && (img == 0 || img > 2) && !inFigure:
		return true
	case !isList && length > 0 && ld >= 1:
		return true
	case length <= linkDensityTextFloor && ld > 0.5+limit:
		return true
	case length <= linkDensityTextFloor && !isList && weight < 25 && ld > 0.2+limit:
		return true
	case (embeds == 1 && length < 75) || embeds > 1:
		return true
	}
	return false
}

// allowsVideo reports embeds pointing at an allowed video host.
func (ps *pass) allowsVideo(id dom.NodeID) bool {
	for _, a := range ps.doc.Attrs(id) {
		if ps.p.videos.MatchString(a.Val) {
			return true
		}
	}
	if ps.doc.Tag(id) == "object" {
		inner, err := ps.doc.InnerHTML(id)
		return err == nil && ps.p.videos.MatchString(inner)
	}
	return false
}

// removeTags removes elements with the given tags, except allowed video
// embeds.
func (ps *pass) removeTags(root dom.NodeID, tags ...string) {
	var remove []dom.NodeID
	for _, el := range ps.doc.Elements(root, tags...) {
		switch ps.doc.Tag(el) {
		case "object", "embed", "iframe":
			if ps.allowsVideo(el) {
				continue
			}
		}
		remove = append(remove, el)
	}
	for _, el := range remove {
		ps.doc.Remove(el)
	}
}

// removeShareElements drops short sharing widgets nested in the content.
func (ps *pass) removeShareElements(root dom.NodeID) {
	doc := ps.doc
	var remove []dom.NodeID
	for _, top := range doc.Children(root) {
		for _, el := range doc.Elements(top) {
			if shareElements.MatchString(classAndID(doc, el)) && textLength(doc, el) < shareElementThreshold {
				remove = append(remove, el)
			}
		}
	}
	for _, el := range remove {
		doc.Remove(el)
	}
}

func (ps *pass) removeNegativeHeaders(root dom.NodeID) {
	var remove []dom.NodeID
	for _, h := range ps.doc.Elements(root, "h1", "h2") {
		if ps.classWeight(h) < 0 {
			remove = append(remove, h)
		}
	}
	for _, h := range remove {
		ps.doc.Remove(h)
	}
}

// emptyExempt are elements kept even without text or media.
var emptyExempt = map[string]bool{
	"br": true, "hr": true, "wbr": true,
	"td": true, "th": true, "tr": true,
	"thead": true, "tbody": true, "tfoot": true,
	"col": true, "colgroup": true,
}

// removeEmpty removes elements with no text, no image and no embedded
// media.
func (ps *pass) removeEmpty(root dom.NodeID) {
	doc := ps.doc
	var remove []dom.NodeID
	for _, el := range doc.Elements(root) {
		tag := doc.Tag(el)
		if emptyExempt[tag] || mediaElems[tag] {
			continue
		}
		text := doc.TextContent(el)
		if strings.TrimSpace(text) != "" || hasMedia(doc, el) {
			continue
		}
		// whitespace inside inline elements separates words
		if phrasingElems[tag] && text != "" {
			continue
		}
		remove = append(remove, el)
	}
	for _, el := range remove {
		doc.Remove(el)
	}
}

func (ps *pass) removeBrBeforeParagraph(root dom.NodeID) {
	doc := ps.doc
	var remove []dom.NodeID
	for _, br := range doc.Elements(root, "br") {
		if next := nextContentNode(doc, doc.NextSibling(br)); next != dom.None && doc.Tag(next) == "p" {
			remove = append(remove, br)
		}
	}
	for _, br := range remove {
		doc.Remove(br)
	}
}

// collapseSingleCellTables replaces tables with a single cell by the cell's
// content, as a paragraph when it is all phrasing content.
func (ps *pass) collapseSingleCellTables(root dom.NodeID) {
	doc := ps.doc
	for _, table := range doc.Elements(root, "table") {
		if !doc.Contains(root, table) {
			continue
		}
		tbody := table
		if hasSingleTagInside(doc, table, "tbody") {
			tbody = doc.FirstElementChild(table)
		}
		if !hasSingleTagInside(doc, tbody, "tr") {
			continue
		}
		row := doc.FirstElementChild(tbody)
		if !hasSingleTagInside(doc, row, "td") {
			continue
		}
		cell := doc.FirstElementChild(row)
		tag := "p"
		for c := doc.FirstChild(cell); c != dom.None; c = doc.NextSibling(c) {
			if !isPhrasingContent(doc, c) {
				tag = "div"
				break
			}
		}
		doc.SetTag(cell, tag)
		for _, a := range doc.Attrs(cell) {
			doc.RemoveAttr(cell, a.Key)
		}
		doc.ReplaceChild(cell, table)
	}
}

// fixURLs resolves links and media sources against the base URL.
// javascript: links are replaced by their content.
func (ps *pass) fixURLs(root dom.NodeID) {
	doc := ps.doc
	for _, a := range doc.Elements(root, "a") {
		href, ok := doc.Attr(a, "href")
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
			unwrapLink(doc, a)
			continue
		}
		if ps.base == nil {
			continue
		}
		// In-page anchors stay relative unless a <base> points elsewhere.
		if strings.HasPrefix(href, "#") && sameURL(ps.base, ps.documentURI) {
			continue
		}
		doc.SetAttr(a, "href", resolveURL(ps.base, href))
	}

	if ps.base == nil {
		return
	}
	for _, el := range doc.Elements(root, "img", "picture", "figure", "video", "audio", "source") {
		for _, key := range []string{"src", "poster"} {
			if v, ok := doc.Attr(el, key); ok && v != "" {
				doc.SetAttr(el, key, resolveURL(ps.base, v))
			}
		}
		if v, ok := doc.Attr(el, "srcset"); ok && v != "" {
			doc.SetAttr(el, "srcset", resolveSrcset(ps.base, v))
		}
	}
}

func unwrapLink(doc *dom.Document, a dom.NodeID) {
	children := doc.ChildNodes(a)
	if len(children) == 1 && doc.IsText(children[0]) {
		doc.ReplaceChild(children[0], a)
		return
	}
	span := doc.CreateElement("span")
	for _, c := range children {
		doc.AppendChild(span, c)
	}
	doc.ReplaceChild(span, a)
}

func sameURL(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func resolveSrcset(base *url.URL, srcset string) string {
	if strings.Contains(srcset, "data:") {
		return srcset
	}
	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		fields[0] = resolveURL(base, fields[0])
		parts[i] = strings.Join(fields, " ")
	}
	return strings.Join(parts, ", ")
}

// simplifyNested removes empty wrappers and replaces wrappers holding a
// single div or section by that child.
func (ps *pass) simplifyNested(root dom.NodeID) {
	doc := ps.doc
	for _, el := range doc.Elements(root, "div", "section") {
		if !doc.Contains(root, el) || strings.HasPrefix(doc.AttrOr(el, "id", ""), "readability") {
			continue
		}
		if isElementWithoutContent(doc, el) {
			doc.Remove(el)
			continue
		}
		if hasSingleTagInside(doc, el, "div") || hasSingleTagInside(doc, el, "section") {
			child := doc.FirstElementChild(el)
			for _, a := range doc.Attrs(el) {
				doc.SetAttr(child, a.Key, a.Val)
			}
			doc.ReplaceChild(child, el)
		}
	}
}

// cleanClasses drops classes that are not preserved.
func (ps *pass) cleanClasses(root dom.NodeID) {
	if ps.p.opts.KeepClasses {
		return
	}
	doc := ps.doc
	doc.Walk(root, func(id dom.NodeID) bool {
		if !doc.IsElement(id) {
			return true
		}
		class, ok := doc.Attr(id, "class")
		if !ok {
			return true
		}
		var kept []string
		for _, c := range strings.Fields(class) {
			if ps.p.preserve[c] {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			doc.RemoveAttr(id, "class")
		} else {
			doc.SetAttr(id, "class", strings.Join(kept, " "))
		}
		return true
	})
}
