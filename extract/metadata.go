package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable/dom"
)

var (
	metaTags       = dom.MustCompile("meta")
	titleTag       = dom.MustCompile("title")
	firstHeading   = dom.MustCompile("h1")
	baseHref       = dom.MustCompile("base[href]")
	itempropAuthor = dom.MustCompile(`[itemprop*="name"]`)
)

// metadata is the record built from structured data, meta tags and the
// document structure. Empty strings mean absent.
type metadata struct {
	title         string
	byline        string
	excerpt       string
	siteName      string
	lang          string
	publishedTime string
	dir           string

	// bylineNode is the element the byline was read from, or dom.None when
	// it came from structured data or meta tags.
	bylineNode dom.NodeID
}

// readMetadata scans doc without modifying it. Sources are tried in order:
// JSON-LD, Open Graph and Twitter properties, generic meta names, and the
// document structure.
func readMetadata(doc *dom.Document, ld jsonLD) *metadata {
	values := metaValues(doc)
	root := doc.Root()
	htmlEl := doc.DocumentElement()

	var heading string
	if h1 := doc.Query(root, firstHeading); h1 != dom.None {
		heading = doc.InnerText(h1)
	}
	var rawTitle string
	if t := doc.Query(root, titleTag); t != dom.None {
		rawTitle = doc.TextContent(t)
	}

	m := &metadata{bylineNode: dom.None}
	m.siteName = firstOf(ld.siteName, values["og:site_name"])

	documentTitle := cleanTitle(rawTitle, heading, m.siteName)
	m.title = firstOf(
		ld.title(documentTitle),
		values["og:title"],
		values["twitter:title"],
		values["dc:title"],
		values["dcterm:title"],
		values["weibo:article:title"],
		values["weibo:webpage:title"],
		values["title"],
		values["parsely-title"],
		documentTitle,
		heading,
	)

	var articleAuthor string
	if a := values["article:author"]; !isURL(a) {
		articleAuthor = a
	}
	m.byline = firstOf(
		ld.byline,
		articleAuthor,
		values["dc:creator"],
		values["dcterm:creator"],
		values["author"],
		values["parsely-author"],
	)
	if m.byline == "" {
		m.byline, m.bylineNode = findByline(doc)
	}

	m.excerpt = firstOf(
		ld.excerpt,
		values["og:description"],
		values["twitter:description"],
		values["dc:description"],
		values["dcterm:description"],
		values["weibo:article:description"],
		values["weibo:webpage:description"],
		values["description"],
	)

	m.publishedTime = firstOf(
		ld.publishedTime,
		values["article:published_time"],
		values["parsely-pub-date"],
	)

	var htmlLang, htmlDir string
	if htmlEl != dom.None {
		htmlLang = strings.TrimSpace(doc.AttrOr(htmlEl, "lang", ""))
		htmlDir = strings.TrimSpace(doc.AttrOr(htmlEl, "dir", ""))
	}
	m.lang = firstOf(ld.lang, values["content-language"], htmlLang)
	m.dir = htmlDir
	return m
}

// metaValues collects <meta> contents keyed by their normalized property or
// name, e.g. "og:title" or "parsely-author".
func metaValues(doc *dom.Document) map[string]string {
	values := make(map[string]string)
	for _, meta := range doc.QueryAll(doc.Root(), metaTags) {
		content := strings.TrimSpace(doc.AttrOr(meta, "content", ""))
		if content == "" {
			continue
		}

		if equiv := doc.AttrOr(meta, "http-equiv", ""); strings.EqualFold(equiv, "content-language") {
			lang, _, _ := strings.Cut(content, ",")
			values["content-language"] = strings.TrimSpace(lang)
			continue
		}

		matched := false
		if property := doc.AttrOr(meta, "property", ""); property != "" {
			for _, match := range metaProperty.FindAllString(property, -1) {
				values[normalizeMetaKey(match)] = content
				matched = true
			}
		}
		if name := doc.AttrOr(meta, "name", ""); !matched && name != "" && metaName.MatchString(name) {
			key := strings.ReplaceAll(normalizeMetaKey(name), ".", ":")
			values[key] = content
		}
	}
	return values
}

func normalizeMetaKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// findByline returns the text of the first visible element marked up as an
// author credit.
func findByline(doc *dom.Document) (string, dom.NodeID) {
	body := doc.Body()
	if body == dom.None {
		return "", dom.None
	}
	for _, el := range doc.Elements(body) {
		if !doc.IsVisible(el) || !isBylineCandidate(doc, el) {
			continue
		}
		text := doc.InnerText(el)
		if n := utf8.RuneCountInString(text); n == 0 || n >= 100 {
			continue
		}
		if name := doc.Query(el, itempropAuthor); name != dom.None {
			if t := doc.InnerText(name); t != "" {
				text = t
			}
		}
		return text, el
	}
	return "", dom.None
}

func isBylineCandidate(doc *dom.Document, id dom.NodeID) bool {
	if doc.AttrOr(id, "rel", "") == "author" {
		return true
	}
	if strings.Contains(doc.AttrOr(id, "itemprop", ""), "author") {
		return true
	}
	return bylineClass.MatchString(classAndID(doc, id))
}

// baseURL returns the URL relative links resolve against: the document's
// <base href> resolved against documentURI, or documentURI itself.
func baseURL(doc *dom.Document, documentURI *url.URL) *url.URL {
	if b := doc.Query(doc.Root(), baseHref); b != dom.None {
		if ref, err := url.Parse(strings.TrimSpace(doc.AttrOr(b, "href", ""))); err == nil {
			if documentURI != nil {
				return documentURI.ResolveReference(ref)
			}
			if ref.IsAbs() {
				return ref
			}
		}
	}
	return documentURI
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
