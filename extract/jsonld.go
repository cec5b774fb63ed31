package extract

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/readable/dom"
	"golang.org/x/net/html"
)

var jsonLDScripts = dom.MustCompile(`script[type="application/ld+json"]`)

// jsonLD holds the article fields of the first schema.org article block.
type jsonLD struct {
	name          string
	headline      string
	byline        string
	excerpt       string
	siteName      string
	publishedTime string
	lang          string
}

// title resolves name and headline. When they differ the one matching the
// document title wins, preferring name.
func (ld jsonLD) title(documentTitle string) string {
	if ld.name != "" && ld.headline != "" && ld.name != ld.headline {
		nameMatches := textSimilarity(ld.name, documentTitle) > 0.75
		headlineMatches := textSimilarity(ld.headline, documentTitle) > 0.75
		if headlineMatches && !nameMatches {
			return ld.headline
		}
		return ld.name
	}
	if ld.name != "" {
		return ld.name
	}
	return ld.headline
}

// readJSONLD scans the application/ld+json blocks of doc. It must run before
// scripts are stripped. Blocks that fail to decode are skipped.
func readJSONLD(doc *dom.Document) jsonLD {
	for _, script := range doc.QueryAll(doc.Root(), jsonLDScripts) {
		content := cdataWrapper.ReplaceAllString(doc.TextContent(script), "")
		var raw any
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			continue
		}
		if obj := articleObject(raw); obj != nil {
			return decodeArticle(obj)
		}
	}
	return jsonLD{}
}

func articleObject(raw any) map[string]any {
	var obj map[string]any
	switch v := raw.(type) {
	case []any:
		obj = findArticle(v)
	case map[string]any:
		obj = v
	}
	if obj == nil || !isSchemaOrg(obj["@context"]) {
		return nil
	}
	if _, ok := obj["@type"]; !ok {
		if graph, ok := obj["@graph"].([]any); ok {
			obj = findArticle(graph)
		}
	}
	if obj == nil || !isArticleType(obj["@type"]) {
		return nil
	}
	return obj
}

func findArticle(items []any) map[string]any {
	for _, it := range items {
		if m, ok := it.(map[string]any); ok && isArticleType(m["@type"]) {
			return m
		}
	}
	return nil
}

func isSchemaOrg(ctx any) bool {
	switch v := ctx.(type) {
	case string:
		return schemaDotOrg.MatchString(v)
	case map[string]any:
		vocab, ok := v["@vocab"].(string)
		return ok && schemaDotOrg.MatchString(vocab)
	case []any:
		for _, c := range v {
			if isSchemaOrg(c) {
				return true
			}
		}
	}
	return false
}

func isArticleType(t any) bool {
	switch v := t.(type) {
	case string:
		return jsonLDArticleTypes.MatchString(v)
	case []any:
		for _, s := range v {
			if str, ok := s.(string); ok && jsonLDArticleTypes.MatchString(str) {
				return true
			}
		}
	}
	return false
}

func decodeArticle(obj map[string]any) jsonLD {
	ld := jsonLD{
		name:          stringField(obj, "name"),
		headline:      stringField(obj, "headline"),
		excerpt:       stringField(obj, "description"),
		publishedTime: stringField(obj, "datePublished"),
		lang:          stringField(obj, "inLanguage"),
	}
	if publisher, ok := obj["publisher"].(map[string]any); ok {
		ld.siteName = stringField(publisher, "name")
	}
	switch author := obj["author"].(type) {
	case map[string]any:
		ld.byline = stringField(author, "name")
	case string:
		ld.byline = unescapeTrim(author)
	case []any:
		var names []string
		for _, a := range author {
			if m, ok := a.(map[string]any); ok {
				if name := stringField(m, "name"); name != "" {
					names = append(names, name)
				}
			}
		}
		ld.byline = strings.Join(names, ", ")
	}
	return ld
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return unescapeTrim(s)
}

func unescapeTrim(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
