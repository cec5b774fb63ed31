package extract

import (
	"strings"

	"github.com/fwojciec/readable/dom"
)

// cleanTitle picks the article part of a document <title>. Titles joined
// with separators are split and the segment sharing most words with the
// first heading wins; without overlap the longest segment wins. A site name
// left at either end is then stripped.
func cleanTitle(raw, heading, siteName string) string {
	title := dom.NormalizeSpace(raw)
	if title == "" {
		return ""
	}
	if segments := splitTitle(title); len(segments) > 1 {
		title = pickSegment(segments, heading)
	}
	if siteName != "" {
		title = stripSiteName(title, siteName)
	}
	return title
}

func splitTitle(title string) []string {
	var out []string
	for _, s := range titleSeparator.Split(title, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pickSegment(segments []string, heading string) string {
	words := make(map[string]bool)
	for _, t := range tokenize(heading) {
		words[t] = true
	}

	best, bestOverlap := 0, 0
	for i, s := range segments {
		seen := make(map[string]bool)
		overlap := 0
		for _, t := range tokenize(s) {
			if words[t] && !seen[t] {
				seen[t] = true
				overlap++
			}
		}
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if bestOverlap > 0 {
		return segments[best]
	}

	best, bestWords := 0, 0
	for i, s := range segments {
		if n := len(strings.Fields(s)); n > bestWords {
			best, bestWords = i, n
		}
	}
	return segments[best]
}

// stripSiteName removes siteName from the start or end of title, comparing
// words case-insensitively and ignoring punctuation. The title is kept as is
// when nothing else would remain.
func stripSiteName(title, siteName string) string {
	var site []string
	for _, w := range strings.Fields(siteName) {
		if n := normalizeWord(w); n != "" {
			site = append(site, n)
		}
	}
	if len(site) == 0 {
		return title
	}

	words := strings.Fields(title)
	norm := make([]string, len(words))
	for i, w := range words {
		norm[i] = normalizeWord(w)
	}

	// prefix
	i, j := 0, 0
	for i < len(words) && j < len(site) {
		if norm[i] == "" {
			i++
			continue
		}
		if norm[i] != site[j] {
			break
		}
		i++
		j++
	}
	if j == len(site) {
		for i < len(words) && norm[i] == "" {
			i++
		}
		if i < len(words) {
			return strings.Join(words[i:], " ")
		}
	}

	// suffix
	i, j = len(words)-1, len(site)-1
	for i >= 0 && j >= 0 {
		if norm[i] == "" {
			i--
			continue
		}
		if norm[i] != site[j] {
			break
		}
		i--
		j--
	}
	if j < 0 {
		for i >= 0 && norm[i] == "" {
			i--
		}
		if i >= 0 {
			return strings.Join(words[:i+1], " ")
		}
	}
	return title
}

func normalizeWord(w string) string {
	return strings.ToLower(punctuation.ReplaceAllString(w, ""))
}
