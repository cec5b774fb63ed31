package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// mirror is a golang.org/x/net/html copy of a subtree, used for rendering
// and selector matching.
type mirror struct {
	top   NodeID
	byID  map[NodeID]*html.Node
	toID  map[*html.Node]NodeID
	built uint64
}

func (d *Document) buildMirror(top NodeID) *mirror {
	m := &mirror{
		top:   top,
		byID:  make(map[NodeID]*html.Node),
		toID:  make(map[*html.Node]NodeID),
		built: d.version,
	}
	m.byID[top] = d.htmlNode(top)
	m.toID[m.byID[top]] = top
	stack := []NodeID{top}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := m.byID[id]
		for c := d.nodes[id].firstChild; c != None; c = d.nodes[c].next {
			hn := d.htmlNode(c)
			parent.AppendChild(hn)
			m.byID[c] = hn
			m.toID[hn] = c
			if d.nodes[c].firstChild != None {
				stack = append(stack, c)
			}
		}
	}
	return m
}

func (d *Document) htmlNode(id NodeID) *html.Node {
	n := &d.nodes[id]
	hn := &html.Node{
		Type:      n.typ,
		Data:      n.data,
		Namespace: n.ns,
	}
	if n.typ == html.ElementNode {
		hn.DataAtom = atom.Lookup([]byte(n.tag))
	}
	if len(n.attr) > 0 {
		hn.Attr = append([]html.Attribute(nil), n.attr...)
	}
	return hn
}

// topOf returns the outermost ancestor of id.
func (d *Document) topOf(id NodeID) NodeID {
	for d.nodes[id].parent != None {
		id = d.nodes[id].parent
	}
	return id
}

// mirrorFor returns a mirror containing id. The mirror of the attached tree
// is cached until the next mutation.
func (d *Document) mirrorFor(id NodeID) *mirror {
	top := d.topOf(id)
	if top != d.root {
		return d.buildMirror(top)
	}
	if d.mirror == nil || d.mirror.built != d.version {
		d.mirror = d.buildMirror(d.root)
	}
	return d.mirror
}

// Render writes the HTML serialization of id and its descendants to w.
func (d *Document) Render(w io.Writer, id NodeID) error {
	return html.Render(w, d.buildMirror(id).byID[id])
}

// OuterHTML returns the serialization of id including the node itself.
func (d *Document) OuterHTML(id NodeID) (string, error) {
	var b strings.Builder
	if err := d.Render(&b, id); err != nil {
		return "", err
	}
	return b.String(), nil
}

// InnerHTML returns the serialization of the children of id.
func (d *Document) InnerHTML(id NodeID) (string, error) {
	var b strings.Builder
	for c := d.nodes[id].firstChild; c != None; c = d.nodes[c].next {
		if err := d.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// MustCompile compiles a CSS selector and panics on error. It is meant for
// package-level selector variables.
func MustCompile(selector string) cascadia.Matcher {
	return cascadia.MustCompile(selector)
}

// QueryAll returns the descendants of root matching sel in document order.
func (d *Document) QueryAll(root NodeID, sel cascadia.Matcher) []NodeID {
	m := d.mirrorFor(root)
	matches := cascadia.QueryAll(m.byID[root], sel)
	out := make([]NodeID, 0, len(matches))
	for _, hn := range matches {
		out = append(out, m.toID[hn])
	}
	return out
}

// Query returns the first descendant of root matching sel, or None.
func (d *Document) Query(root NodeID, sel cascadia.Matcher) NodeID {
	m := d.mirrorFor(root)
	hn := cascadia.Query(m.byID[root], sel)
	if hn == nil {
		return None
	}
	return m.toID[hn]
}

// Matches reports whether the element id matches sel, taking its ancestors
// into account.
func (d *Document) Matches(id NodeID, sel cascadia.Matcher) bool {
	if !d.IsElement(id) {
		return false
	}
	return sel.Match(d.mirrorFor(id).byID[id])
}
