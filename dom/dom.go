// Package dom provides an arena-backed, mutable HTML document built on
// golang.org/x/net/html.
//
// Nodes are addressed by NodeID, an index into the document's arena.
// Parent, child and sibling relations are plain indexes, so the tree never
// holds owning pointers. Removed nodes stay in the arena detached from the
// tree and their IDs are never reused.
package dom

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// NodeID identifies a node within a Document.
type NodeID int32

// None is the NodeID of a missing node.
const None NodeID = -1

// ErrConsumed is returned by Consume when the document was already claimed.
var ErrConsumed = errors.New("dom: document already consumed")

type node struct {
	typ  html.NodeType
	tag  string // lower-case element name
	data string // element name as parsed, text or comment data
	ns   string
	attr []html.Attribute

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prev       NodeID
	next       NodeID
}

// Document is a mutable HTML document.
// A Document is not safe for concurrent use.
type Document struct {
	nodes    []node
	root     NodeID
	consumed bool

	// version changes on every structural mutation; it invalidates the
	// mirror used for selector queries.
	version uint64
	mirror  *mirror
}

// Parse parses HTML from r. The parser recovers from malformed markup the way
// browsers do, so any input yields a document.
func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{}
	d.root = d.importTree(n)
	return d, nil
}

// ParseString parses HTML from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) importTree(src *html.Node) NodeID {
	rootID := d.importNode(src)
	type frame struct {
		src *html.Node
		id  NodeID
	}
	stack := []frame{{src: src, id: rootID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := f.src.FirstChild; c != nil; c = c.NextSibling {
			id := d.importNode(c)
			d.link(f.id, id, None)
			if c.FirstChild != nil {
				stack = append(stack, frame{src: c, id: id})
			}
		}
	}
	return rootID
}

func (d *Document) importNode(n *html.Node) NodeID {
	nd := node{
		typ:        n.Type,
		data:       n.Data,
		ns:         n.Namespace,
		parent:     None,
		firstChild: None,
		lastChild:  None,
		prev:       None,
		next:       None,
	}
	if n.Type == html.ElementNode {
		nd.tag = strings.ToLower(n.Data)
	}
	if len(n.Attr) > 0 {
		nd.attr = make([]html.Attribute, len(n.Attr))
		copy(nd.attr, n.Attr)
	}
	d.nodes = append(d.nodes, nd)
	return NodeID(len(d.nodes) - 1)
}

// Consume marks the document as claimed by a single extraction. It returns
// ErrConsumed if the document was already claimed.
func (d *Document) Consume() error {
	if d.consumed {
		return ErrConsumed
	}
	d.consumed = true
	return nil
}

// Clone returns an independent deep copy of the document. Node IDs of the
// original are valid in the copy and refer to the same nodes. The copy is
// not consumed.
func (d *Document) Clone() *Document {
	c := &Document{
		nodes: make([]node, len(d.nodes)),
		root:  d.root,
	}
	copy(c.nodes, d.nodes)
	for i := range c.nodes {
		if a := c.nodes[i].attr; len(a) > 0 {
			c.nodes[i].attr = append([]html.Attribute(nil), a...)
		}
	}
	return c
}

// Len returns the number of nodes ever allocated in the document, attached
// or not. Every NodeID of the document is below Len.
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Root returns the document node.
func (d *Document) Root() NodeID {
	return d.root
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() NodeID {
	for c := d.nodes[d.root].firstChild; c != None; c = d.nodes[c].next {
		if d.nodes[c].typ == html.ElementNode {
			return c
		}
	}
	return None
}

// Head returns the <head> element.
func (d *Document) Head() NodeID {
	return d.childByTag(d.DocumentElement(), "head")
}

// Body returns the <body> element.
func (d *Document) Body() NodeID {
	return d.childByTag(d.DocumentElement(), "body")
}

func (d *Document) childByTag(parent NodeID, tag string) NodeID {
	if parent == None {
		return None
	}
	for c := d.nodes[parent].firstChild; c != None; c = d.nodes[c].next {
		if d.nodes[c].tag == tag {
			return c
		}
	}
	return None
}

// Type returns the node type.
func (d *Document) Type(id NodeID) html.NodeType {
	return d.nodes[id].typ
}

// IsElement reports whether id is an element node.
func (d *Document) IsElement(id NodeID) bool {
	return d.valid(id) && d.nodes[id].typ == html.ElementNode
}

// IsText reports whether id is a text node.
func (d *Document) IsText(id NodeID) bool {
	return d.valid(id) && d.nodes[id].typ == html.TextNode
}

// Tag returns the lower-case tag name of an element, or "" for other nodes.
func (d *Document) Tag(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].tag
}

// Data returns the text of a text or comment node.
func (d *Document) Data(id NodeID) string {
	return d.nodes[id].data
}

// SetData replaces the text of a text or comment node.
func (d *Document) SetData(id NodeID, data string) {
	if d.nodes[id].typ == html.ElementNode {
		return
	}
	d.nodes[id].data = data
	d.touch()
}

// SetTag renames an element, keeping its attributes and children.
func (d *Document) SetTag(id NodeID, tag string) {
	n := &d.nodes[id]
	if n.typ != html.ElementNode {
		return
	}
	n.tag = strings.ToLower(tag)
	n.data = n.tag
	n.ns = ""
	d.touch()
}

// Attr returns the value of an attribute and whether it is present.
func (d *Document) Attr(id NodeID, key string) (string, bool) {
	for _, a := range d.nodes[id].attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of an attribute or def when it is missing.
func (d *Document) AttrOr(id NodeID, key, def string) string {
	if v, ok := d.Attr(id, key); ok {
		return v
	}
	return def
}

// HasAttr reports whether the element carries the attribute.
func (d *Document) HasAttr(id NodeID, key string) bool {
	_, ok := d.Attr(id, key)
	return ok
}

// Attrs returns a copy of the element's attributes.
func (d *Document) Attrs(id NodeID) []html.Attribute {
	return append([]html.Attribute(nil), d.nodes[id].attr...)
}

// SetAttr sets an attribute, adding it if missing.
func (d *Document) SetAttr(id NodeID, key, val string) {
	n := &d.nodes[id]
	for i := range n.attr {
		if n.attr[i].Namespace == "" && n.attr[i].Key == key {
			n.attr[i].Val = val
			d.touch()
			return
		}
	}
	n.attr = append(n.attr, html.Attribute{Key: key, Val: val})
	d.touch()
}

// RemoveAttr deletes an attribute.
func (d *Document) RemoveAttr(id NodeID, key string) {
	n := &d.nodes[id]
	for i := range n.attr {
		if n.attr[i].Namespace == "" && n.attr[i].Key == key {
			n.attr = append(n.attr[:i], n.attr[i+1:]...)
			d.touch()
			return
		}
	}
}

// Parent returns the parent node or None.
func (d *Document) Parent(id NodeID) NodeID {
	return d.nodes[id].parent
}

// FirstChild returns the first child node or None.
func (d *Document) FirstChild(id NodeID) NodeID {
	return d.nodes[id].firstChild
}

// LastChild returns the last child node or None.
func (d *Document) LastChild(id NodeID) NodeID {
	return d.nodes[id].lastChild
}

// NextSibling returns the next sibling node or None.
func (d *Document) NextSibling(id NodeID) NodeID {
	return d.nodes[id].next
}

// PrevSibling returns the previous sibling node or None.
func (d *Document) PrevSibling(id NodeID) NodeID {
	return d.nodes[id].prev
}

// ChildNodes returns a snapshot of all children of id.
func (d *Document) ChildNodes(id NodeID) []NodeID {
	var out []NodeID
	for c := d.nodes[id].firstChild; c != None; c = d.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// Children returns a snapshot of the element children of id.
func (d *Document) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := d.nodes[id].firstChild; c != None; c = d.nodes[c].next {
		if d.nodes[c].typ == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstElementChild returns the first element child or None.
func (d *Document) FirstElementChild(id NodeID) NodeID {
	for c := d.nodes[id].firstChild; c != None; c = d.nodes[c].next {
		if d.nodes[c].typ == html.ElementNode {
			return c
		}
	}
	return None
}

// NextElementSibling returns the next element sibling or None.
func (d *Document) NextElementSibling(id NodeID) NodeID {
	for s := d.nodes[id].next; s != None; s = d.nodes[s].next {
		if d.nodes[s].typ == html.ElementNode {
			return s
		}
	}
	return None
}

// PrevElementSibling returns the previous element sibling or None.
func (d *Document) PrevElementSibling(id NodeID) NodeID {
	for s := d.nodes[id].prev; s != None; s = d.nodes[s].prev {
		if d.nodes[s].typ == html.ElementNode {
			return s
		}
	}
	return None
}

// Ancestors returns the element ancestors of id, nearest first. A maxDepth
// above zero limits the number of ancestors returned.
func (d *Document) Ancestors(id NodeID, maxDepth int) []NodeID {
	var out []NodeID
	for p := d.nodes[id].parent; p != None; p = d.nodes[p].parent {
		if d.nodes[p].typ != html.ElementNode {
			break
		}
		out = append(out, p)
		if maxDepth > 0 && len(out) == maxDepth {
			break
		}
	}
	return out
}

// HasAncestorTag reports whether one of the nearest maxDepth ancestors of id
// has the given tag. A maxDepth of zero or less checks all ancestors.
func (d *Document) HasAncestorTag(id NodeID, tag string, maxDepth int) bool {
	depth := 0
	for p := d.nodes[id].parent; p != None; p = d.nodes[p].parent {
		if maxDepth > 0 && depth == maxDepth {
			return false
		}
		if d.nodes[p].tag == tag {
			return true
		}
		depth++
	}
	return false
}

// Contains reports whether id is ancestor itself or one of its descendants.
func (d *Document) Contains(ancestor, id NodeID) bool {
	for n := id; n != None; n = d.nodes[n].parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Attached reports whether id is still part of the document tree.
func (d *Document) Attached(id NodeID) bool {
	return d.Contains(d.root, id)
}

// Walk visits root and its descendants in document order. When fn returns
// false the children of the visited node are skipped. fn must not change
// the structure of the tree.
func (d *Document) Walk(root NodeID, fn func(id NodeID) bool) {
	id := root
	for {
		if fn(id) && d.nodes[id].firstChild != None {
			id = d.nodes[id].firstChild
			continue
		}
		for id != root && d.nodes[id].next == None {
			id = d.nodes[id].parent
		}
		if id == root {
			return
		}
		id = d.nodes[id].next
	}
}

// Elements returns a snapshot of the element descendants of root in document
// order, excluding root. With tags given, only elements with one of those
// tags are returned.
func (d *Document) Elements(root NodeID, tags ...string) []NodeID {
	var out []NodeID
	d.Walk(root, func(id NodeID) bool {
		n := &d.nodes[id]
		if id == root || n.typ != html.ElementNode {
			return true
		}
		if len(tags) == 0 {
			out = append(out, id)
			return true
		}
		for _, t := range tags {
			if n.tag == t {
				out = append(out, id)
				break
			}
		}
		return true
	})
	return out
}

// CountElements returns the number of elements under root, including root.
func (d *Document) CountElements(root NodeID) int {
	count := 0
	d.Walk(root, func(id NodeID) bool {
		if d.nodes[id].typ == html.ElementNode {
			count++
		}
		return true
	})
	return count
}

// TextContent returns the concatenated text of id and its descendants.
func (d *Document) TextContent(id NodeID) string {
	if d.nodes[id].typ == html.TextNode {
		return d.nodes[id].data
	}
	var b strings.Builder
	d.Walk(id, func(n NodeID) bool {
		if d.nodes[n].typ == html.TextNode {
			b.WriteString(d.nodes[n].data)
		}
		return d.nodes[n].typ != html.CommentNode
	})
	return b.String()
}

// InnerText returns the text of id with runs of whitespace collapsed to a
// single space and surrounding whitespace trimmed.
func (d *Document) InnerText(id NodeID) string {
	return NormalizeSpace(d.TextContent(id))
}

// TextLength returns the number of characters of InnerText(id).
func (d *Document) TextLength(id NodeID) int {
	return utf8.RuneCountInString(d.InnerText(id))
}

// NormalizeSpace collapses runs of whitespace into single spaces and trims
// the result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsVisible reports whether an element is rendered according to its own
// style, hidden and aria-hidden attributes.
func (d *Document) IsVisible(id NodeID) bool {
	if d.nodes[id].typ != html.ElementNode {
		return true
	}
	if style, ok := d.Attr(id, "style"); ok {
		s := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
			return false
		}
	}
	if d.HasAttr(id, "hidden") {
		return false
	}
	if v, ok := d.Attr(id, "aria-hidden"); ok && v == "true" {
		return strings.Contains(d.AttrOr(id, "class", ""), "fallback-image")
	}
	return true
}

func (d *Document) touch() {
	d.version++
}
