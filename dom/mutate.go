package dom

import "golang.org/x/net/html"

// CreateElement allocates a detached element.
func (d *Document) CreateElement(tag string) NodeID {
	d.nodes = append(d.nodes, node{
		typ:        html.ElementNode,
		tag:        tag,
		data:       tag,
		parent:     None,
		firstChild: None,
		lastChild:  None,
		prev:       None,
		next:       None,
	})
	return NodeID(len(d.nodes) - 1)
}

// CreateText allocates a detached text node.
func (d *Document) CreateText(text string) NodeID {
	d.nodes = append(d.nodes, node{
		typ:        html.TextNode,
		data:       text,
		parent:     None,
		firstChild: None,
		lastChild:  None,
		prev:       None,
		next:       None,
	})
	return NodeID(len(d.nodes) - 1)
}

// Remove detaches id, with its subtree, from its parent.
func (d *Document) Remove(id NodeID) {
	n := &d.nodes[id]
	if n.parent == None {
		return
	}
	p := &d.nodes[n.parent]
	if n.prev != None {
		d.nodes[n.prev].next = n.next
	} else {
		p.firstChild = n.next
	}
	if n.next != None {
		d.nodes[n.next].prev = n.prev
	} else {
		p.lastChild = n.prev
	}
	n.parent, n.prev, n.next = None, None, None
	d.touch()
}

// AppendChild moves child to the end of parent's children.
func (d *Document) AppendChild(parent, child NodeID) {
	d.InsertBefore(parent, child, None)
}

// InsertBefore moves child into parent before ref. A ref of None appends.
func (d *Document) InsertBefore(parent, child, ref NodeID) {
	if child == ref || d.Contains(child, parent) {
		return
	}
	d.Remove(child)
	d.link(parent, child, ref)
	d.touch()
}

// ReplaceChild puts replacement where old is and detaches old.
func (d *Document) ReplaceChild(replacement, old NodeID) {
	parent := d.nodes[old].parent
	if parent == None || replacement == old {
		return
	}
	d.InsertBefore(parent, replacement, old)
	d.Remove(old)
}

// SetText replaces the children of an element with a single text node.
func (d *Document) SetText(id NodeID, text string) {
	if d.nodes[id].typ != html.ElementNode {
		d.SetData(id, text)
		return
	}
	for c := d.nodes[id].firstChild; c != None; c = d.nodes[id].firstChild {
		d.Remove(c)
	}
	if text != "" {
		d.AppendChild(id, d.CreateText(text))
	}
}

// link attaches a detached child to parent before ref.
func (d *Document) link(parent, child, ref NodeID) {
	c := &d.nodes[child]
	c.parent = parent
	if ref == None {
		last := d.nodes[parent].lastChild
		c.prev = last
		c.next = None
		if last != None {
			d.nodes[last].next = child
		} else {
			d.nodes[parent].firstChild = child
		}
		d.nodes[parent].lastChild = child
		return
	}
	prev := d.nodes[ref].prev
	c.prev = prev
	c.next = ref
	d.nodes[ref].prev = child
	if prev != None {
		d.nodes[prev].next = child
	} else {
		d.nodes[parent].firstChild = child
	}
}
