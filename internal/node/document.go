package node

// Document is the root of an element tree and owns the single real focus.
type Document struct {
	root   *Node
	active *Node

	onFocus []func(prev, next *Node)
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.root = &Node{ID: "root", doc: d}
	return d
}

// Root returns the document root. Attach elements with Root().Append.
func (d *Document) Root() *Node {
	return d.root
}

// ActiveElement returns the focused node, or nil. A focused node that has
// since been removed is still reported so callers can detect it.
func (d *Document) ActiveElement() *Node {
	return d.active
}

// Focus moves real focus to n. Nodes that cannot take focus are ignored.
func (d *Document) Focus(n *Node) bool {
	if n == nil || n.doc != d || !n.CanFocus() {
		return false
	}
	if n == d.active {
		return true
	}
	prev := d.active
	d.active = n
	for _, fn := range d.onFocus {
		if fn != nil {
			fn(prev, n)
		}
	}
	return true
}

// Blur clears focus.
func (d *Document) Blur() {
	if d.active == nil {
		return
	}
	prev := d.active
	d.active = nil
	for _, fn := range d.onFocus {
		if fn != nil {
			fn(prev, nil)
		}
	}
}

// OnFocusChange registers fn for focus moves and returns an unsubscribe
// function.
func (d *Document) OnFocusChange(fn func(prev, next *Node)) func() {
	d.onFocus = append(d.onFocus, fn)
	idx := len(d.onFocus) - 1
	return func() {
		// Zero out to allow GC, don't reorder
		d.onFocus[idx] = nil
	}
}

// Find returns the connected node with id, or nil.
func (d *Document) Find(id string) *Node {
	var found *Node
	d.root.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// At returns the deepest visible node whose rect contains (x, y). Later
// siblings win over earlier ones, matching paint order.
func (d *Document) At(x, y int) *Node {
	return deepestAt(d.root, x, y)
}

func deepestAt(n *Node, x, y int) *Node {
	if n.Hidden {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := deepestAt(n.children[i], x, y); hit != nil {
			return hit
		}
	}
	if n.parent != nil && n.Rect.Contains(x, y) {
		return n
	}
	return nil
}
