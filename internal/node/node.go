// Package node models the element references the rendering layer hands to
// the popup engine: triggers, surfaces, list items and inputs. The engine
// needs containment (is this press inside the surface?), focusability,
// visibility, and text selection; geometry is carried for hit testing and
// positioning but never computed here.
package node

import (
	"unicode/utf8"

	"github.com/wilbur182/disclosure/internal/mouse"
)

// Kind classifies an element for focus handling.
type Kind int

const (
	KindGeneric Kind = iota
	KindButton
	KindTextInput // single or multi line text; selected on initial focus
	KindCheckbox
	KindRadio
	KindSurface
)

// IsTextLike reports whether focusing an element of this kind should select
// its text.
func (k Kind) IsTextLike() bool {
	return k == KindTextInput
}

// Node is one element in a Document tree.
type Node struct {
	ID        string
	Kind      Kind
	Rect      mouse.Rect
	Focusable bool
	Disabled  bool
	Hidden    bool

	// Text is the value of text-like elements.
	Text string
	// SelStart and SelEnd are the selected rune range of Text, SelEnd
	// exclusive. Equal values mean a caret with no selection.
	SelStart, SelEnd int

	doc      *Document
	parent   *Node
	children []*Node
}

// New creates a detached node.
func New(id string, kind Kind) *Node {
	return &Node{ID: id, Kind: kind}
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in order.
func (n *Node) Children() []*Node {
	return n.children
}

// Append adds child as the last child of n, detaching it from any previous
// parent first.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	child.setDoc(n.doc)
	n.children = append(n.children, child)
	return child
}

// Remove detaches n (and its subtree) from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	n.parent.removeChild(n)
	n.parent = nil
	n.setDoc(nil)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) setDoc(d *Document) {
	n.doc = d
	for _, c := range n.children {
		c.setDoc(d)
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Connected reports whether n is attached to a document root.
func (n *Node) Connected() bool {
	return n != nil && n.doc != nil
}

// Visible reports whether n and all its ancestors are shown and n is
// attached to a document.
func (n *Node) Visible() bool {
	if !n.Connected() {
		return false
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return false
		}
	}
	return true
}

// CanFocus reports whether n can currently receive focus.
func (n *Node) CanFocus() bool {
	return n != nil && n.Focusable && !n.Disabled && n.Visible()
}

// FirstFocusable returns the first focusable descendant of n in document
// order, excluding n itself.
func (n *Node) FirstFocusable() *Node {
	for _, c := range n.children {
		if c.CanFocus() {
			return c
		}
		if f := c.FirstFocusable(); f != nil {
			return f
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// SelectAll selects the whole text of a text-like node. Other kinds are
// left alone.
func (n *Node) SelectAll() bool {
	if !n.Kind.IsTextLike() {
		return false
	}
	n.SelStart = 0
	n.SelEnd = utf8.RuneCountInString(n.Text)
	return true
}

// SelectedText returns the selected part of Text.
func (n *Node) SelectedText() string {
	if n.SelEnd <= n.SelStart {
		return ""
	}
	runes := []rune(n.Text)
	start := clamp(n.SelStart, 0, len(runes))
	end := clamp(n.SelEnd, start, len(runes))
	return string(runes[start:end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
