// Package focus moves real focus into a popup when it opens and back out
// when it closes.
package focus

import (
	"log/slog"

	"github.com/wilbur182/disclosure/internal/node"
)

// Interaction is the input type that opened or closed the popup.
type Interaction int

const (
	InteractionKeyboard Interaction = iota
	InteractionPointer
	InteractionTouch
)

func (i Interaction) String() string {
	switch i {
	case InteractionPointer:
		return "pointer"
	case InteractionTouch:
		return "touch"
	}
	return "keyboard"
}

type targetKind int

const (
	kindDefault targetKind = iota
	kindNone
	kindNode
	kindFunc
)

// Target selects where focus goes. The zero Target is Default.
type Target struct {
	kind targetKind
	node *node.Node
	fn   func(Interaction) Target
}

// Default uses the built-in fallback chain.
func Default() Target { return Target{} }

// None leaves focus where it is.
func None() Target { return Target{kind: kindNone} }

// Node focuses n. A nil node means Default.
func Node(n *node.Node) Target {
	if n == nil {
		return Default()
	}
	return Target{kind: kindNode, node: n}
}

// Func picks the target from the interaction type when it is needed.
func Func(fn func(Interaction) Target) Target {
	if fn == nil {
		return Default()
	}
	return Target{kind: kindFunc, fn: fn}
}

// Manager transfers focus for one popup.
type Manager struct {
	doc         *node.Document
	logger      *slog.Logger
	initial     Target
	final       Target
	returnFocus bool

	open     bool
	surface  *node.Node
	opener   *node.Node
	previous *node.Node
}

// Option configures a Manager.
type Option func(*Manager)

// WithInitialFocus sets the target focused on open.
func WithInitialFocus(t Target) Option {
	return func(m *Manager) { m.initial = t }
}

// WithFinalFocus sets the target focused on close.
func WithFinalFocus(t Target) Option {
	return func(m *Manager) { m.final = t }
}

// WithReturnFocus controls whether closing moves focus at all.
func WithReturnFocus(enabled bool) Option {
	return func(m *Manager) { m.returnFocus = enabled }
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a manager for doc.
func New(doc *node.Document, opts ...Option) *Manager {
	m := &Manager{doc: doc, logger: slog.Default(), returnFocus: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetInitialFocus replaces the initial focus target.
func (m *Manager) SetInitialFocus(t Target) { m.initial = t }

// SetFinalFocus replaces the final focus target.
func (m *Manager) SetFinalFocus(t Target) { m.final = t }

// IsOpen reports whether Open was called without a matching Close.
func (m *Manager) IsOpen() bool { return m.open }

// Opener returns the trigger that opened the popup.
func (m *Manager) Opener() *node.Node { return m.opener }

// SetOpener records a different trigger instance as the opener, as when
// another trigger takes over an open popup.
func (m *Manager) SetOpener(n *node.Node) { m.opener = n }

// Open records the element focused before opening and focuses the initial
// target: the explicit one, else the surface's first focusable descendant,
// else the surface. Text inputs get their whole text selected. It returns
// the node that received focus, or nil.
func (m *Manager) Open(surface, opener *node.Node, it Interaction) *node.Node {
	m.open = true
	m.surface = surface
	m.opener = opener
	m.previous = m.doc.ActiveElement()

	target, ok := m.resolve(m.initial, it, 0)
	if !ok {
		return nil
	}
	if target == nil {
		target = m.initialDefault()
	}
	if target == nil || !m.doc.Focus(target) {
		m.logger.Debug("focus: no initial target", "surface", nodeID(surface))
		return nil
	}
	target.SelectAll()
	return target
}

func (m *Manager) initialDefault() *node.Node {
	if m.surface == nil {
		return nil
	}
	if f := m.surface.FirstFocusable(); f != nil {
		return f
	}
	// Surfaces take programmatic focus even without being in the tab order
	m.surface.Focusable = true
	if m.surface.CanFocus() {
		return m.surface
	}
	return nil
}

// Close focuses the final target: the explicit one, else the trigger
// instance that opened the popup, else the element focused before opening.
// Focus the user already moved outside the popup is left alone. It returns
// the node that received focus, or nil.
func (m *Manager) Close(it Interaction) *node.Node {
	if !m.open {
		return nil
	}
	m.open = false
	defer func() {
		m.surface, m.opener, m.previous = nil, nil, nil
	}()
	if !m.returnFocus {
		return nil
	}

	if active := m.doc.ActiveElement(); active != nil && active.Visible() &&
		!m.surface.Contains(active) && active != m.opener && active != m.previous {
		m.logger.Debug("focus: focus moved outside, not returning", "active", active.ID)
		return nil
	}

	target, ok := m.resolve(m.final, it, 0)
	if !ok {
		return nil
	}
	candidates := []*node.Node{target}
	if target == nil {
		candidates = []*node.Node{m.opener, m.previous}
	}
	for _, c := range candidates {
		if c.CanFocus() && m.doc.Focus(c) {
			return c
		}
	}
	return nil
}

// Check refocuses the surface when the focused element was hidden or
// removed while the popup is open. Reports whether it moved focus.
func (m *Manager) Check() bool {
	if !m.open || m.surface == nil {
		return false
	}
	active := m.doc.ActiveElement()
	if active == nil || active.Visible() {
		return false
	}
	m.logger.Debug("focus: active element detached, refocusing surface", "active", active.ID)
	m.surface.Focusable = true
	return m.doc.Focus(m.surface)
}

// resolve turns t into a node. ok is false for None; a nil node with ok
// true means use the default chain. Explicit nodes that cannot take focus
// fall back to the default chain.
func (m *Manager) resolve(t Target, it Interaction, depth int) (*node.Node, bool) {
	switch t.kind {
	case kindNone:
		return nil, false
	case kindNode:
		if t.node.CanFocus() {
			return t.node, true
		}
		m.logger.Debug("focus: explicit target not focusable", "target", t.node.ID)
		return nil, true
	case kindFunc:
		if depth > 0 {
			return nil, true
		}
		return m.resolve(t.fn(it), it, depth+1)
	}
	return nil, true
}

func nodeID(n *node.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
