// Package dismiss resolves outside presses and escape keys against the stack
// of open popups.
package dismiss

import (
	"log/slog"

	"github.com/wilbur182/disclosure/internal/node"
)

// EventKind names what dismissed a popup.
type EventKind int

const (
	EventOutsidePress EventKind = iota
	EventEscape
	// EventParentClose closes a nested entry because its parent left the
	// stack.
	EventParentClose
)

func (k EventKind) String() string {
	switch k {
	case EventEscape:
		return "escape-key"
	case EventParentClose:
		return "parent-close"
	}
	return "outside-press"
}

// Event is passed to a registration's dismiss callback.
type Event struct {
	Kind   EventKind
	Target *node.Node // press target; nil for escape
	Key    string
}

// Resolution is the outcome of one pointer event.
type Resolution struct {
	// Dismissed lists the registrations closed by this event,
	// innermost first. Always empty for PointerDown.
	Dismissed []string
	// Blocked reports that the press landed outside a modal popup and must
	// not reach the content underneath.
	Blocked bool
}

// Registration is one open popup's entry in the stack.
type Registration struct {
	c         *Coordinator
	id        string
	trigger   *node.Node
	surface   *node.Node
	onDismiss func(Event)

	inside       []*node.Node
	outsidePress bool
	escape       bool
	modal        bool
	parent       string

	onChildrenClosed func()

	dismissing    bool // a dismiss callback for this entry is queued or running
	unregistering bool
}

// RegisterOption configures a Registration.
type RegisterOption func(*Registration)

// WithOutsidePress sets whether an outside press dismisses the entry.
func WithOutsidePress(enabled bool) RegisterOption {
	return func(r *Registration) { r.outsidePress = enabled }
}

// WithEscape sets whether the escape key dismisses the entry.
func WithEscape(enabled bool) RegisterOption {
	return func(r *Registration) { r.escape = enabled }
}

// WithModal marks the entry as modal: outside presses are blocked.
func WithModal(modal bool) RegisterOption {
	return func(r *Registration) { r.modal = modal }
}

// WithInside adds nodes that count as inside the entry besides its trigger
// and surface, such as the other triggers of a popup with several.
func WithInside(nodes ...*node.Node) RegisterOption {
	return func(r *Registration) { r.inside = nodes }
}

// WithParent nests the entry under another registration. A press inside
// the child counts as inside the parent.
func WithParent(id string) RegisterOption {
	return func(r *Registration) { r.parent = id }
}

// WithChildrenClosed sets a callback run when the last entry nested under
// this one leaves the stack.
func WithChildrenClosed(fn func()) RegisterOption {
	return func(r *Registration) { r.onChildrenClosed = fn }
}

// ID returns the registration's popup id.
func (r *Registration) ID() string {
	return r.id
}

// Active reports whether the registration is still on the stack.
func (r *Registration) Active() bool {
	return r.c != nil && r.c.index(r) >= 0
}

// SetNodes updates the trigger and surface, e.g. after a different trigger
// opened the popup.
func (r *Registration) SetNodes(trigger, surface *node.Node) {
	r.trigger = trigger
	r.surface = surface
}

// SetInside replaces the extra inside nodes.
func (r *Registration) SetInside(nodes ...*node.Node) {
	r.inside = nodes
}

// HasChildren reports whether any entry on the stack is nested under r.
func (r *Registration) HasChildren() bool {
	if r.c == nil {
		return false
	}
	for _, other := range r.c.stack {
		if other != r && r.c.descends(other, r) {
			return true
		}
	}
	return false
}

// CloseChildren dismisses the entries nested under r, innermost first,
// leaving r itself registered.
func (r *Registration) CloseChildren() {
	if r.Active() {
		r.c.closeChildren(r)
	}
}

// Unregister removes the entry. Entries nested under it are dismissed
// first, innermost first. Safe to call more than once.
func (r *Registration) Unregister() {
	if !r.Active() || r.unregistering {
		return
	}
	r.unregistering = true
	defer func() { r.unregistering = false }()
	r.c.closeChildren(r)
	r.c.remove(r)
}

func (r *Registration) dismiss(ev Event) {
	r.dismissing = true
	defer func() { r.dismissing = false }()
	if r.onDismiss != nil {
		r.onDismiss(ev)
	}
}

func (r *Registration) containsSelf(target *node.Node) bool {
	if r.trigger.Contains(target) || r.surface.Contains(target) {
		return true
	}
	for _, n := range r.inside {
		if n.Contains(target) {
			return true
		}
	}
	return false
}

// Coordinator owns the ordered stack of open popups. Register and
// Unregister are the only ways to change it.
type Coordinator struct {
	logger *slog.Logger
	stack  []*Registration

	pressing bool
	downSet  map[*Registration]bool
}

// New creates an empty coordinator. nil logger means slog.Default().
func New(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{logger: logger}
}

// Register pushes a popup onto the stack. Registering an id that is already
// present replaces the old entry. Outside press and escape dismissal are on
// by default.
func (c *Coordinator) Register(id string, trigger, surface *node.Node, onDismiss func(Event), opts ...RegisterOption) *Registration {
	if old := c.find(id); old != nil {
		c.remove(old)
	}
	r := &Registration{
		c:            c,
		id:           id,
		trigger:      trigger,
		surface:      surface,
		onDismiss:    onDismiss,
		outsidePress: true,
		escape:       true,
	}
	for _, opt := range opts {
		opt(r)
	}
	c.stack = append(c.stack, r)
	c.logger.Debug("dismiss: register", "id", id, "depth", len(c.stack))
	return r
}

// Unregister removes the entry for id, if any, along with the entries
// nested under it.
func (c *Coordinator) Unregister(id string) {
	if r := c.find(id); r != nil {
		r.Unregister()
	}
}

// Len returns the stack depth.
func (c *Coordinator) Len() int {
	return len(c.stack)
}

// IDs returns the registered ids, oldest first.
func (c *Coordinator) IDs() []string {
	ids := make([]string, len(c.stack))
	for i, r := range c.stack {
		ids[i] = r.id
	}
	return ids
}

// Top returns the most recently registered entry, or nil.
func (c *Coordinator) Top() *Registration {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// PointerDown records which entries the press started outside of.
func (c *Coordinator) PointerDown(target *node.Node) Resolution {
	outside, blocked := c.walk(target)
	c.pressing = true
	c.downSet = make(map[*Registration]bool, len(outside))
	for _, r := range outside {
		c.downSet[r] = true
	}
	return Resolution{Blocked: blocked}
}

// PointerUp completes a press. Entries outside on both the down and the up
// are dismissed; their callbacks run after the whole press is resolved,
// innermost first.
func (c *Coordinator) PointerUp(target *node.Node) Resolution {
	outside, blocked := c.walk(target)
	if !c.pressing {
		return Resolution{Blocked: blocked}
	}
	downSet := c.downSet
	c.pressing = false
	c.downSet = nil

	var queued []*Registration
	for _, r := range outside {
		if downSet[r] && r.outsidePress {
			queued = append(queued, r)
		}
	}

	res := Resolution{Blocked: blocked}
	for _, r := range queued {
		res.Dismissed = append(res.Dismissed, r.id)
	}
	if len(queued) > 0 {
		c.logger.Debug("dismiss: outside press", "ids", res.Dismissed)
	}
	for _, r := range queued {
		r.dismissing = true
	}
	for _, r := range queued {
		r.dismiss(Event{Kind: EventOutsidePress, Target: target})
	}
	return res
}

// CancelPress forgets a press in progress, e.g. when the pointer capture
// was lost.
func (c *Coordinator) CancelPress() {
	c.pressing = false
	c.downSet = nil
}

// KeyDown handles a normalized key. Escape dismisses only the topmost entry
// and reports true so the caller stops propagation.
func (c *Coordinator) KeyDown(key string) bool {
	if key != "esc" {
		return false
	}
	top := c.Top()
	if top == nil || !top.escape {
		return false
	}
	c.logger.Debug("dismiss: escape", "id", top.id)
	top.dismiss(Event{Kind: EventEscape, Key: key})
	return true
}

// walk visits entries newest to oldest and returns those the target is
// outside of, stopping at the first entry it is inside.
func (c *Coordinator) walk(target *node.Node) (outside []*Registration, blocked bool) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		r := c.stack[i]
		if c.inside(r, target) {
			break
		}
		outside = append(outside, r)
		if r.modal {
			blocked = true
		}
	}
	return outside, blocked
}

// inside reports whether target is within r's trigger or surface, or
// within any registration nested under r.
func (c *Coordinator) inside(r *Registration, target *node.Node) bool {
	if target == nil {
		return false
	}
	if r.containsSelf(target) {
		return true
	}
	for _, other := range c.stack {
		if other != r && c.descends(other, r) && other.containsSelf(target) {
			return true
		}
	}
	return false
}

// descends reports whether child is nested under ancestor via parent ids.
func (c *Coordinator) descends(child, ancestor *Registration) bool {
	seen := map[*Registration]bool{child: true}
	for cur := child; cur.parent != ""; {
		next := c.find(cur.parent)
		if next == nil || seen[next] {
			return false
		}
		if next == ancestor {
			return true
		}
		seen[next] = true
		cur = next
	}
	return false
}

func (c *Coordinator) find(id string) *Registration {
	for _, r := range c.stack {
		if r.id == id {
			return r
		}
	}
	return nil
}

func (c *Coordinator) index(r *Registration) int {
	for i, existing := range c.stack {
		if existing == r {
			return i
		}
	}
	return -1
}

// closeChildren dismisses every entry nested under r, newest first. An
// entry whose owner refuses to close stays registered.
func (c *Coordinator) closeChildren(r *Registration) {
	var children []*Registration
	for i := len(c.stack) - 1; i >= 0; i-- {
		if other := c.stack[i]; other != r && c.descends(other, r) {
			children = append(children, other)
		}
	}
	for _, child := range children {
		if !child.Active() || child.dismissing {
			continue
		}
		c.logger.Debug("dismiss: parent closed", "id", child.id, "parent", r.id)
		child.dismiss(Event{Kind: EventParentClose})
		if child.Active() {
			c.logger.Debug("dismiss: nested entry stayed open", "id", child.id)
		}
	}
}

func (c *Coordinator) remove(r *Registration) {
	i := c.index(r)
	if i < 0 {
		return
	}
	c.stack = append(c.stack[:i], c.stack[i+1:]...)
	delete(c.downSet, r)
	c.logger.Debug("dismiss: unregister", "id", r.id, "depth", len(c.stack))

	if r.parent == "" {
		return
	}
	if parent := c.find(r.parent); parent != nil && parent.onChildrenClosed != nil && !parent.HasChildren() {
		parent.onChildrenClosed()
	}
}
