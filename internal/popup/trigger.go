package popup

import (
	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/node"
)

// Trigger is one element that opens a popup. Several triggers may share a
// popup, each with its own payload.
type Trigger struct {
	ID      string
	Node    *node.Node
	Payload any

	p *Popup
}

// AddTrigger registers a trigger. Re-adding an id replaces its node and
// payload.
func (p *Popup) AddTrigger(id string, n *node.Node, payload any) *Trigger {
	t, ok := p.triggers[id]
	if !ok {
		t = &Trigger{ID: id, p: p}
		p.triggers[id] = t
		p.order = append(p.order, id)
	}
	t.Node = n
	t.Payload = payload
	p.refreshInside()
	return t
}

// RemoveTrigger forgets a trigger. An open popup stays open.
func (p *Popup) RemoveTrigger(id string) {
	if _, ok := p.triggers[id]; !ok {
		return
	}
	delete(p.triggers, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.refreshInside()
}

// Trigger returns the trigger registered under id, or nil.
func (p *Popup) Trigger(id string) *Trigger {
	return p.triggers[id]
}

// Triggers returns the triggers in registration order.
func (p *Popup) Triggers() []*Trigger {
	out := make([]*Trigger, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.triggers[id])
	}
	return out
}

func (p *Popup) refreshInside() {
	if p.reg == nil || p.kind == ContextMenu {
		return
	}
	nodes := make([]*node.Node, 0, len(p.order))
	for _, id := range p.order {
		nodes = append(nodes, p.triggers[id].Node)
	}
	p.reg.SetInside(nodes...)
}

// PointerEnter handles the pointer entering the trigger.
func (t *Trigger) PointerEnter(pt mouse.Point) {
	p := t.p
	if p.hover == nil || !p.interactive() {
		return
	}
	p.hoverTrigger = t.ID
	if t.Node != nil {
		p.hover.SetTriggerRect(t.Node.Rect)
	}
	p.hover.PointerEnter(pt)
}

// PointerMove handles pointer movement over the trigger.
func (t *Trigger) PointerMove(pt mouse.Point) {
	t.p.PointerMove(pt)
}

// PointerLeave handles the pointer leaving the trigger.
func (t *Trigger) PointerLeave(pt mouse.Point) {
	if t.p.hover != nil {
		t.p.hover.PointerLeave(pt)
	}
}

// PointerDown handles a press starting on the trigger. A press cancels a
// pending hover open. Menus and selects open on the press so the pointer
// can drag straight onto an item and release to select it.
func (t *Trigger) PointerDown() {
	p := t.p
	if !p.interactive() {
		return
	}
	p.interaction = focus.InteractionPointer
	if p.hover != nil {
		p.hover.PointerDownBeforeOpen()
	}
	switch {
	case p.kind == Tooltip:
		if p.applied {
			p.SetOpen(false, ReasonTriggerPress, t.ID, nil)
		}
	case p.list != nil && p.kind != Combobox && !p.applied:
		if p.SetOpen(true, ReasonTriggerPress, t.ID, nil) {
			p.pressOpened = true
			p.list.BeginDrag()
		}
	}
}

// Press handles a completed click or tap on the trigger, or keyboard
// activation. It toggles the popup. A press right after a hover open keeps
// the popup open, and a press that already opened it on pointer down does
// nothing.
func (t *Trigger) Press(it focus.Interaction) {
	p := t.p
	if !p.interactive() {
		return
	}
	p.interaction = it
	if p.list != nil && p.list.Dragging() {
		p.list.EndDrag(-1)
	}
	if p.kind == Tooltip {
		if p.applied {
			p.SetOpen(false, ReasonTriggerPress, t.ID, nil)
		}
		return
	}
	if p.pressOpened {
		p.pressOpened = false
		return
	}
	if p.applied && p.triggerID != t.ID {
		p.switchTrigger(t.ID)
		return
	}
	if p.applied && p.openReason == ReasonTriggerHover && p.sched.Now().Sub(p.openedAt) < p.patient {
		p.openReason = ReasonTriggerPress
		p.logger.Debug("popup: patient click keeps popup open")
		return
	}
	p.SetOpen(!p.applied, ReasonTriggerPress, t.ID, nil)
}

// ContextMenu opens a context menu at pt, or moves an open one there.
func (t *Trigger) ContextMenu(pt mouse.Point) {
	p := t.p
	if !p.interactive() || p.kind != ContextMenu {
		return
	}
	p.interaction = focus.InteractionPointer
	p.anchorPoint = &pt
	if p.applied {
		p.position()
		return
	}
	p.SetOpen(true, ReasonTriggerPress, t.ID, pt)
}

// KeyDown handles a normalized key while the trigger has focus. A closed
// popup opens on its trigger keys; an open one routes to Popup.KeyDown.
func (t *Trigger) KeyDown(key string) bool {
	p := t.p
	if !p.interactive() {
		return false
	}
	if p.applied {
		return p.KeyDown(key)
	}
	if p.kind == Tooltip || p.kind == PreviewCard {
		return false
	}
	if p.kind == Combobox && key != "down" && key != "up" {
		return false
	}
	if p.km.Resolve(key, keymap.ContextTrigger) != keymap.ActionOpen {
		return false
	}
	p.interaction = focus.InteractionKeyboard
	p.openKey = key
	defer func() { p.openKey = "" }()
	return p.SetOpen(true, ReasonTriggerPress, t.ID, key)
}
