package popup

import (
	"reflect"

	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/mouse"
)

// KeyDown handles a normalized key while the popup is open: escape goes to
// the dismissal stack, everything else to the list. Reports whether the
// key was used.
func (p *Popup) KeyDown(key string) bool {
	if !p.applied || !p.interactive() {
		return false
	}
	p.interaction = focus.InteractionKeyboard
	if p.coord != nil && p.coord.KeyDown(key) {
		return true
	}
	if p.list == nil {
		return false
	}
	if p.kind == Combobox && keymap.IsPrintable(key) {
		// Typed text belongs to the input
		return false
	}
	if p.opts.ParentID != "" && p.km.Resolve(key, keymap.ContextMenu) == keymap.ActionCloseSubmenu {
		return p.SetOpen(false, ReasonListNavigation, "", key)
	}
	handled := p.list.KeyDown(key)
	p.afterList()
	return handled
}

// PointerMove feeds pointer movement anywhere on screen to hover intent,
// for the grace area between trigger and surface.
func (p *Popup) PointerMove(pt mouse.Point) {
	if p.hover != nil && p.interactive() {
		p.hover.PointerMove(pt)
	}
}

// SurfacePointerEnter handles the pointer reaching the surface.
func (p *Popup) SurfacePointerEnter() {
	p.hoverDeferred = false
	if p.hover != nil {
		p.hover.SurfaceEnter()
	}
}

// SurfacePointerLeave handles the pointer leaving the surface for pt.
func (p *Popup) SurfacePointerLeave(pt mouse.Point) {
	if p.hover != nil {
		p.hover.SurfaceLeave(pt)
	}
	if p.list != nil && !p.list.Dragging() {
		p.list.PointerLeaveList()
	}
}

// ItemPointerMove handles the pointer over item i, or over no item when i
// is -1. During a drag from the trigger it previews the item.
func (p *Popup) ItemPointerMove(i int) {
	if p.list == nil || !p.applied || !p.interactive() {
		return
	}
	if p.list.Dragging() {
		p.list.DragMove(i)
		return
	}
	if i < 0 {
		p.list.PointerLeaveList()
		return
	}
	p.list.ItemPointerMove(i)
}

// ItemPointerUp handles a pointer release over item i, or over no item when
// i is -1, and reports whether a selection was committed. A drag from the
// trigger commits only when released over an item it crossed.
func (p *Popup) ItemPointerUp(i int) bool {
	if p.list == nil || !p.applied || !p.interactive() {
		return false
	}
	p.interaction = focus.InteractionPointer
	p.pressOpened = false
	var committed bool
	if p.list.Dragging() {
		committed = p.list.EndDrag(i)
	} else if i >= 0 {
		committed = p.list.Select(i, controlled.NewDetails(ReasonItemPress))
	}
	p.afterList()
	return committed
}

// InputChanged handles text typed into a combobox input. Non-empty text
// opens the list.
func (p *Popup) InputChanged(text string) {
	if p.kind != Combobox || !p.interactive() {
		return
	}
	id := p.triggerID
	if id == "" && len(p.order) > 0 {
		id = p.order[0]
	}
	if t := p.triggers[id]; t != nil && t.Node != nil {
		t.Node.Text = text
	}
	if text != "" && !p.applied {
		p.interaction = focus.InteractionKeyboard
		p.SetOpen(true, ReasonInputChange, id, text)
	}
}

// afterList commits a selection the list accepted during the last call.
func (p *Popup) afterList() {
	i := p.selectPending
	p.selectPending = -1
	if i < 0 || p.list == nil || i >= p.list.Len() {
		return
	}
	item := p.list.Items()[i]

	if p.caps.Has(CapForm) && p.opts.Field != nil {
		value := item.Value
		if value == nil {
			value = item.Label
		}
		if err := p.opts.Field.Commit(value); err != nil {
			p.logger.Debug("popup: field rejected value", "err", err)
		}
	}
	if p.kind == Combobox {
		if n := p.triggerNode(); n != nil {
			n.Text = item.Label
			n.SelStart, n.SelEnd = len([]rune(item.Label)), len([]rune(item.Label))
		}
	}
	if p.kind.closesOnSelect() && !p.opts.List.Multiple && p.applied {
		p.SetOpen(false, ReasonItemPress, "", item)
	}
}

// syncSelectionFromField selects the item matching the field's value.
func (p *Popup) syncSelectionFromField() {
	if p.list == nil || p.opts.Field == nil {
		return
	}
	value := p.opts.Field.Value()
	if value == nil {
		return
	}
	for i, it := range p.list.Items() {
		v := it.Value
		if v == nil {
			v = it.Label
		}
		if reflect.DeepEqual(v, value) {
			p.list.SetSelected(i)
			return
		}
	}
}
