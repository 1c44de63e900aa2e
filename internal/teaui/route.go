package teaui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/node"
)

func regionNode(r *mouse.Region) *node.Node {
	if r == nil {
		return nil
	}
	n, _ := r.Data.(*node.Node)
	return n
}

func (h *Host) handleMouse(msg tea.MouseMsg) {
	action := h.mouse.HandleMouse(msg)
	target := regionNode(action.Region)
	pt := action.Point()

	switch action.Type {
	case mouse.ActionHover, mouse.ActionDrag:
		h.pointerMove(target, pt)

	case mouse.ActionPress:
		h.pressNode = target
		if res := h.coord.PointerDown(target); res.Blocked {
			h.logger.Debug("teaui: press blocked by modal", "target", nodeID(target))
			return
		}
		if w, t := h.widgetFor(target); t != nil {
			w.Popup.Trigger(t.id).PointerDown()
		}

	case mouse.ActionRelease:
		h.release(target, action)

	case mouse.ActionContextMenu:
		h.coord.PointerDown(target)
		h.coord.PointerUp(target)
		if w, t := h.widgetFor(target); t != nil {
			w.Popup.Trigger(t.id).ContextMenu(pt)
		}

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if w, _ := h.widgetFor(target); w != nil && w.Popup.List() != nil {
			w.offset = clamp(w.offset+action.Delta, 0, max(0, len(w.items)-h.maxVisible))
		}
	}
}

func (h *Host) release(target *node.Node, action mouse.MouseAction) {
	press := h.pressNode
	h.pressNode = nil
	if action.Button != tea.MouseButtonLeft {
		return
	}
	if res := h.coord.PointerUp(target); res.Blocked {
		return
	}

	w, t := h.widgetFor(target)
	if w != nil && t == nil {
		if i := w.itemIndex(target); i >= 0 {
			w.Popup.ItemPointerUp(i)
			return
		}
	}
	if t != nil && target == press {
		w.Popup.Trigger(t.id).Press(focus.InteractionPointer)
		return
	}
	// A drag from a trigger released somewhere other than an item
	for _, other := range h.widgets {
		if list := other.Popup.List(); list != nil && list.Dragging() {
			other.Popup.ItemPointerUp(-1)
		}
	}
}

func (h *Host) pointerMove(target *node.Node, pt mouse.Point) {
	if target != h.hoverNode {
		h.pointerCross(h.hoverNode, target, pt)
		h.hoverNode = target
	}
	for _, w := range h.widgets {
		w.Popup.PointerMove(pt)
		if w.Popup.List() == nil || !w.Popup.Mounted() {
			continue
		}
		if ow, _ := h.widgetFor(target); ow == w {
			w.Popup.ItemPointerMove(w.itemIndex(target))
		} else if w.Popup.List().Dragging() {
			w.Popup.ItemPointerMove(-1)
		}
	}
}

// pointerCross turns a change of the node under the pointer into leave and
// enter events for triggers and surfaces.
func (h *Host) pointerCross(from, to *node.Node, pt mouse.Point) {
	fw, ft := h.widgetFor(from)
	tw, tt := h.widgetFor(to)
	if ft != nil && ft != tt {
		fw.Popup.Trigger(ft.id).PointerLeave(pt)
	}
	if fw != nil && ft == nil && (tw != fw || tt != nil) {
		fw.Popup.SurfacePointerLeave(pt)
	}
	if tt != nil && tt != ft {
		tw.Popup.Trigger(tt.id).PointerEnter(pt)
	}
	if tw != nil && tt == nil && (fw != tw || ft != nil) {
		tw.Popup.SurfacePointerEnter()
	}
}

func (h *Host) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := keymap.Normalize(msg)
	if key == "ctrl+c" {
		h.shutdown()
		return nil
	}

	active := h.doc.ActiveElement()
	w, t := h.widgetFor(active)
	switch {
	case t != nil && w.input != nil:
		return h.inputKey(w, t, key, msg)
	case t != nil:
		trig := w.Popup.Trigger(t.id)
		if trig.KeyDown(key) {
			h.scrollToActive(w)
			return nil
		}
		if key == "enter" || key == "space" {
			trig.Press(focus.InteractionKeyboard)
			return nil
		}
	case w != nil:
		if w.Popup.KeyDown(key) {
			h.scrollToActive(w)
			return nil
		}
	}

	switch key {
	case "tab":
		h.cycleFocus(1)
	case "shift+tab":
		h.cycleFocus(-1)
	case "q":
		if !h.anyOpen() {
			h.shutdown()
		}
	}
	return nil
}

// inputKey routes a key typed into a combobox input: navigation goes to the
// list, text to the input.
func (h *Host) inputKey(w *Widget, t *triggerView, key string, msg tea.KeyMsg) tea.Cmd {
	if w.Popup.Trigger(t.id).KeyDown(key) {
		h.scrollToActive(w)
		return nil
	}
	switch key {
	case "tab":
		h.cycleFocus(1)
		return nil
	case "shift+tab":
		h.cycleFocus(-1)
		return nil
	}
	before := w.input.Value()
	var cmd tea.Cmd
	*w.input, cmd = w.input.Update(msg)
	if v := w.input.Value(); v != before {
		t.node.Text = v
		w.Popup.InputChanged(v)
	}
	return cmd
}

// scrollToActive keeps a keyboard highlight inside the list viewport. A
// pointer highlight never scrolls, so the list does not move under the
// pointer.
func (h *Host) scrollToActive(w *Widget) {
	list := w.Popup.List()
	if list == nil || list.HighlightOrigin() != listnav.OriginKeyboard {
		return
	}
	w.offset = scrollInto(list.ActiveIndex(), w.offset, h.maxVisible, len(w.items))
}

func scrollInto(active, offset, visible, total int) int {
	if active < 0 {
		return offset
	}
	if active < offset {
		offset = active
	}
	if active >= offset+visible {
		offset = active - visible + 1
	}
	return clamp(offset, 0, max(0, total-visible))
}

func (h *Host) cycleFocus(dir int) {
	var order []*node.Node
	for _, w := range h.widgets {
		for _, t := range w.triggers {
			if t.node.CanFocus() {
				order = append(order, t.node)
			}
		}
	}
	if len(order) == 0 {
		return
	}
	cur := -1
	for i, n := range order {
		if n == h.doc.ActiveElement() {
			cur = i
		}
	}
	next := (cur + dir + len(order)) % len(order)
	if cur < 0 && dir < 0 {
		next = len(order) - 1
	}
	h.doc.Focus(order[next])
}

func (h *Host) anyOpen() bool {
	for _, w := range h.widgets {
		if w.Popup.Open() {
			return true
		}
	}
	return false
}

func nodeID(n *node.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
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
