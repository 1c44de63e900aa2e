package popup

import (
	"strconv"

	"github.com/wilbur182/disclosure/internal/transition"
)

// Attributes returns the surface's presentation flags.
func (p *Popup) Attributes() map[string]string {
	attrs := map[string]string{
		"role":      p.kind.role(),
		"data-side": p.placement.Side.String(),
	}
	if p.open.Get() {
		attrs["data-open"] = ""
	} else {
		attrs["data-closed"] = ""
	}
	switch p.tracker.Phase() {
	case transition.PhaseStarting:
		attrs["data-starting-style"] = ""
	case transition.PhaseEnding:
		attrs["data-ending-style"] = ""
	}
	attrs["data-align"] = p.placement.Align.String()
	if p.disabled {
		attrs["data-disabled"] = ""
	}
	if p.readOnly {
		attrs["data-readonly"] = ""
	}
	if p.modal() {
		attrs["aria-modal"] = "true"
	}
	if p.list != nil {
		if it, ok := p.list.ActiveItem(); ok && it.Node != nil {
			attrs["aria-activedescendant"] = it.Node.ID
		}
		if p.list.Dragging() {
			attrs["data-dragging"] = ""
		}
	}
	return attrs
}

// TriggerAttributes returns the flags for trigger id.
func (p *Popup) TriggerAttributes(id string) map[string]string {
	expanded := p.open.Get() && p.triggerID == id
	attrs := map[string]string{
		"aria-expanded": strconv.FormatBool(expanded),
	}
	if hp := p.kind.hasPopup(); hp != "" {
		attrs["aria-haspopup"] = hp
	}
	if expanded {
		attrs["data-popup-open"] = ""
	}
	if p.disabled {
		attrs["data-disabled"] = ""
	}
	return attrs
}

// ItemAttributes returns the flags for list item i.
func (p *Popup) ItemAttributes(i int) map[string]string {
	attrs := map[string]string{}
	if p.list == nil || i < 0 || i >= p.list.Len() {
		return attrs
	}
	if p.list.ActiveIndex() == i {
		attrs["data-highlighted"] = ""
		attrs["data-highlight-origin"] = p.list.HighlightOrigin().String()
	}
	for _, s := range p.list.Selected() {
		if s == i {
			attrs["data-selected"] = ""
			attrs["aria-selected"] = "true"
		}
	}
	if p.list.Items()[i].Disabled {
		attrs["data-disabled"] = ""
	}
	return attrs
}
