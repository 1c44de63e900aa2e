package popup

import (
	"time"

	"github.com/wilbur182/disclosure/internal/hoverintent"
)

// Kind is a popup flavor. Each flavor composes the engine parts it needs.
type Kind int

const (
	Tooltip Kind = iota
	PreviewCard
	Popover
	Menu
	ContextMenu
	Select
	Combobox
	Dialog
)

var kindNames = map[Kind]string{
	Tooltip:     "tooltip",
	PreviewCard: "preview-card",
	Popover:     "popover",
	Menu:        "menu",
	ContextMenu: "context-menu",
	Select:      "select",
	Combobox:    "combobox",
	Dialog:      "dialog",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Tooltip, false
}

// Capability is one engine part a flavor uses. Every flavor has the
// controlled open flag and the transition tracker.
type Capability uint8

const (
	CapHover Capability = 1 << iota
	CapDismiss
	CapList
	CapFocus
	CapForm
)

// Has reports whether c includes every capability in o.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// Capabilities returns the parts the flavor composes.
func (k Kind) Capabilities() Capability {
	switch k {
	case Tooltip:
		return CapHover | CapDismiss
	case PreviewCard:
		return CapHover | CapDismiss
	case Popover:
		return CapHover | CapDismiss | CapFocus
	case Menu:
		return CapHover | CapDismiss | CapList | CapFocus
	case ContextMenu:
		return CapDismiss | CapList | CapFocus
	case Select:
		return CapDismiss | CapList | CapFocus | CapForm
	case Combobox:
		return CapHover | CapDismiss | CapList | CapFocus | CapForm
	case Dialog:
		return CapDismiss | CapFocus
	}
	return 0
}

// hoverByDefault is true for flavors that only open on hover; the others
// opt in with Options.OpenOnHover.
func (k Kind) hoverByDefault() bool {
	return k == Tooltip || k == PreviewCard
}

// role is the accessible role of the surface.
func (k Kind) role() string {
	switch k {
	case Tooltip:
		return "tooltip"
	case Menu, ContextMenu:
		return "menu"
	case Select, Combobox:
		return "listbox"
	case Dialog:
		return "dialog"
	}
	return "dialog"
}

// hasPopup is the trigger's aria-haspopup value.
func (k Kind) hasPopup() string {
	switch k {
	case Menu, ContextMenu:
		return "menu"
	case Select, Combobox:
		return "listbox"
	case Tooltip, PreviewCard:
		return ""
	}
	return "dialog"
}

// closesOnSelect reports whether committing an item closes the popup.
func (k Kind) closesOnSelect() bool {
	switch k {
	case Menu, ContextMenu, Select, Combobox:
		return true
	}
	return false
}

// DefaultHover returns the hover timings used when Options.Hover is nil.
func DefaultHover(k Kind) hoverintent.Config {
	cfg := hoverintent.Config{
		Mode:          hoverintent.ModeRest,
		RestThreshold: 1,
		GraceTimeout:  300 * time.Millisecond,
	}
	switch k {
	case Tooltip:
		cfg.OpenDelay = 600 * time.Millisecond
	case PreviewCard:
		cfg.OpenDelay = 600 * time.Millisecond
		cfg.CloseDelay = 300 * time.Millisecond
	case Menu:
		cfg.OpenDelay = 100 * time.Millisecond
	default:
		cfg.OpenDelay = 300 * time.Millisecond
	}
	return cfg
}
