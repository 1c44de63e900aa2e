package popup

import (
	"log/slog"
	"time"

	"github.com/wilbur182/disclosure/internal/anchor"
	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/dismiss"
	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/forms"
	"github.com/wilbur182/disclosure/internal/hoverintent"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/node"
	"github.com/wilbur182/disclosure/internal/timer"
	"github.com/wilbur182/disclosure/internal/transition"
)

// Reasons a popup opened or closed, passed in controlled.Details.
const (
	ReasonTriggerPress   controlled.Reason = "trigger-press"
	ReasonTriggerHover   controlled.Reason = "trigger-hover"
	ReasonOutsidePress   controlled.Reason = "outside-press"
	ReasonEscapeKey      controlled.Reason = "escape-key"
	ReasonItemPress      controlled.Reason = "item-press"
	ReasonListNavigation controlled.Reason = "list-navigation"
	ReasonInputChange    controlled.Reason = "input-change"
	ReasonDisabled       controlled.Reason = "disabled"
	ReasonImperative     controlled.Reason = "imperative-action"
	ReasonParentClose    controlled.Reason = "parent-close"
)

// Options configures a Popup.
type Options struct {
	// ID names the popup in the dismissal stack. Defaults to a unique
	// kind-based name.
	ID string
	// ParentID nests the popup under another one for dismissal, as for a
	// submenu.
	ParentID string

	Open                 controlled.Prop[bool]
	DefaultOpen          bool
	OnOpenChange         controlled.ChangeFunc[bool]
	OnOpenChangeComplete func(open bool)

	// Hover timings; nil means DefaultHover(kind).
	Hover       *hoverintent.Config
	OpenOnHover bool

	List  listnav.Options
	Items []listnav.Item

	InitialFocus       focus.Target
	FinalFocus         focus.Target
	DisableReturnFocus bool

	// Modal traps outside interaction. nil means modal for dialogs only.
	Modal    *bool
	Disabled bool
	ReadOnly bool

	Anchor     anchor.Options
	Positioner anchor.Positioner
	Field      forms.Field

	// PatientClickThreshold is how long after a hover open a press on the
	// trigger keeps the popup open instead of closing it.
	PatientClickThreshold time.Duration
	FrameDelay            time.Duration
	ExitTimeout           time.Duration

	Logger    *slog.Logger
	Scheduler timer.Scheduler
	// Animator reports enter and exit animations. nil means a
	// transition.Signals driven through AnimationFinished.
	Animator transition.Animator
	Dismiss  *dismiss.Coordinator
	Doc      *node.Document
	Keymap   *keymap.Registry
}
